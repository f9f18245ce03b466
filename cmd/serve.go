package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/janmaaarc/link-scout-ai/internal/export"
	"github.com/janmaaarc/link-scout-ai/internal/model"
	"github.com/janmaaarc/link-scout-ai/internal/scan"
	"github.com/janmaaarc/link-scout-ai/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the pipeline with scheduled scans and an HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv("serve")
		if err != nil {
			return err
		}

		g, ctx := errgroup.WithContext(ctx)

		// Scheduled scans fire off the countdown timer; manual scans via the
		// API reset it.
		env.Timer.SetOnElapsed(func() {
			go func() {
				if _, err := env.Orchestrator.RunScan(ctx); err != nil {
					if errors.Is(err, scan.ErrScanInProgress) {
						zap.L().Debug("scheduled scan skipped, scan already running")
						return
					}
					zap.L().Error("scheduled scan failed", zap.Error(err))
				}
			}()
		})
		g.Go(func() error {
			env.Timer.Run(ctx)
			return nil
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}
		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(env, ctx),
		}

		g.Go(func() error {
			zap.L().Info("starting server", zap.Int("port", port))
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return eris.Wrap(err, "server listen")
			}
			return nil
		})

		g.Go(func() error {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})

		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// newRouter builds the HTTP API. scanCtx bounds the lifetime of scans
// triggered via the API so shutdown tears them down safely.
func newRouter(env *appEnv, scanCtx context.Context) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/leads", func(r chi.Router) {
		r.Get("/", handleListLeads(env))
		r.Post("/", handleCreateLead(env))
		r.Patch("/{id}/status", handlePatchStatus(env))
		r.Delete("/{id}", handleDeleteLead(env))
		r.Post("/{id}/draft", handleDraftLead(env))
	})

	r.Post("/scan", handleTriggerScan(env, scanCtx))
	r.Post("/sync", handleSync(env))
	r.Get("/export.csv", handleExportCSV(env))
	r.Get("/logs", handleLogs(env))
	r.Get("/status", handleStatus(env))
	r.Get("/stats", handleStats(env))

	return r
}

func handleListLeads(env *appEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := store.Query{
			Search:   r.URL.Query().Get("search"),
			Status:   r.URL.Query().Get("status"),
			PageSize: env.PageSize,
		}
		if page, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
			q.Page = page
		}
		if size, err := strconv.Atoi(r.URL.Query().Get("page_size")); err == nil && size > 0 {
			q.PageSize = size
		}
		writeJSON(w, http.StatusOK, env.Store.Query(q))
	}
}

func handleCreateLead(env *appEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name        string `json:"name"`
			Title       string `json:"title"`
			Company     string `json:"company"`
			LinkedInURL string `json:"linkedinUrl"`
			PostContent string `json:"postContent"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Name == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}

		lead := model.NewManualLead(req.Name, req.Title, req.Company, req.LinkedInURL, req.PostContent)
		env.Store.InsertFront(lead)
		writeJSON(w, http.StatusCreated, lead)
	}
}

func handlePatchStatus(env *appEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Status model.LeadStatus `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if !model.ValidLeadStatus(req.Status) {
			writeError(w, http.StatusBadRequest, "invalid status")
			return
		}

		patch := model.LeadPatch{Status: &req.Status}
		if req.Status == model.LeadStatusDisqualified {
			// Disqualifying by hand also clears relevance so the lead never
			// re-enters the qualified pool.
			relevant := false
			patch.IsRelevant = &relevant
		}

		lead, ok := env.Store.Patch(chi.URLParam(r, "id"), patch)
		if !ok {
			writeError(w, http.StatusNotFound, "lead not found")
			return
		}
		writeJSON(w, http.StatusOK, lead)
	}
}

func handleDeleteLead(env *appEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !env.Store.Remove(chi.URLParam(r, "id")) {
			writeError(w, http.StatusNotFound, "lead not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleDraftLead(env *appEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lead, ok := env.Store.Get(chi.URLParam(r, "id"))
		if !ok {
			writeError(w, http.StatusNotFound, "lead not found")
			return
		}
		draft := env.Drafter.Draft(r.Context(), lead)
		writeJSON(w, http.StatusOK, map[string]string{"draft": draft})
	}
}

func handleTriggerScan(env *appEnv, scanCtx context.Context) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		if env.Orchestrator.State() == scan.StateScanning {
			writeError(w, http.StatusConflict, "a scan is already in progress")
			return
		}

		go func() {
			if _, err := env.Orchestrator.RunScan(scanCtx); err != nil && !errors.Is(err, scan.ErrScanInProgress) {
				zap.L().Error("manual scan failed", zap.Error(err))
			}
		}()
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
	}
}

func handleSync(env *appEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if env.Sync == nil {
			writeError(w, http.StatusServiceUnavailable, "sheet sync is not configured")
			return
		}
		result, err := env.Sync.Run(r.Context(), env.Store.All())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		env.Orchestrator.ResetPendingSync()
		writeJSON(w, http.StatusOK, result)
	}
}

func handleExportCSV(env *appEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		filename := export.Filename(time.Now().UTC())
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		if err := export.WriteCSV(w, env.Store.All()); err != nil {
			zap.L().Error("csv export failed", zap.Error(err))
		}
	}
}

func handleLogs(env *appEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 50
		if n, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && n > 0 {
			limit = n
		}
		writeJSON(w, http.StatusOK, env.Journal.Recent(limit))
	}
}

func handleStatus(env *appEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"state":             env.Orchestrator.State(),
			"pending_sync":      env.Orchestrator.PendingSync(),
			"next_scan_seconds": int(env.Timer.Remaining().Seconds()),
		})
	}
}

func handleStats(env *appEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, env.Store.Stats())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("write response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
