// Package export renders the lead list as CSV for download.
package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/janmaaarc/link-scout-ai/internal/model"
)

// Columns is the fixed header row, in output order.
var Columns = []string{
	"Name", "Company", "Title", "Email", "Phone",
	"AI Score", "Status", "LinkedIn URL", "Found At",
}

// Filename names the download for the given day, e.g.
// leads_export_2026-08-30.csv.
func Filename(t time.Time) string {
	return fmt.Sprintf("leads_export_%s.csv", t.Format("2006-01-02"))
}

// WriteCSV streams the leads as CSV in their stored order.
func WriteCSV(w io.Writer, leads []model.Lead) error {
	if err := writeRecord(w, Columns); err != nil {
		return err
	}
	for _, l := range leads {
		record := []string{
			l.Name,
			l.Company,
			l.Title,
			l.Email,
			l.Phone,
			strconv.Itoa(l.AIScore),
			string(l.Status),
			l.LinkedInURL,
			l.FoundAt.UTC().Format(time.RFC3339),
		}
		if err := writeRecord(w, record); err != nil {
			return err
		}
	}
	return nil
}

func writeRecord(w io.Writer, fields []string) error {
	for i, f := range fields {
		if i > 0 {
			if _, err := io.WriteString(w, ","); err != nil {
				return eris.Wrap(err, "export: write csv")
			}
		}
		if _, err := io.WriteString(w, escape(f)); err != nil {
			return eris.Wrap(err, "export: write csv")
		}
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return eris.Wrap(err, "export: write csv")
	}
	return nil
}

// escape quotes a field only when it contains a comma, quote or newline.
func escape(field string) string {
	if !strings.ContainsAny(field, ",\"\n\r") {
		return field
	}
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}
