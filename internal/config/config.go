package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Workflow   WorkflowConfig   `yaml:"workflow" mapstructure:"workflow"`
	Anthropic  AnthropicConfig  `yaml:"anthropic" mapstructure:"anthropic"`
	Sheets     SheetsConfig     `yaml:"sheets" mapstructure:"sheets"`
	Enrichment EnrichmentConfig `yaml:"enrichment" mapstructure:"enrichment"`
	Outreach   OutreachConfig   `yaml:"outreach" mapstructure:"outreach"`
	Leads      LeadsConfig      `yaml:"leads" mapstructure:"leads"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// WorkflowConfig drives the scan pipeline.
type WorkflowConfig struct {
	Keywords             []string `yaml:"keywords" mapstructure:"keywords"`
	NegativeKeywords     []string `yaml:"negative_keywords" mapstructure:"negative_keywords"`
	ScanFrequencyMinutes int      `yaml:"scan_frequency_minutes" mapstructure:"scan_frequency_minutes"`
	MinAIScore           int      `yaml:"min_ai_score" mapstructure:"min_ai_score"`
	EnrichmentEnabled    bool     `yaml:"enrichment_enabled" mapstructure:"enrichment_enabled"`
	AutoMessage          bool     `yaml:"auto_message" mapstructure:"auto_message"`
	TargetLocations      []string `yaml:"target_locations" mapstructure:"target_locations"`

	// Scraper account settings, recorded for the (out-of-scope) real
	// discoverer but surfaced in config so operators set them once.
	UseResidentialProxies bool `yaml:"use_residential_proxies" mapstructure:"use_residential_proxies"`
	SeparateScoutAccount  bool `yaml:"separate_scout_account" mapstructure:"separate_scout_account"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key   string `yaml:"key" mapstructure:"key"`
	Model string `yaml:"model" mapstructure:"model"`
}

// SheetsConfig holds the spreadsheet webhook settings.
type SheetsConfig struct {
	WebhookURL string `yaml:"webhook_url" mapstructure:"webhook_url"`
}

// EnrichmentConfig configures the contact-enrichment provider.
type EnrichmentConfig struct {
	DelayMillis int `yaml:"delay_millis" mapstructure:"delay_millis"`
}

// OutreachConfig configures auto-message drafting.
type OutreachConfig struct {
	SenderName string `yaml:"sender_name" mapstructure:"sender_name"`
}

// LeadsConfig configures list behavior.
type LeadsConfig struct {
	PageSize int `yaml:"page_size" mapstructure:"page_size"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Scan interval bounds in minutes. Below the recommended minimum the
// account risks detection, so such values are replaced with the default.
const (
	MinScanMinutes         = 15
	RecommendedScanMinutes = 60
	MaxScanMinutes         = 1440
)

// ScanInterval returns the effective scan interval: out-of-range values are
// clamped and a warning is logged.
func (w WorkflowConfig) ScanInterval() time.Duration {
	minutes := w.ScanFrequencyMinutes
	switch {
	case minutes < MinScanMinutes:
		zap.L().Warn("scan frequency below the supported minimum, using default",
			zap.Int("requested", minutes),
			zap.Int("effective", RecommendedScanMinutes),
		)
		minutes = RecommendedScanMinutes
	case minutes < RecommendedScanMinutes:
		zap.L().Warn("scan frequency below the recommended minimum, keeping it",
			zap.Int("requested", minutes),
			zap.Int("recommended", RecommendedScanMinutes),
		)
	case minutes > MaxScanMinutes:
		zap.L().Warn("scan frequency above the supported maximum, clamping",
			zap.Int("requested", minutes),
			zap.Int("effective", MaxScanMinutes),
		)
		minutes = MaxScanMinutes
	}
	return time.Duration(minutes) * time.Minute
}

// EnrichmentDelay returns the simulated provider latency.
func (e EnrichmentConfig) EnrichmentDelay() time.Duration {
	return time.Duration(e.DelayMillis) * time.Millisecond
}

// Validate checks the configuration for the given run mode ("scan" or
// "serve"). The Anthropic key is deliberately not required: without it the
// pipeline runs in demo mode on the keyword heuristic.
func (c *Config) Validate(mode string) error {
	var problems []string

	if c.Workflow.MinAIScore < 0 || c.Workflow.MinAIScore > 100 {
		problems = append(problems, "workflow.min_ai_score must be between 0 and 100")
	}
	if len(c.Workflow.Keywords) == 0 {
		problems = append(problems, "workflow.keywords must not be empty")
	}
	if c.Leads.PageSize < 1 || c.Leads.PageSize > 100 {
		problems = append(problems, "leads.page_size must be between 1 and 100")
	}

	switch mode {
	case "scan":
	case "serve":
		if c.Server.Port <= 0 {
			problems = append(problems, "server.port must be > 0")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.New("config: invalid configuration: " + strings.Join(problems, "; "))
	}
	return nil
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	// ExperimentalBindStruct makes Unmarshal respect AutomaticEnv on
	// viper v1.20.x; it is the default behavior from v1.21.0 onward.
	v := viper.NewWithOptions(viper.ExperimentalBindStruct())

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LINKSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("workflow.keywords", []string{"looking for automation", "hiring engineers", "need help with zapier"})
	v.SetDefault("workflow.negative_keywords", []string{"recruiter", "job seeking", "looking for job", "hiring junior"})
	v.SetDefault("workflow.scan_frequency_minutes", 60)
	v.SetDefault("workflow.min_ai_score", 75)
	v.SetDefault("workflow.enrichment_enabled", true)
	v.SetDefault("workflow.auto_message", false)
	v.SetDefault("workflow.target_locations", []string{"United States", "United Kingdom"})
	v.SetDefault("workflow.use_residential_proxies", true)
	v.SetDefault("workflow.separate_scout_account", true)
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("enrichment.delay_millis", 1500)
	v.SetDefault("outreach.sender_name", "The LinkScout Team")
	v.SetDefault("leads.page_size", 5)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
