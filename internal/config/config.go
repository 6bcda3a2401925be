package config

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/kingrain94/notes-saas-api/internal/domain"
)

var ErrMissingJWTSecret = errors.New("JWT_SECRET_KEY must be set")

type Config struct {
	AppEnv              string        `json:"app_env"`
	ServerPort          int           `json:"server_port"`
	JWTSecretKey        string        `json:"-"`
	JWTIssuer           string        `json:"jwt_issuer"`
	JWTExpiration       time.Duration `json:"jwt_expiration"`
	BcryptCost          int           `json:"bcrypt_cost"`
	FreePlanNoteLimit   int           `json:"free_plan_note_limit"`
	DefaultRateLimit    int           `json:"default_rate_limit"`
	GlobalRateLimit     int           `json:"global_rate_limit"`
	LoginRateLimit      int           `json:"login_rate_limit"`
	CORSAllowedOrigins  []string      `json:"cors_allowed_origins"`
	SeedDemoData        bool          `json:"seed_demo_data"`
	InvitationTTL       time.Duration `json:"invitation_ttl"`
	TenantCacheTTL      time.Duration `json:"tenant_cache_ttl"`
	SearchEnabled       bool          `json:"search_enabled"`
	QueueEnabled        bool          `json:"queue_enabled"`
	PublicBaseURL       string        `json:"public_base_url"`
	CleanupPollInterval time.Duration `json:"cleanup_poll_interval"`
	WorkerPollInterval  time.Duration `json:"worker_poll_interval"`
	WorkerMaxMessages   int           `json:"worker_max_messages"`
	ExportPageSize      int           `json:"export_page_size"`
	ShutdownGracePeriod time.Duration `json:"shutdown_grace_period"`
}

const defaultCORSOrigins = "http://localhost:3000,http://localhost:5173,https://*.vercel.app"

// Load reads the process configuration from the environment. A missing JWT secret is
// a hard error since every authenticated route depends on it.
func Load() (*Config, error) {
	cfg := &Config{
		AppEnv:              getEnvWithDefault("APP_ENV", "development"),
		ServerPort:          getEnvIntWithDefault("SERVER_PORT", 10000),
		JWTSecretKey:        getEnvWithDefault("JWT_SECRET_KEY", ""),
		JWTIssuer:           getEnvWithDefault("JWT_ISSUER", "notes-saas-api"),
		JWTExpiration:       time.Duration(getEnvIntWithDefault("JWT_EXPIRATION_MINUTES", 60)) * time.Minute,
		BcryptCost:          getEnvIntWithDefault("BCRYPT_COST", bcrypt.DefaultCost),
		FreePlanNoteLimit:   getEnvIntWithDefault("FREE_PLAN_NOTE_LIMIT", domain.DefaultFreeNoteLimit),
		DefaultRateLimit:    getEnvIntWithDefault("DEFAULT_RATE_LIMIT", 1000), // per tenant per minute
		GlobalRateLimit:     getEnvIntWithDefault("GLOBAL_RATE_LIMIT", 10000), // per IP per minute
		LoginRateLimit:      getEnvIntWithDefault("LOGIN_RATE_LIMIT", 20),     // per IP per minute
		CORSAllowedOrigins:  splitList(getEnvWithDefault("CORS_ALLOWED_ORIGINS", defaultCORSOrigins)),
		SeedDemoData:        getEnvBoolWithDefault("SEED_DEMO_DATA", true),
		InvitationTTL:       getEnvDurationWithDefault("INVITATION_TTL", 72*time.Hour),
		TenantCacheTTL:      getEnvDurationWithDefault("TENANT_CACHE_TTL", 30*time.Second),
		SearchEnabled:       getEnvBoolWithDefault("SEARCH_ENABLED", true),
		QueueEnabled:        getEnvBoolWithDefault("QUEUE_ENABLED", true),
		PublicBaseURL:       getEnvWithDefault("PUBLIC_BASE_URL", "http://localhost:3000"),
		CleanupPollInterval: getEnvDurationWithDefault("CLEANUP_POLL_INTERVAL", time.Hour),
		WorkerPollInterval:  getEnvDurationWithDefault("WORKER_POLL_INTERVAL", 5*time.Second),
		WorkerMaxMessages:   getEnvIntWithDefault("WORKER_MAX_MESSAGES", 10),
		ExportPageSize:      getEnvIntWithDefault("EXPORT_PAGE_SIZE", 500),
		ShutdownGracePeriod: getEnvDurationWithDefault("SHUTDOWN_GRACE_PERIOD", 5*time.Second),
	}

	if cfg.JWTSecretKey == "" {
		return nil, ErrMissingJWTSecret
	}
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if cfg.FreePlanNoteLimit < 0 {
		cfg.FreePlanNoteLimit = domain.DefaultFreeNoteLimit
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func (c *Config) PlanLimits() domain.PlanLimits {
	return domain.PlanLimits{FreeNotes: c.FreePlanNoteLimit}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
