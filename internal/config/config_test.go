package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/kingrain94/notes-saas-api/internal/domain"
)

func TestLoad_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "")

	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingJWTSecret)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("APP_ENV", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, 10000, cfg.ServerPort)
	assert.Equal(t, 60*time.Minute, cfg.JWTExpiration)
	assert.Equal(t, bcrypt.DefaultCost, cfg.BcryptCost)
	assert.Equal(t, domain.DefaultPlanLimits(), cfg.PlanLimits())
	assert.Equal(t, 72*time.Hour, cfg.InvitationTTL)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173", "https://*.vercel.app"}, cfg.CORSAllowedOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_EXPIRATION_MINUTES", "15")
	t.Setenv("FREE_PLAN_NOTE_LIMIT", "10")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://app.example.com , ,https://*.example.org")
	t.Setenv("INVITATION_TTL", "24h")
	t.Setenv("SEED_DEMO_DATA", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 15*time.Minute, cfg.JWTExpiration)
	assert.Equal(t, 10, cfg.PlanLimits().NoteLimit(domain.PlanFree))
	assert.Equal(t, []string{"https://app.example.com", "https://*.example.org"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 24*time.Hour, cfg.InvitationTTL)
	assert.False(t, cfg.SeedDemoData)
}

func TestLoad_ClampsInvalidValues(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("BCRYPT_COST", "99")
	t.Setenv("FREE_PLAN_NOTE_LIMIT", "-5")
	t.Setenv("WORKER_POLL_INTERVAL", "soon")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, bcrypt.DefaultCost, cfg.BcryptCost)
	assert.Equal(t, domain.DefaultFreeNoteLimit, cfg.FreePlanNoteLimit)
	assert.Equal(t, 5*time.Second, cfg.WorkerPollInterval)
}

func TestDatabaseConfigFromEnv(t *testing.T) {
	for _, key := range []string{"PORT", "USER", "DB_NAME", "SSL_MODE"} {
		t.Setenv("POSTGRES_WRITER_"+key, "")
	}
	t.Setenv("POSTGRES_WRITER_HOST", "db.internal")
	t.Setenv("POSTGRES_WRITER_PASSWORD", "pw")

	dsn := databaseConfigFromEnv("POSTGRES_WRITER").DSN()
	assert.Equal(t, "host=db.internal port=5432 user=postgres password=pw dbname=notes sslmode=disable", dsn)
}

func TestServiceConfigs(t *testing.T) {
	t.Setenv("SMTP_HOST", "")
	assert.False(t, DefaultSMTPConfig().Enabled())

	t.Setenv("SMTP_HOST", "smtp.example.com")
	assert.True(t, DefaultSMTPConfig().Enabled())

	t.Setenv("OPENSEARCH_INDEX_PREFIX", "")
	assert.Equal(t, "notes_acme", DefaultOpenSearchConfig().GetIndexName("acme"))

	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")
	assert.Equal(t, "cache:6380", DefaultRedisConfig().Addr())
}
