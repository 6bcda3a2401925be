package config

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	UseTLS   bool
}

func DefaultSMTPConfig() *SMTPConfig {
	return &SMTPConfig{
		Host:     getEnvWithDefault("SMTP_HOST", ""),
		Port:     getEnvIntWithDefault("SMTP_PORT", 587),
		Username: getEnvWithDefault("SMTP_USERNAME", ""),
		Password: getEnvWithDefault("SMTP_PASSWORD", ""),
		From:     getEnvWithDefault("SMTP_FROM", "Notes <no-reply@notes.local>"),
		UseTLS:   getEnvBoolWithDefault("SMTP_USE_TLS", true),
	}
}

// Enabled reports whether invitation emails can be delivered.
func (c *SMTPConfig) Enabled() bool {
	return c.Host != ""
}
