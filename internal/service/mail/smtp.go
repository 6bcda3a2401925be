package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"text/template"

	gomail "github.com/go-mail/mail"
	"go.uber.org/zap"

	"github.com/kingrain94/notes-saas-api/internal/config"
	"github.com/kingrain94/notes-saas-api/pkg/logger"
)

// Invitation is the data rendered into an invitation email.
type Invitation struct {
	To          string
	TenantName  string
	Role        string
	InviterName string
	AcceptURL   string
	Token       string
}

var invitationText = template.Must(template.New("invitation").Parse(
	`Hi,

{{.InviterName}} invited you to join {{.TenantName}} on Notes as {{.Role}}.

Accept the invitation: {{.AcceptURL}}

If the link does not work, use this code: {{.Token}}
`))

// Sender delivers invitation emails over SMTP. With no host configured it only logs.
type Sender struct {
	cfg    *config.SMTPConfig
	logger *logger.Logger
}

func NewSender(cfg *config.SMTPConfig, log *logger.Logger) *Sender {
	return &Sender{cfg: cfg, logger: log.Named("mail")}
}

func RenderInvitation(inv Invitation) (string, error) {
	var buf bytes.Buffer
	if err := invitationText.Execute(&buf, inv); err != nil {
		return "", fmt.Errorf("failed to render invitation: %w", err)
	}
	return buf.String(), nil
}

func (s *Sender) SendInvitation(ctx context.Context, inv Invitation) error {
	body, err := RenderInvitation(inv)
	if err != nil {
		return err
	}

	if !s.cfg.Enabled() {
		s.logger.Info("smtp not configured, invitation not emailed",
			zap.String("to", inv.To),
			zap.String("tenant", inv.TenantName),
		)
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", inv.To)
	m.SetHeader("Subject", fmt.Sprintf("You're invited to %s", inv.TenantName))
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	d.TLSConfig = &tls.Config{ServerName: s.cfg.Host}
	if !s.cfg.UseTLS {
		d.StartTLSPolicy = gomail.NoStartTLS
	}

	// DialAndSend has no context; bail out early if the request is already gone.
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	s.logger.Info("invitation email sent", zap.String("to", inv.To))
	return nil
}
