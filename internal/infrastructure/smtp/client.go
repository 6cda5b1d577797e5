package smtp

import (
	"context"
	"crypto/tls"
	"fmt"

	"github.com/makehaven/profile-membership/internal/config"
	"github.com/makehaven/profile-membership/internal/domain/service"

	"gopkg.in/gomail.v2"
)

// Client sends follow-up email through an SMTP relay
type Client struct {
	cfg *config.SMTPConfig
}

// NewClient creates a new SMTP client
func NewClient(cfg *config.SMTPConfig) *Client {
	return &Client{
		cfg: cfg,
	}
}

var _ service.EmailService = (*Client)(nil)

// SendFollowup sends one rendered message to the given address
func (c *Client) SendFollowup(ctx context.Context, to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", fmt.Sprintf("%s <%s>", c.cfg.FromName, c.cfg.FromEmail))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(c.cfg.Host, c.cfg.Port, c.cfg.Username, c.cfg.Password)

	// STARTTLS on 587 when UseTLS, implicit SSL on 465 otherwise
	if c.cfg.UseTLS {
		d.SSL = false
		d.TLSConfig = &tls.Config{
			ServerName: c.cfg.Host,
		}
	} else {
		d.SSL = true
		d.TLSConfig = &tls.Config{
			ServerName: c.cfg.Host,
		}
	}

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
