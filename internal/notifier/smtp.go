package notifier

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"

	"github.com/phuslu/log"
)

// Transport hands an encoded message to a mail provider and returns the
// provider's message id.
type Transport interface {
	Send(ctx context.Context, msg *Message) (string, error)
}

// SMTPConfig holds relay settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	// UseTLS dials an implicit TLS connection. Otherwise STARTTLS is
	// negotiated when the server offers it.
	UseTLS bool
}

// SMTPTransport delivers messages through an SMTP relay.
type SMTPTransport struct {
	cfg SMTPConfig
}

func NewSMTPTransport(cfg SMTPConfig) *SMTPTransport {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	return &SMTPTransport{cfg: cfg}
}

func (t *SMTPTransport) Send(ctx context.Context, msg *Message) (string, error) {
	addr := net.JoinHostPort(t.cfg.Host, strconv.Itoa(t.cfg.Port))
	client, err := t.dial(ctx, addr)
	if err != nil {
		return "", err
	}
	defer client.Close()

	if !t.cfg.UseTLS {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(&tls.Config{ServerName: t.cfg.Host}); err != nil {
				return "", fmt.Errorf("start tls: %w", err)
			}
		}
	}
	if t.cfg.Username != "" {
		auth := smtp.PlainAuth("", t.cfg.Username, t.cfg.Password, t.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return "", fmt.Errorf("smtp auth: %w", err)
		}
	}
	if err := client.Mail(msg.From); err != nil {
		return "", fmt.Errorf("set mail from: %w", err)
	}
	for _, rcpt := range msg.To {
		if err := client.Rcpt(rcpt); err != nil {
			return "", fmt.Errorf("set recipient %s: %w", rcpt, err)
		}
	}
	w, err := client.Data()
	if err != nil {
		return "", fmt.Errorf("start data: %w", err)
	}
	if _, err := w.Write(msg.Raw); err != nil {
		return "", fmt.Errorf("write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("close data: %w", err)
	}
	if err := client.Quit(); err != nil {
		return "", fmt.Errorf("quit: %w", err)
	}
	return msg.ID, nil
}

func (t *SMTPTransport) dial(ctx context.Context, addr string) (*smtp.Client, error) {
	var d net.Dialer
	var conn net.Conn
	var err error
	if t.cfg.UseTLS {
		td := tls.Dialer{NetDialer: &d, Config: &tls.Config{ServerName: t.cfg.Host}}
		conn, err = td.DialContext(ctx, "tcp", addr)
	} else {
		conn, err = d.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return nil, fmt.Errorf("connect smtp %s: %w", addr, err)
	}
	client, err := smtp.NewClient(conn, t.cfg.Host)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("create smtp client: %w", err)
	}
	return client, nil
}

// DryRunTransport logs messages instead of delivering them.
type DryRunTransport struct{}

func (DryRunTransport) Send(_ context.Context, msg *Message) (string, error) {
	log.Info().Str("message_id", msg.ID).Str("from", msg.From).Strs("to", msg.To).
		Int("bytes", len(msg.Raw)).Msg("dry run, email not sent")
	return msg.ID, nil
}
