// Package notifier emails the finished report to the configured recipients.
package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/phuslu/log"

	"stockreport/internal/credstore"
)

// Notifier resolves addresses from a credential store and transmits the
// report through a Transport.
type Notifier struct {
	Store     credstore.Store
	Transport Transport
	Now       func() time.Time
}

func New(store credstore.Store, transport Transport) *Notifier {
	return &Notifier{Store: store, Transport: transport, Now: time.Now}
}

// Send emails html as an attachment and returns the provider message id.
// Nothing is transmitted unless a sender and at least one recipient resolve.
func (n *Notifier) Send(ctx context.Context, html string) (string, error) {
	creds, err := n.Store.Scan(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to read email credentials")
		return "", fmt.Errorf("read credentials: %w", err)
	}
	from, to, err := ResolveAddresses(creds)
	if err != nil {
		log.Error().Err(err).Int("records", len(creds)).Msg("cannot resolve email addresses")
		return "", err
	}

	msg, err := BuildMessage(from, to, html, n.Now())
	if err != nil {
		log.Error().Err(err).Msg("failed to build email")
		return "", err
	}
	id, err := n.Transport.Send(ctx, msg)
	if err != nil {
		log.Error().Err(err).Str("from", from).Strs("to", to).Msg("failed to send email")
		return "", fmt.Errorf("send email: %w", err)
	}
	log.Info().Str("message_id", id).Strs("to", to).Int("bytes", len(msg.Raw)).Msg("email sent")
	return id, nil
}
