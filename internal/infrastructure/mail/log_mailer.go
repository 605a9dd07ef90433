// Package mail holds outbound mail delivery adapters.
package mail

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/shopit/storefront/internal/core/ports"
)

// LogMailer writes each message envelope to the log instead of a mail relay.
// Bodies carry recovery links, so they are only logged when verbose is set.
type LogMailer struct {
	from    string
	verbose bool
	log     zerolog.Logger
}

func NewLogMailer(from string, verbose bool, log zerolog.Logger) *LogMailer {
	return &LogMailer{from: from, verbose: verbose, log: log}
}

var _ ports.Mailer = (*LogMailer)(nil)

func (m *LogMailer) Send(ctx context.Context, msg ports.MailMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ev := m.log.Info().
		Str("from", m.from).
		Str("to", msg.To).
		Str("kind", msg.Kind).
		Str("subject", msg.Subject)
	if m.verbose {
		ev = ev.Str("body", msg.Body)
	}
	ev.Msg("mail sent")
	return nil
}
