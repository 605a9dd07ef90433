package ports

import (
	"context"

	"github.com/shopit/storefront/internal/core/domain"
)

// MailMessage is one outbound email.
type MailMessage struct {
	Kind    string
	To      string
	Subject string
	Body    string
}

// Mailer delivers a message synchronously.
type Mailer interface {
	Send(ctx context.Context, msg MailMessage) error
}

// MailQueue accepts messages for background delivery.
type MailQueue interface {
	Enqueue(msg MailMessage) error
}

// AvatarStore keeps account images in object storage.
type AvatarStore interface {
	// Upload stores a base64 data URL image and returns its reference.
	Upload(ctx context.Context, dataURL string) (domain.Avatar, error)
	Delete(ctx context.Context, publicID string) error
}
