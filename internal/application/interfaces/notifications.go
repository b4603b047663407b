package interfaces

import (
	"context"
	"time"

	"task-manager/internal/messaging"
)

// Mailer sends the account lifecycle emails. Sends are best-effort: the
// services fire them off the request path and only log failures.
type Mailer interface {
	SendWelcome(ctx context.Context, email, name string) error
	SendCancellation(ctx context.Context, email, name string) error
}

// EventPublisher emits account lifecycle events, also best-effort.
type EventPublisher interface {
	PublishUserCreated(event messaging.UserEvent) error
	PublishUserDeleted(event messaging.UserEvent) error
}

// AvatarCache fronts avatar reads. Any Get error is treated as a miss.
type AvatarCache interface {
	SetAvatar(ctx context.Context, userID string, data []byte, ttl time.Duration) error
	GetAvatar(ctx context.Context, userID string) ([]byte, error)
	DeleteAvatar(ctx context.Context, userID string) error
}
