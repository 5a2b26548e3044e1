package application

import (
	"context"

	"github.com/oksasatya/go-medicine-tracker/internal/domain/entity"
)

// ImageStore keeps medicine images and returns their public URL.
type ImageStore interface {
	Upload(ctx context.Context, data []byte, contentType string) (string, error)
	// Delete reports false when url is unknown to the store.
	Delete(ctx context.Context, url string) (bool, error)
}

// PushSink delivers a notification to every device of a user.
type PushSink interface {
	Send(ctx context.Context, userID, title, body string) error
}

// Notification kinds, attached to the context passed to PushSink.Send.
const (
	NotificationDoseReminder = "dose_reminder"
	NotificationExpiryAlert  = "expiry_alert"
)

type notificationKindKey struct{}

func WithNotificationKind(ctx context.Context, kind string) context.Context {
	return context.WithValue(ctx, notificationKindKey{}, kind)
}

// NotificationKind returns the kind set by WithNotificationKind, or "".
func NotificationKind(ctx context.Context) string {
	k, _ := ctx.Value(notificationKindKey{}).(string)
	return k
}

// CatalogIndex is the full-text index over the global medicine catalog.
type CatalogIndex interface {
	Index(ctx context.Context, g *entity.GlobalMedicine) error
	Remove(ctx context.Context, id string) error
	Search(ctx context.Context, q string, limit int) ([]entity.GlobalMedicine, error)
}
