package repositories

import (
	"context"
	"time"
)

// ObjectStore is the blob storage contract for audio artifacts and activity
// logs. Objects are addressed by bucket and key; stored references use the
// internal "s3://bucket/key" form and must never reach clients directly.
type ObjectStore interface {
	// Put uploads data and returns the internal object reference.
	Put(ctx context.Context, bucket, key string, data []byte, contentType string) (string, error)

	// PresignedGet resolves an internal object reference into a time-limited
	// read-capable URL suitable for handing to a client.
	PresignedGet(ctx context.Context, ref string, expiry time.Duration) (string, error)
}
