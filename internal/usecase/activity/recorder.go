package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/essence-team/essence-backend/internal/domain/entities"
	"github.com/essence-team/essence-backend/internal/domain/repositories"
)

const (
	writeTimeout = 15 * time.Second
	maxRetries   = 3
)

// Recorder writes activity events to the activity log bucket. Writes happen
// off the request path in background goroutines with retries; a lost event is
// logged and dropped, it never fails a user request.
type Recorder struct {
	blobs  repositories.ObjectStore
	bucket string
	logger *zap.Logger
	wg     sync.WaitGroup
}

// NewRecorder creates an activity recorder writing to the given bucket
func NewRecorder(blobs repositories.ObjectStore, bucket string, logger *zap.Logger) *Recorder {
	return &Recorder{
		blobs:  blobs,
		bucket: bucket,
		logger: logger,
	}
}

// Record enqueues one event. Returns immediately; the upload runs in the
// background with its own timeout so request cancellation cannot drop it.
func (r *Recorder) Record(userID, articleID, articleURL, activity string) {
	event := entities.NewActivityEvent(userID, articleID, articleURL, activity)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.write(event)
	}()
}

func (r *Recorder) write(event *entities.ActivityEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		r.logger.Error("failed to marshal activity event", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	key := eventKey(time.Now())
	operation := func() error {
		_, err := r.blobs.Put(ctx, r.bucket, key, data, "application/json")
		return err
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		r.logger.Warn("dropping activity event after retries",
			zap.String("article_id", event.ArticleID),
			zap.String("activity", event.Activity),
			zap.Error(err))
	}
}

// Close waits for in-flight writes to finish. Called on shutdown.
func (r *Recorder) Close() {
	r.wg.Wait()
}

// eventKey builds a date-partitioned, collision-free object key
func eventKey(now time.Time) string {
	return fmt.Sprintf("%s/%d-%s.json", now.Format("2006-01-02"), now.UnixMilli(), uuid.NewString())
}
