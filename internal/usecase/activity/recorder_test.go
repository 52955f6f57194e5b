package activity

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/essence-team/essence-backend/internal/domain/entities"
)

type capturingBlobs struct {
	mu       sync.Mutex
	failures int
	puts     []struct {
		bucket, key string
		data        []byte
	}
}

func (c *capturingBlobs) Put(ctx context.Context, bucket, key string, data []byte, contentType string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failures > 0 {
		c.failures--
		return "", stdErrors.New("transient failure")
	}
	c.puts = append(c.puts, struct {
		bucket, key string
		data        []byte
	}{bucket, key, data})
	return "s3://" + bucket + "/" + key, nil
}

func (c *capturingBlobs) PresignedGet(ctx context.Context, ref string, expiry time.Duration) (string, error) {
	return "", nil
}

func TestRecord_WritesEvent(t *testing.T) {
	blobs := &capturingBlobs{}
	recorder := NewRecorder(blobs, "activity-bucket", zap.NewNop())

	recorder.Record("user-1", "article-1", "https://news.example/a", entities.ActivityRead)
	recorder.Close()

	blobs.mu.Lock()
	defer blobs.mu.Unlock()
	if len(blobs.puts) != 1 {
		t.Fatalf("expected 1 write, got %d", len(blobs.puts))
	}
	put := blobs.puts[0]
	if put.bucket != "activity-bucket" {
		t.Fatalf("unexpected bucket %q", put.bucket)
	}
	// keys are partitioned by day
	if !strings.HasPrefix(put.key, time.Now().Format("2006-01-02")+"/") {
		t.Fatalf("key not date-partitioned: %q", put.key)
	}

	var event entities.ActivityEvent
	if err := json.Unmarshal(put.data, &event); err != nil {
		t.Fatalf("stored event is not JSON: %v", err)
	}
	if event.UserID != "user-1" || event.ArticleID != "article-1" || event.Activity != entities.ActivityRead {
		t.Fatalf("unexpected event: %+v", event)
	}
	if event.DateCreated == "" {
		t.Fatal("event missing timestamp")
	}
}

func TestRecord_RetriesTransientFailures(t *testing.T) {
	blobs := &capturingBlobs{failures: 2}
	recorder := NewRecorder(blobs, "activity-bucket", zap.NewNop())

	recorder.Record("user-1", "article-1", "https://news.example/a", entities.ActivityCreate)
	recorder.Close()

	blobs.mu.Lock()
	defer blobs.mu.Unlock()
	if len(blobs.puts) != 1 {
		t.Fatalf("expected the write to succeed after retries, got %d writes", len(blobs.puts))
	}
}

func TestRecord_DropsAfterExhaustedRetries(t *testing.T) {
	blobs := &capturingBlobs{failures: 100}
	recorder := NewRecorder(blobs, "activity-bucket", zap.NewNop())

	recorder.Record("user-1", "article-1", "https://news.example/a", entities.ActivityCreate)
	recorder.Close()

	blobs.mu.Lock()
	defer blobs.mu.Unlock()
	if len(blobs.puts) != 0 {
		t.Fatal("expected the event to be dropped")
	}
}
