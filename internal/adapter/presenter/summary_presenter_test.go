package presenter

import (
	"context"
	stdErrors "errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/essence-team/essence-backend/internal/domain/entities"
)

type fakeBlobs struct {
	presignErr error
}

func (f *fakeBlobs) Put(ctx context.Context, bucket, key string, data []byte, contentType string) (string, error) {
	return "s3://" + bucket + "/" + key, nil
}

func (f *fakeBlobs) PresignedGet(ctx context.Context, ref string, expiry time.Duration) (string, error) {
	if f.presignErr != nil {
		return "", f.presignErr
	}
	return "https://signed.example/" + ref, nil
}

func TestPresent_MapsRecordFields(t *testing.T) {
	p := NewSummaryPresenter(&fakeBlobs{}, time.Hour, zap.NewNop())
	record := &entities.SummaryRecord{
		ID:          "id-1",
		URL:         "https://news.example/a",
		Transcript:  "never shown",
		TextSummary: "summary",
		Tone:        "dry",
		KeyTopics:   []string{"go"},
		DateCreated: "2026-09-01 10:00:00",
	}

	resp := p.Present(context.Background(), record)
	if resp.ID != "id-1" || resp.CleanURL != "https://news.example/a" {
		t.Fatalf("identity fields wrong: %+v", resp)
	}
	if resp.TextSummary != "summary" || resp.Tone != "dry" {
		t.Fatalf("content fields wrong: %+v", resp)
	}
	if resp.AudioURL != "" {
		t.Fatal("audio_url set without a stored reference")
	}
}

func TestPresent_PresignsAudioReference(t *testing.T) {
	p := NewSummaryPresenter(&fakeBlobs{}, time.Hour, zap.NewNop())
	record := &entities.SummaryRecord{ID: "id-1", AudioSummaryURL: "s3://audio/2026-09-01/id-1/summary/id-1_summary.mp3"}

	resp := p.Present(context.Background(), record)
	if resp.AudioURL == "" {
		t.Fatal("expected a presigned audio URL")
	}
	if resp.AudioURL == record.AudioSummaryURL {
		t.Fatal("internal object reference leaked to the client")
	}
}

func TestPresent_DropsAudioOnPresignFailure(t *testing.T) {
	p := NewSummaryPresenter(&fakeBlobs{presignErr: stdErrors.New("boom")}, time.Hour, zap.NewNop())
	record := &entities.SummaryRecord{ID: "id-1", TextSummary: "still useful", AudioSummaryURL: "s3://audio/key"}

	resp := p.Present(context.Background(), record)
	if resp == nil || resp.TextSummary != "still useful" {
		t.Fatal("presign failure must not drop the response")
	}
	if resp.AudioURL != "" {
		t.Fatal("audio_url should be omitted when presigning fails")
	}
}

func TestPresent_NilRecord(t *testing.T) {
	p := NewSummaryPresenter(&fakeBlobs{}, time.Hour, zap.NewNop())
	if p.Present(context.Background(), nil) != nil {
		t.Fatal("expected nil response for nil record")
	}
}

func TestPresentList(t *testing.T) {
	p := NewSummaryPresenter(&fakeBlobs{}, time.Hour, zap.NewNop())
	resp := p.PresentList(context.Background(), []*entities.SummaryRecord{
		{ID: "a"}, {ID: "b"},
	})
	if resp.Count != 2 || len(resp.Summaries) != 2 {
		t.Fatalf("unexpected list response: %+v", resp)
	}
}
