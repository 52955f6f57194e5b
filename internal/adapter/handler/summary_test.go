package handler

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	stdErrors "errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/essence-team/essence-backend/internal/adapter/dto"
	"github.com/essence-team/essence-backend/internal/adapter/presenter"
	"github.com/essence-team/essence-backend/internal/domain/entities"
	"github.com/essence-team/essence-backend/internal/infrastructure/cache"
	"github.com/essence-team/essence-backend/internal/usecase/activity"
	"github.com/essence-team/essence-backend/internal/usecase/summarize"
	pkgvalidator "github.com/essence-team/essence-backend/pkg/validator"
)

var hexID = regexp.MustCompile(`^[0-9a-f]{64}$`)

const longTranscript = "The piece walks through how the Go runtime multiplexes goroutines onto a small pool of OS threads, why the scheduler steals work between processors, and what that means for tail latency in network services under load."

type fakeLLM struct {
	calls    int
	chatErr  error
	response string
}

func (f *fakeLLM) ChatCompletion(ctx context.Context, instructions, input string) (string, error) {
	f.calls++
	if f.chatErr != nil {
		return "", f.chatErr
	}
	if strings.Contains(instructions, "JSON") {
		return `{"depth":"moderate","tone":"curious","sentiment":"positive","tweet":"Go internals worth knowing","key_topics":["go","runtime"]}`, nil
	}
	if f.response != "" {
		return f.response, nil
	}
	return "A concise rundown of goroutine scheduling.", nil
}

func (f *fakeLLM) SynthesizeSpeech(ctx context.Context, text string) ([]byte, error) {
	return []byte("mp3-bytes"), nil
}

type fakeBlobs struct{}

func (f *fakeBlobs) Put(ctx context.Context, bucket, key string, data []byte, contentType string) (string, error) {
	return "s3://" + bucket + "/" + key, nil
}

func (f *fakeBlobs) PresignedGet(ctx context.Context, ref string, expiry time.Duration) (string, error) {
	return "https://signed.example/" + strings.TrimPrefix(ref, "s3://"), nil
}

func newTestHandler(llm summarize.LLMClient) (*Summary, *cache.MemoryStore, *echo.Echo) {
	logger := zap.NewNop()
	store := cache.NewMemoryStore()
	blobs := &fakeBlobs{}
	service := summarize.NewService(store, blobs, llm, "audio-bucket", logger)
	pres := presenter.NewSummaryPresenter(blobs, time.Hour, logger)
	recorder := activity.NewRecorder(blobs, "activity-bucket", logger)

	e := echo.New()
	e.Validator = pkgvalidator.New()

	return NewSummaryHandler(service, store, pres, recorder, "default", logger), store, e
}

func doJSON(e *echo.Echo, handlerFn echo.HandlerFunc, path string, body interface{}) *httptest.ResponseRecorder {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := handlerFn(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestHome(t *testing.T) {
	h, _, e := newTestHandler(&fakeLLM{})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	if err := h.Home(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Home failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body dto.GreetingResponse
	json.Unmarshal(rec.Body.Bytes(), &body)
	if !strings.Contains(body.Message, "One click summarizer") {
		t.Fatalf("unexpected greeting %q", body.Message)
	}
}

func TestSummarize_Success(t *testing.T) {
	llm := &fakeLLM{}
	h, _, e := newTestHandler(llm)

	rec := doJSON(e, h.Summarize, "/summarize", dto.SummarizeRequest{
		URL:        "https://news.example/a?utm_source=tw",
		Transcript: longTranscript,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.SummaryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if !hexID.MatchString(resp.ID) {
		t.Fatalf("id %q is not a sha256 hex digest", resp.ID)
	}
	if resp.CleanURL != "https://news.example/a" {
		t.Fatalf("expected normalized URL, got %q", resp.CleanURL)
	}
	if resp.TextSummary == "" {
		t.Fatal("missing text summary")
	}
	if strings.Contains(rec.Body.String(), longTranscript) {
		t.Fatal("transcript leaked into the response")
	}
	if llm.calls != 1 {
		t.Fatalf("expected exactly one model call, got %d", llm.calls)
	}
}

func TestSummarize_SecondRequestServedFromCache(t *testing.T) {
	llm := &fakeLLM{}
	h, _, e := newTestHandler(llm)
	body := dto.SummarizeRequest{URL: "https://news.example/a", Transcript: longTranscript}

	first := doJSON(e, h.Summarize, "/summarize", body)
	second := doJSON(e, h.Summarize, "/summarize", body)

	if first.Code != http.StatusOK || second.Code != http.StatusOK {
		t.Fatalf("expected 200/200, got %d/%d", first.Code, second.Code)
	}
	if llm.calls != 1 {
		t.Fatalf("cache hit still called the model: %d calls", llm.calls)
	}

	var a, b dto.SummaryResponse
	json.Unmarshal(first.Body.Bytes(), &a)
	json.Unmarshal(second.Body.Bytes(), &b)
	if a.ID != b.ID || a.TextSummary != b.TextSummary {
		t.Fatal("cached response differs from the generated one")
	}
}

func TestSummarize_TestFlagBypassesCache(t *testing.T) {
	llm := &fakeLLM{}
	h, _, e := newTestHandler(llm)
	flag := false

	doJSON(e, h.Summarize, "/summarize", dto.SummarizeRequest{URL: "https://news.example/a", Transcript: longTranscript})
	// even test:false counts as presence and skips the cache lookup
	doJSON(e, h.Summarize, "/summarize", dto.SummarizeRequest{URL: "https://news.example/a", Transcript: longTranscript, Test: &flag})

	if llm.calls != 2 {
		t.Fatalf("test flag should bypass the cache, got %d model calls", llm.calls)
	}
}

func TestSummarize_ValidationErrors(t *testing.T) {
	h, _, e := newTestHandler(&fakeLLM{})

	cases := []struct {
		name    string
		body    dto.SummarizeRequest
		message string
	}{
		{"missing url", dto.SummarizeRequest{Transcript: longTranscript}, "URL is required"},
		{"missing transcript", dto.SummarizeRequest{URL: "https://news.example/a"}, "Transcript is required"},
		{"short transcript", dto.SummarizeRequest{URL: "https://news.example/a", Transcript: "way too short"}, "Transcript is too small"},
	}
	for _, tc := range cases {
		rec := doJSON(e, h.Summarize, "/summarize", tc.body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", tc.name, rec.Code)
		}
		var body map[string]interface{}
		json.Unmarshal(rec.Body.Bytes(), &body)
		if body["error"] != tc.message {
			t.Fatalf("%s: expected error %q, got %v", tc.name, tc.message, body["error"])
		}
	}
}

func TestSummarize_DenylistedURL(t *testing.T) {
	llm := &fakeLLM{}
	h, _, e := newTestHandler(llm)

	rec := doJSON(e, h.Summarize, "/summarize", dto.SummarizeRequest{
		URL:        "https://www.youtube.com/watch?v=abc",
		Transcript: longTranscript,
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var body map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["error"] != "Sorry. We don't support summary for this article now" {
		t.Fatalf("unexpected error message: %v", body["error"])
	}
	if llm.calls != 0 {
		t.Fatal("denylisted article must not reach the model")
	}
}

func TestSummarize_ModelFailure(t *testing.T) {
	h, _, e := newTestHandler(&fakeLLM{chatErr: stdErrors.New("model down")})

	rec := doJSON(e, h.Summarize, "/summarize", dto.SummarizeRequest{
		URL:        "https://news.example/a",
		Transcript: longTranscript,
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var body map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["error"] != "Error creating the summary for this article" {
		t.Fatalf("unexpected error message: %v", body["error"])
	}
}

func TestInference_ReturnsAnalysis(t *testing.T) {
	h, _, e := newTestHandler(&fakeLLM{})

	rec := doJSON(e, h.Inference, "/inference", dto.InferenceRequest{
		URL:        "https://news.example/a",
		Transcript: longTranscript,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.SummaryResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Tone != "curious" || resp.Sentiment != "positive" {
		t.Fatalf("missing inference fields: %+v", resp)
	}
	if !strings.HasSuffix(resp.Tweet, "news.example/a") {
		t.Fatalf("tweet should end with the short URL, got %q", resp.Tweet)
	}
	if len(resp.KeyTopics) != 2 {
		t.Fatalf("unexpected topics: %v", resp.KeyTopics)
	}
	if resp.AudioURL != "" {
		t.Fatal("audio_url present without audio request")
	}
}

func TestInference_WithAudio(t *testing.T) {
	h, _, e := newTestHandler(&fakeLLM{})

	rec := doJSON(e, h.Inference, "/inference", dto.InferenceRequest{
		URL:        "https://news.example/a",
		Transcript: longTranscript,
		Audio:      true,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.SummaryResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if !strings.HasPrefix(resp.AudioURL, "https://signed.example/") {
		t.Fatalf("expected a presigned audio URL, got %q", resp.AudioURL)
	}
	if strings.Contains(resp.AudioURL, "s3://") {
		t.Fatal("internal object reference leaked")
	}
}

func TestStream_EmitsFragmentPerStage(t *testing.T) {
	h, _, e := newTestHandler(&fakeLLM{})

	rec := doJSON(e, h.Stream, "/stream", dto.StreamRequest{
		URL:        "https://news.example/a",
		Transcript: longTranscript,
		Audio:      true,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get(echo.HeaderContentType); !strings.Contains(ct, "ndjson") {
		t.Fatalf("unexpected content type %q", ct)
	}

	var fragments []dto.SummaryResponse
	scanner := bufio.NewScanner(rec.Body)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var fragment dto.SummaryResponse
		if err := json.Unmarshal([]byte(line), &fragment); err != nil {
			t.Fatalf("invalid NDJSON line %q: %v", line, err)
		}
		fragments = append(fragments, fragment)
	}
	if len(fragments) != 3 {
		t.Fatalf("expected 3 fragments (summarize, infer, narrate), got %d", len(fragments))
	}

	if fragments[0].TextSummary == "" {
		t.Fatal("first fragment missing the summary")
	}
	if fragments[1].Tone == "" {
		t.Fatal("second fragment missing inference fields")
	}
	last := fragments[len(fragments)-1]
	if !strings.HasPrefix(last.AudioURL, "https://signed.example/") {
		t.Fatalf("final fragment missing the presigned audio URL: %+v", last)
	}
	// fragments accumulate: the last one still carries earlier fields
	if last.TextSummary == "" || last.Tone == "" {
		t.Fatalf("final fragment lost earlier stage fields: %+v", last)
	}
}

func TestStream_CacheHitReturnsSingleResponse(t *testing.T) {
	llm := &fakeLLM{}
	h, _, e := newTestHandler(llm)
	body := dto.StreamRequest{URL: "https://news.example/a", Transcript: longTranscript}

	doJSON(e, h.Stream, "/stream", body)
	calls := llm.calls

	rec := doJSON(e, h.Stream, "/stream", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if llm.calls != calls {
		t.Fatal("cache hit still called the model")
	}
	var resp dto.SummaryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("cache hit should return one JSON document: %v", err)
	}
	if resp.TextSummary == "" {
		t.Fatal("cached stream response missing the summary")
	}
}

func TestListAndDelete(t *testing.T) {
	h, store, e := newTestHandler(&fakeLLM{})
	ctx := context.Background()
	store.AddOrUpdate(ctx, &entities.SummaryRecord{ID: "aaa", TextSummary: "one"})
	store.AddOrUpdate(ctx, &entities.SummaryRecord{ID: "bbb", TextSummary: "two"})

	req := httptest.NewRequest(http.MethodGet, "/admin/summaries", nil)
	rec := httptest.NewRecorder()
	if err := h.List(e.NewContext(req, rec)); err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"count":2`) {
		t.Fatalf("unexpected list body: %s", rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodDelete, "/admin/summaries/aaa", nil)
	rec = httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("aaa")
	if err := h.Delete(c); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	records, _ := store.List(ctx)
	if len(records) != 1 || records[0].ID != "bbb" {
		t.Fatalf("unexpected records after delete: %+v", records)
	}
}
