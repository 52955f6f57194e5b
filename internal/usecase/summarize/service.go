package summarize

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/essence-team/essence-backend/internal/domain/entities"
	"github.com/essence-team/essence-backend/internal/domain/repositories"
)

// readingWordsPerMinute is the reading speed used to estimate how much time
// a summary saves the reader
const readingWordsPerMinute = 200

// LLMClient is the generation surface the pipeline needs. Satisfied by the
// Groq client; tests substitute a fake.
type LLMClient interface {
	ChatCompletion(ctx context.Context, instructions, input string) (string, error)
	SynthesizeSpeech(ctx context.Context, text string) ([]byte, error)
}

// EmitFunc receives the transport-safe record after each completed stage.
// Streaming callers flush it to the client; a non-nil error aborts the
// remaining pipeline, e.g. when the client went away.
type EmitFunc func(record *entities.SummaryRecord) error

// ProcessRequest describes one pipeline invocation
type ProcessRequest struct {
	ID               string
	UserID           string
	CleanURL         string
	Transcript       string
	Instructions     string
	IncludeAudio     bool
	Stages           []Stage
	AppendURLToTweet bool
}

// Service runs the generation pipeline: summarize, infer, narrate. Each
// stage persists its fields through a merge-update before the next one runs,
// so a failure partway leaves every completed stage durable.
type Service struct {
	store       repositories.SummaryStore
	blobs       repositories.ObjectStore
	llm         LLMClient
	audioBucket string
	logger      *zap.Logger
}

// NewService creates the pipeline service
func NewService(
	store repositories.SummaryStore,
	blobs repositories.ObjectStore,
	llm LLMClient,
	audioBucket string,
	logger *zap.Logger,
) *Service {
	return &Service{
		store:       store,
		blobs:       blobs,
		llm:         llm,
		audioBucket: audioBucket,
		logger:      logger,
	}
}

// Process runs the requested stages in canonical order. The base record is
// written first so even a total generation failure leaves the id resolvable.
// emit may be nil for non-streaming callers. The returned results carry one
// entry per attempted stage; the error is the first fatal stage error, nil
// when every stage completed or was skipped.
func (s *Service) Process(ctx context.Context, req ProcessRequest, emit EmitFunc) ([]StageResult, error) {
	base := entities.NewSummaryRecord(req.ID, req.UserID, req.CleanURL, req.Transcript)
	current, err := s.store.AddOrUpdate(ctx, base)
	if err != nil {
		return nil, fmt.Errorf("failed to persist base record: %w", err)
	}

	var results []StageResult
	for _, stage := range canonicalOrder(req.Stages) {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		var result StageResult
		switch stage {
		case StageSummarize:
			current, result = s.runSummarize(ctx, req, current)
		case StageInfer:
			current, result = s.runInfer(ctx, req, current)
		case StageNarrate:
			current, result = s.runNarrate(ctx, req, current)
		default:
			continue
		}
		results = append(results, result)

		if result.Status == StageFailed {
			return results, result.Err
		}
		if result.Status == StageCompleted && emit != nil {
			if err := emit(current.ForTransport()); err != nil {
				return results, fmt.Errorf("emit aborted: %w", err)
			}
		}
	}

	return results, nil
}

// canonicalOrder filters the requested stages into pipeline order, dropping
// duplicates
func canonicalOrder(requested []Stage) []Stage {
	ordered := make([]Stage, 0, 3)
	for _, stage := range []Stage{StageSummarize, StageInfer, StageNarrate} {
		for _, r := range requested {
			if r == stage {
				ordered = append(ordered, stage)
				break
			}
		}
	}
	return ordered
}

func (s *Service) runSummarize(ctx context.Context, req ProcessRequest, current *entities.SummaryRecord) (*entities.SummaryRecord, StageResult) {
	summary, err := s.llm.ChatCompletion(ctx, summaryPrompt(req.Instructions), req.Transcript)
	if err != nil {
		s.logger.Error("summary generation failed", zap.String("id", req.ID), zap.Error(err))
		return current, StageResult{Stage: StageSummarize, Status: StageFailed, Record: current, Err: err}
	}

	partial := &entities.SummaryRecord{
		ID:          req.ID,
		TextSummary: strings.TrimSpace(summary),
		TimeSaved:   estimateTimeSaved(req.Transcript),
	}
	merged, err := s.store.AddOrUpdate(ctx, partial)
	if err != nil {
		s.logger.Error("failed to persist summary", zap.String("id", req.ID), zap.Error(err))
		return current, StageResult{Stage: StageSummarize, Status: StageFailed, Record: current, Err: err}
	}
	return merged, StageResult{Stage: StageSummarize, Status: StageCompleted, Record: merged}
}

func (s *Service) runInfer(ctx context.Context, req ProcessRequest, current *entities.SummaryRecord) (*entities.SummaryRecord, StageResult) {
	raw, err := s.llm.ChatCompletion(ctx, inferenceInstructions, req.Transcript)
	if err != nil {
		s.logger.Error("inference generation failed", zap.String("id", req.ID), zap.Error(err))
		return current, StageResult{Stage: StageInfer, Status: StageFailed, Record: current, Err: err}
	}

	inference, err := ParseInference(raw)
	if err != nil {
		// Inference is best-effort enrichment: an unparsable model response
		// must not lose an already generated summary.
		s.logger.Warn("inference response unparsable, skipping stage",
			zap.String("id", req.ID), zap.Error(err))
		return current, StageResult{Stage: StageInfer, Status: StageSkipped, Record: current, Err: err}
	}

	tweet := inference.Tweet
	if req.AppendURLToTweet && tweet != "" {
		tweet = tweet + " " + ShortURL(req.CleanURL)
	}

	partial := &entities.SummaryRecord{
		ID:        req.ID,
		Tone:      inference.Tone,
		Sentiment: inference.Sentiment,
		Tweet:     tweet,
		KeyTopics: datatypes.JSONSlice[string](inference.KeyTopics),
		Depth:     inference.Depth,
	}
	merged, err := s.store.AddOrUpdate(ctx, partial)
	if err != nil {
		s.logger.Error("failed to persist inference", zap.String("id", req.ID), zap.Error(err))
		return current, StageResult{Stage: StageInfer, Status: StageFailed, Record: current, Err: err}
	}
	return merged, StageResult{Stage: StageInfer, Status: StageCompleted, Record: merged}
}

func (s *Service) runNarrate(ctx context.Context, req ProcessRequest, current *entities.SummaryRecord) (*entities.SummaryRecord, StageResult) {
	if !req.IncludeAudio {
		return current, StageResult{Stage: StageNarrate, Status: StageSkipped, Record: current}
	}
	if current == nil || current.TextSummary == "" {
		s.logger.Warn("narration requested without summary text, skipping stage",
			zap.String("id", req.ID))
		return current, StageResult{Stage: StageNarrate, Status: StageSkipped, Record: current, Err: entities.ErrNoSummary}
	}

	audio, err := s.llm.SynthesizeSpeech(ctx, current.TextSummary)
	if err != nil {
		s.logger.Error("speech synthesis failed", zap.String("id", req.ID), zap.Error(err))
		return current, StageResult{Stage: StageNarrate, Status: StageFailed, Record: current, Err: err}
	}

	key := narrationKey(req.ID, time.Now())
	ref, err := s.blobs.Put(ctx, s.audioBucket, key, audio, "audio/mpeg")
	if err != nil {
		s.logger.Error("failed to upload narration", zap.String("id", req.ID), zap.Error(err))
		return current, StageResult{Stage: StageNarrate, Status: StageFailed, Record: current, Err: err}
	}

	partial := &entities.SummaryRecord{ID: req.ID, AudioSummaryURL: ref}
	merged, err := s.store.AddOrUpdate(ctx, partial)
	if err != nil {
		s.logger.Error("failed to persist narration ref", zap.String("id", req.ID), zap.Error(err))
		return current, StageResult{Stage: StageNarrate, Status: StageFailed, Record: current, Err: err}
	}
	return merged, StageResult{Stage: StageNarrate, Status: StageCompleted, Record: merged}
}

// narrationKey builds the date-partitioned object key for a narration upload
func narrationKey(id string, now time.Time) string {
	return fmt.Sprintf("%s/%s/summary/%s_summary.mp3", now.Format("2006-01-02"), id, id)
}

// estimateTimeSaved approximates the reading time a summary replaces, based
// on transcript word count
func estimateTimeSaved(transcript string) string {
	minutes := len(strings.Fields(transcript)) / readingWordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%d min", minutes)
}
