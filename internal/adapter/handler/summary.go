package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"unicode/utf8"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/essence-team/essence-backend/errors"
	"github.com/essence-team/essence-backend/internal/adapter/dto"
	"github.com/essence-team/essence-backend/internal/adapter/presenter"
	"github.com/essence-team/essence-backend/internal/domain/entities"
	"github.com/essence-team/essence-backend/internal/domain/repositories"
	"github.com/essence-team/essence-backend/internal/infrastructure/http/middleware"
	"github.com/essence-team/essence-backend/internal/usecase/activity"
	"github.com/essence-team/essence-backend/internal/usecase/summarize"
)

// minTranscriptChars mirrors the min=100 validation tag on transcript fields
const minTranscriptChars = 100

const greetingMessage = "Hi there! Welcome to One click summarizer."

// Summary handles the summarization endpoints
type Summary struct {
	service     *summarize.Service
	store       repositories.SummaryStore
	presenter   *presenter.SummaryPresenter
	recorder    *activity.Recorder
	defaultUser string
	logger      *zap.Logger
}

// NewSummaryHandler creates the summary handler
func NewSummaryHandler(
	service *summarize.Service,
	store repositories.SummaryStore,
	pres *presenter.SummaryPresenter,
	recorder *activity.Recorder,
	defaultUser string,
	logger *zap.Logger,
) *Summary {
	return &Summary{
		service:     service,
		store:       store,
		presenter:   pres,
		recorder:    recorder,
		defaultUser: defaultUser,
		logger:      logger,
	}
}

// Home handles GET /
func (h *Summary) Home(c echo.Context) error {
	return c.JSON(http.StatusOK, dto.GreetingResponse{Message: greetingMessage})
}

// Summarize handles POST /summarize: text summary only, cached by content id
func (h *Summary) Summarize(c echo.Context) error {
	var req dto.SummarizeRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid request body"))
	}
	if err := h.validateRequest(c, &req, req.URL, req.Transcript); err != nil {
		return HandleError(h.logger, c, err)
	}

	ctx := c.Request().Context()
	id, clean, err := summarize.GenerateID(req.URL, "", false)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidURL(req.URL, err))
	}
	userID := h.resolveUser(c, req.UserID)

	if req.Test == nil {
		if cached := h.cachedRecord(ctx, id); cached.HasSummary() {
			h.recorder.Record(userID, id, clean, entities.ActivityRead)
			return c.JSON(http.StatusOK, h.presenter.Present(ctx, cached))
		}
	}

	if !summarize.IsWorth(id, req.URL) {
		return HandleError(h.logger, c, errors.ErrArticleNotSupported(id))
	}

	results, err := h.service.Process(ctx, summarize.ProcessRequest{
		ID:         id,
		UserID:     userID,
		CleanURL:   clean,
		Transcript: req.Transcript,
		Stages:     []summarize.Stage{summarize.StageSummarize},
	}, nil)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrSummaryFailed(id, err))
	}

	h.recorder.Record(userID, id, clean, entities.ActivityCreate)
	return c.JSON(http.StatusOK, h.presenter.Present(ctx, lastRecord(results)))
}

// Inference handles POST /inference: structured analysis, optionally with
// narrated audio
func (h *Summary) Inference(c echo.Context) error {
	var req dto.InferenceRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid request body"))
	}
	if err := h.validateRequest(c, &req, req.URL, req.Transcript); err != nil {
		return HandleError(h.logger, c, err)
	}

	ctx := c.Request().Context()
	id, clean, err := summarize.GenerateID(req.URL, "", req.Audio)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidURL(req.URL, err))
	}
	userID := h.resolveUser(c, req.UserID)

	if req.Test == nil {
		cached := h.cachedRecord(ctx, id)
		if cached.HasInference() && (!req.Audio || cached.AudioSummaryURL != "") {
			h.recorder.Record(userID, id, clean, entities.ActivityRead)
			return c.JSON(http.StatusOK, h.presenter.Present(ctx, cached))
		}
	}

	if !summarize.IsWorth(id, req.URL) {
		return HandleError(h.logger, c, errors.ErrArticleNotSupported(id))
	}

	stages := []summarize.Stage{summarize.StageSummarize, summarize.StageInfer}
	if req.Audio {
		stages = append(stages, summarize.StageNarrate)
	}

	results, err := h.service.Process(ctx, summarize.ProcessRequest{
		ID:               id,
		UserID:           userID,
		CleanURL:         clean,
		Transcript:       req.Transcript,
		IncludeAudio:     req.Audio,
		Stages:           stages,
		AppendURLToTweet: true,
	}, nil)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInferenceFailed(id, err))
	}

	h.recorder.Record(userID, id, clean, entities.ActivityCreate)
	return c.JSON(http.StatusOK, h.presenter.Present(ctx, lastRecord(results)))
}

// Stream handles POST /stream: the full pipeline with one NDJSON fragment
// flushed per completed stage. Each fragment is the merged record so far, so
// a client can render progressively and keep only the last line.
func (h *Summary) Stream(c echo.Context) error {
	var req dto.StreamRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid request body"))
	}
	if err := h.validateRequest(c, &req, req.URL, req.Transcript); err != nil {
		return HandleError(h.logger, c, err)
	}

	ctx := c.Request().Context()
	id, clean, err := summarize.GenerateID(req.URL, req.Instructions, req.Audio)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidURL(req.URL, err))
	}
	userID := h.resolveUser(c, req.UserID)

	if req.Test == nil {
		cached := h.cachedRecord(ctx, id)
		if cached.HasSummary() && (!req.Audio || cached.AudioSummaryURL != "") {
			h.recorder.Record(userID, id, clean, entities.ActivityRead)
			return c.JSON(http.StatusOK, h.presenter.Present(ctx, cached))
		}
	}

	if !summarize.IsWorth(id, req.URL) {
		return HandleError(h.logger, c, errors.ErrArticleNotSupported(id))
	}

	stages := []summarize.Stage{summarize.StageSummarize, summarize.StageInfer}
	if req.Audio {
		stages = append(stages, summarize.StageNarrate)
	}

	// The response stays uncommitted until the first stage completes, so
	// early failures still produce a proper error status.
	resp := c.Response()
	enc := json.NewEncoder(resp)
	started := false
	emit := func(record *entities.SummaryRecord) error {
		if !started {
			resp.Header().Set(echo.HeaderContentType, "application/x-ndjson")
			resp.WriteHeader(http.StatusOK)
			started = true
		}
		if err := enc.Encode(h.presenter.Present(ctx, record)); err != nil {
			return err
		}
		resp.Flush()
		return nil
	}

	_, err = h.service.Process(ctx, summarize.ProcessRequest{
		ID:               id,
		UserID:           userID,
		CleanURL:         clean,
		Transcript:       req.Transcript,
		Instructions:     req.Instructions,
		IncludeAudio:     req.Audio,
		Stages:           stages,
		AppendURLToTweet: true,
	}, emit)
	if err != nil {
		if !started {
			return HandleError(h.logger, c, errors.ErrSummaryFailed(id, err))
		}
		// Status is committed; append a terminal error fragment instead.
		h.logger.Error("stream aborted mid-pipeline", zap.String("id", id), zap.Error(err))
		if encErr := enc.Encode(errs{
			Code:  errors.ErrorCode_SUMMARY_FAILED,
			Error: "Error creating the summary for this article",
		}); encErr == nil {
			resp.Flush()
		}
		return nil
	}

	h.recorder.Record(userID, id, clean, entities.ActivityCreate)
	return nil
}

// List handles GET /admin/summaries
func (h *Summary) List(c echo.Context) error {
	ctx := c.Request().Context()
	records, err := h.store.List(ctx)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrStoreFailed("list", err))
	}
	return HandleSuccess(h.logger, c, h.presenter.PresentList(ctx, records))
}

// Delete handles DELETE /admin/summaries/:id
func (h *Summary) Delete(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("id is required"))
	}
	if err := h.store.Delete(c.Request().Context(), id); err != nil {
		return HandleError(h.logger, c, errors.ErrStoreFailed("delete", err))
	}
	return HandleSuccess(h.logger, c, map[string]string{"id": id})
}

// validateRequest applies the shared request checks, mapping validator
// failures onto the specific error messages clients rely on
func (h *Summary) validateRequest(c echo.Context, req interface{}, url, transcript string) error {
	if url == "" {
		return errors.ErrMissingURL()
	}
	if transcript == "" {
		return errors.ErrMissingTranscript()
	}
	if err := c.Validate(req); err != nil {
		if utf8.RuneCountInString(transcript) < minTranscriptChars {
			return errors.ErrTranscriptTooShort(len(transcript))
		}
		return errors.ErrInvalidArgument(err.Error())
	}
	return nil
}

// resolveUser picks the attribution user id: authenticated identity first,
// then the request body, then the configured default
func (h *Summary) resolveUser(c echo.Context, bodyUserID string) string {
	if userID := middleware.UserIDFromContext(c); userID != "" {
		return userID
	}
	if bodyUserID != "" {
		return bodyUserID
	}
	return h.defaultUser
}

// cachedRecord looks up the record for a cache check. A store failure is
// logged and treated as a miss: regeneration is preferable to refusing the
// request.
func (h *Summary) cachedRecord(ctx context.Context, id string) *entities.SummaryRecord {
	record, err := h.store.Get(ctx, id)
	if err != nil {
		h.logger.Warn("cache lookup failed, regenerating", zap.String("id", id), zap.Error(err))
		return nil
	}
	return record
}

// lastRecord returns the most recent merged record from pipeline results
func lastRecord(results []summarize.StageResult) *entities.SummaryRecord {
	var last *entities.SummaryRecord
	for _, result := range results {
		if result.Record != nil {
			last = result.Record
		}
	}
	return last
}
