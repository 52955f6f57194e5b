package presenter

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/essence-team/essence-backend/internal/adapter/dto"
	"github.com/essence-team/essence-backend/internal/domain/entities"
	"github.com/essence-team/essence-backend/internal/domain/repositories"
)

// SummaryPresenter converts summary records into transport DTOs. Presigning
// happens here, at response-assembly time, so stored records only ever carry
// the internal object reference.
type SummaryPresenter struct {
	blobs  repositories.ObjectStore
	expiry time.Duration
	logger *zap.Logger
}

// NewSummaryPresenter creates a presenter with the configured presign expiry
func NewSummaryPresenter(blobs repositories.ObjectStore, expiry time.Duration, logger *zap.Logger) *SummaryPresenter {
	return &SummaryPresenter{
		blobs:  blobs,
		expiry: expiry,
		logger: logger,
	}
}

// Present converts a record to its response shape. A failed presign drops the
// audio_url field rather than failing the response: the text summary is still
// worth returning.
func (p *SummaryPresenter) Present(ctx context.Context, r *entities.SummaryRecord) *dto.SummaryResponse {
	if r == nil {
		return nil
	}

	response := &dto.SummaryResponse{
		ID:             r.ID,
		UserID:         r.UserID,
		CleanURL:       r.URL,
		TextSummary:    r.TextSummary,
		SummaryBullets: r.SummaryBullets,
		Tone:           r.Tone,
		Sentiment:      r.Sentiment,
		Tweet:          r.Tweet,
		KeyTopics:      r.KeyTopics,
		Depth:          r.Depth,
		TimeSaved:      r.TimeSaved,
		DateCreated:    r.DateCreated,
	}

	if r.AudioSummaryURL != "" {
		url, err := p.blobs.PresignedGet(ctx, r.AudioSummaryURL, p.expiry)
		if err != nil {
			p.logger.Warn("failed to presign audio reference, omitting audio_url",
				zap.String("id", r.ID), zap.Error(err))
		} else {
			response.AudioURL = url
		}
	}

	return response
}

// PresentList converts records for the administrative list endpoint
func (p *SummaryPresenter) PresentList(ctx context.Context, records []*entities.SummaryRecord) *dto.ListSummariesResponse {
	responses := make([]*dto.SummaryResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, p.Present(ctx, r))
	}
	return &dto.ListSummariesResponse{
		Summaries: responses,
		Count:     len(responses),
	}
}
