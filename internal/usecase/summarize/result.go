package summarize

import "github.com/essence-team/essence-backend/internal/domain/entities"

// Stage identifies one generation step in the pipeline
type Stage string

const (
	StageSummarize Stage = "summarize"
	StageInfer     Stage = "infer"
	StageNarrate   Stage = "narrate"
)

// StageStatus is the outcome of a single stage
type StageStatus string

const (
	// StageCompleted means the stage produced fields and persisted them
	StageCompleted StageStatus = "completed"
	// StageSkipped means the stage ran but contributed nothing, e.g. the
	// inference output was unparsable or narration had no summary text to
	// read. Skips never abort the pipeline.
	StageSkipped StageStatus = "skipped"
	// StageFailed means the stage hit an error that aborts the remaining
	// pipeline
	StageFailed StageStatus = "failed"
)

// StageResult reports one stage outcome together with the merged record as
// persisted after that stage.
type StageResult struct {
	Stage  Stage
	Status StageStatus
	Record *entities.SummaryRecord
	Err    error
}
