package entities

import "errors"

// Domain errors
var (
	ErrEmptyRecord         = errors.New("record is empty")
	ErrMissingID           = errors.New("record id is required")
	ErrRecordNotFound      = errors.New("summary record not found")
	ErrEmptyTranscript     = errors.New("transcript could not be extracted")
	ErrNoSummary           = errors.New("no text summary available for narration")
	ErrInvalidObjectRef    = errors.New("object reference is not in s3://bucket/key form")
	ErrUnparsableInference = errors.New("inference response is not valid JSON")
)
