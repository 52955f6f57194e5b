package entities

import (
	"time"

	"gorm.io/datatypes"
)

// DateCreatedLayout is the timestamp format persisted on records. It is part
// of the durable contract: records written by earlier deployments carry it.
const DateCreatedLayout = "2006-01-02 15:04:05"

// MaxKeyTopics bounds the key_topics list on a record
const MaxKeyTopics = 6

// SummaryRecord is the persisted unit, one per content id. The id is a
// SHA-256 hex digest of the normalized URL plus request options and is
// immutable once created. Field names are part of the durable contract since
// partial records must merge correctly across pipeline stages.
type SummaryRecord struct {
	ID              string                      `json:"id" gorm:"type:varchar(64);primaryKey"`
	UserID          string                      `json:"user_id,omitempty" gorm:"type:varchar(255)"`
	URL             string                      `json:"url,omitempty" gorm:"type:text"`
	Transcript      string                      `json:"transcript,omitempty" gorm:"type:text"`
	TextSummary     string                      `json:"text_summary,omitempty" gorm:"type:text"`
	SummaryBullets  datatypes.JSONSlice[string] `json:"summary_bullets,omitempty" gorm:"type:jsonb"`
	Tone            string                      `json:"tone,omitempty" gorm:"type:varchar(100)"`
	Sentiment       string                      `json:"sentiment,omitempty" gorm:"type:varchar(100)"`
	Tweet           string                      `json:"tweet,omitempty" gorm:"type:text"`
	KeyTopics       datatypes.JSONSlice[string] `json:"key_topics,omitempty" gorm:"type:jsonb"`
	Depth           string                      `json:"depth,omitempty" gorm:"type:varchar(100)"`
	TimeSaved       string                      `json:"time_saved,omitempty" gorm:"type:varchar(100)"`
	AudioSummaryURL string                      `json:"audio_summary_url,omitempty" gorm:"type:text"`
	DateCreated     string                      `json:"dateCreated,omitempty" gorm:"type:varchar(32)"`
}

// TableName specifies the table name for the Postgres store backend
func (SummaryRecord) TableName() string {
	return "summaries"
}

// NewSummaryRecord creates the minimal record shape written on first cache
// miss. Later pipeline stages enrich it via merge-update.
func NewSummaryRecord(id, userID, cleanURL, transcript string) *SummaryRecord {
	return &SummaryRecord{
		ID:          id,
		UserID:      userID,
		URL:         cleanURL,
		Transcript:  transcript,
		DateCreated: time.Now().Format(DateCreatedLayout),
	}
}

// Merge applies a shallow field-by-field merge: a non-empty field on the
// incoming partial replaces the stored value, empty fields leave the stored
// value untouched. This is how pipeline stages accumulate fields on the same
// record without clobbering siblings. The merge is defined per field rather
// than over a dynamic map so malformed upstream responses cannot introduce
// unexpected fields.
func (r *SummaryRecord) Merge(partial *SummaryRecord) {
	if partial == nil {
		return
	}
	if partial.UserID != "" {
		r.UserID = partial.UserID
	}
	if partial.URL != "" {
		r.URL = partial.URL
	}
	if partial.Transcript != "" {
		r.Transcript = partial.Transcript
	}
	if partial.TextSummary != "" {
		r.TextSummary = partial.TextSummary
	}
	if len(partial.SummaryBullets) > 0 {
		r.SummaryBullets = partial.SummaryBullets
	}
	if partial.Tone != "" {
		r.Tone = partial.Tone
	}
	if partial.Sentiment != "" {
		r.Sentiment = partial.Sentiment
	}
	if partial.Tweet != "" {
		r.Tweet = partial.Tweet
	}
	if len(partial.KeyTopics) > 0 {
		topics := partial.KeyTopics
		if len(topics) > MaxKeyTopics {
			topics = topics[:MaxKeyTopics]
		}
		r.KeyTopics = topics
	}
	if partial.Depth != "" {
		r.Depth = partial.Depth
	}
	if partial.TimeSaved != "" {
		r.TimeSaved = partial.TimeSaved
	}
	if partial.AudioSummaryURL != "" {
		r.AudioSummaryURL = partial.AudioSummaryURL
	}
	if partial.DateCreated != "" && r.DateCreated == "" {
		r.DateCreated = partial.DateCreated
	}
}

// Clone returns a deep copy of the record
func (r *SummaryRecord) Clone() *SummaryRecord {
	if r == nil {
		return nil
	}
	cp := *r
	if r.SummaryBullets != nil {
		cp.SummaryBullets = append(datatypes.JSONSlice[string](nil), r.SummaryBullets...)
	}
	if r.KeyTopics != nil {
		cp.KeyTopics = append(datatypes.JSONSlice[string](nil), r.KeyTopics...)
	}
	return &cp
}

// ForTransport returns a copy safe to hand to clients: the raw transcript
// never leaves the service.
func (r *SummaryRecord) ForTransport() *SummaryRecord {
	cp := r.Clone()
	if cp != nil {
		cp.Transcript = ""
	}
	return cp
}

// HasSummary reports whether the summarize stage has run
func (r *SummaryRecord) HasSummary() bool {
	return r != nil && (r.TextSummary != "" || r.AudioSummaryURL != "")
}

// HasInference reports whether the inference stage has run
func (r *SummaryRecord) HasInference() bool {
	return r != nil && (r.Tone != "" || r.Sentiment != "")
}
