package entities

import "testing"

func TestMerge_AccumulatesAcrossStages(t *testing.T) {
	record := NewSummaryRecord("id-1", "user-1", "https://news.example/a", "the transcript")
	created := record.DateCreated

	record.Merge(&SummaryRecord{ID: "id-1", TextSummary: "summary text"})
	record.Merge(&SummaryRecord{ID: "id-1", Tone: "dry", Sentiment: "neutral", DateCreated: "2020-01-01 00:00:00"})

	if record.TextSummary != "summary text" {
		t.Fatal("summary field lost during merge")
	}
	if record.Tone != "dry" || record.Sentiment != "neutral" {
		t.Fatal("inference fields not merged")
	}
	if record.Transcript != "the transcript" {
		t.Fatal("empty partial fields must not clobber stored values")
	}
	if record.DateCreated != created {
		t.Fatal("DateCreated is set once and must not be overwritten")
	}
}

func TestMerge_TruncatesKeyTopics(t *testing.T) {
	record := &SummaryRecord{ID: "id-1"}
	record.Merge(&SummaryRecord{
		ID:        "id-1",
		KeyTopics: []string{"a", "b", "c", "d", "e", "f", "g", "h"},
	})
	if len(record.KeyTopics) != MaxKeyTopics {
		t.Fatalf("expected %d topics, got %d", MaxKeyTopics, len(record.KeyTopics))
	}
}

func TestMerge_NonEmptyReplaces(t *testing.T) {
	record := &SummaryRecord{ID: "id-1", TextSummary: "old"}
	record.Merge(&SummaryRecord{ID: "id-1", TextSummary: "new"})
	if record.TextSummary != "new" {
		t.Fatalf("expected replacement, got %q", record.TextSummary)
	}
}

func TestForTransport_StripsTranscript(t *testing.T) {
	record := NewSummaryRecord("id-1", "user-1", "https://news.example/a", "secret transcript")
	transport := record.ForTransport()
	if transport.Transcript != "" {
		t.Fatal("transcript leaked into transport copy")
	}
	if record.Transcript == "" {
		t.Fatal("ForTransport must not mutate the original")
	}
}

func TestClone_Independent(t *testing.T) {
	record := &SummaryRecord{ID: "id-1", KeyTopics: []string{"a"}}
	clone := record.Clone()
	clone.KeyTopics[0] = "mutated"
	if record.KeyTopics[0] != "a" {
		t.Fatal("clone shares topic slice with original")
	}
}

func TestHasSummaryAndHasInference(t *testing.T) {
	var nilRecord *SummaryRecord
	if nilRecord.HasSummary() || nilRecord.HasInference() {
		t.Fatal("nil record reports content")
	}
	if (&SummaryRecord{}).HasSummary() {
		t.Fatal("empty record reports a summary")
	}
	if !(&SummaryRecord{TextSummary: "s"}).HasSummary() {
		t.Fatal("text summary not detected")
	}
	if !(&SummaryRecord{AudioSummaryURL: "s3://b/k"}).HasSummary() {
		t.Fatal("audio-only summary not detected")
	}
	if !(&SummaryRecord{Sentiment: "neutral"}).HasInference() {
		t.Fatal("inference not detected")
	}
}
