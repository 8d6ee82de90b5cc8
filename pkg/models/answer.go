package models

import "time"

// Provenance identifies where an answer came from.
type Provenance string

const (
	ProvenanceCache    Provenance = "cache"
	ProvenanceRemote   Provenance = "remote"
	ProvenanceFallback Provenance = "fallback"
)

// Valid reports whether p is one of the known provenance tags.
func (p Provenance) Valid() bool {
	switch p {
	case ProvenanceCache, ProvenanceRemote, ProvenanceFallback:
		return true
	}
	return false
}

// AnswerResult is the engine's response to a single question.
type AnswerResult struct {
	Text       string     `json:"text"`
	Provenance Provenance `json:"provenance"`
}

// AnswerRecord tracks one answered question for the history log.
type AnswerRecord struct {
	ID         int64      `json:"id"`
	Query      string     `json:"query"`
	Provenance Provenance `json:"provenance"`
	Model      string     `json:"model,omitempty"`
	AnswerLen  int        `json:"answer_len"`
	LatencyMs  int64      `json:"latency_ms"`
	CreatedAt  time.Time  `json:"created_at"`
}

// AnswerSummary aggregates answer history per provenance.
type AnswerSummary struct {
	Provenance   Provenance `json:"provenance"`
	Count        int64      `json:"count"`
	AvgLatencyMs float64    `json:"avg_latency_ms"`
}
