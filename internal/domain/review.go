package domain

import "time"

// Review carries a record as ingested. Analysis never mutates these fields.
type Review struct {
	ID        string
	Date      *string
	RatingRaw *string
	Text      string
	Source    map[string]any // original payload (JSON object / CSV row); nil for plain text
}

type Scored struct {
	Label string
	Score float64
}

// FlagMatch is a (category, matched phrase) pair from the lexicon pass.
type FlagMatch struct {
	Category string
	Phrase   string
}

const (
	StatusOK          = "ok"
	StatusUnavailable = "unavailable"
)

type Analysis struct {
	Rating      *float64 // normalized to [0,5], nil when unrecognized
	Sentiment   *Scored
	Topic       *Scored  // best zero-shot label
	Topics      []Scored // all labels at or above the configured threshold
	Mentions    []string
	Problems    []FlagMatch
	Suggestions []FlagMatch
	WordCount   int
	CharCount   int
	Length      string // short|medium|long
	Status      string // ok|unavailable; empty until analyzed
	Imported    bool   // derived fields restored from a prior export
}

type Record struct {
	Review
	Analysis Analysis
}

type Dataset struct {
	ID        string
	Name      string
	CreatedAt time.Time
	Records   []Record
}
