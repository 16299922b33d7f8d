package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/BhushanMasters/AI-Powered-Customer-Review-Insights/internal/domain"
	"github.com/BhushanMasters/AI-Powered-Customer-Review-Insights/internal/ingest"
)

// CSV writes the dataset with the exact header the ingester recognizes, so an
// exported file can be uploaded again without losing the analysis.
func CSV(w io.Writer, ds *domain.Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ingest.Columns); err != nil {
		return err
	}
	for i := range ds.Records {
		if err := cw.Write(row(&ds.Records[i])); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// row follows ingest.Columns order.
func row(r *domain.Record) []string {
	a := r.Analysis
	label, score := scoredCells(a.Sentiment)
	topic, topicScore := scoredCells(a.Topic)
	return []string{
		r.ID,
		deref(r.Date),
		deref(r.RatingRaw),
		floatCell(a.Rating),
		label,
		score,
		topic,
		topicScore,
		ingest.EncodeScoreds(a.Topics),
		ingest.EncodeList(a.Mentions),
		ingest.EncodeFlags(a.Problems),
		ingest.EncodeFlags(a.Suggestions),
		strconv.Itoa(a.WordCount),
		strconv.Itoa(a.CharCount),
		a.Length,
		a.Status,
		r.Text,
	}
}

type document struct {
	Dataset    string       `json:"dataset"`
	Name       string       `json:"name"`
	CreatedAt  time.Time    `json:"created_at"`
	ExportedAt time.Time    `json:"exported_at"`
	Reviews    []jsonRecord `json:"reviews"`
}

// jsonRecord keys match the CSV columns; structured fields stay structured.
type jsonRecord struct {
	ReviewID       string             `json:"review_id"`
	Date           *string            `json:"date,omitempty"`
	RatingText     *string            `json:"rating_text,omitempty"`
	Rating         *float64           `json:"rating,omitempty"`
	Sentiment      string             `json:"sentiment,omitempty"`
	SentimentScore *float64           `json:"sentiment_score,omitempty"`
	Topic          string             `json:"topic,omitempty"`
	TopicScore     *float64           `json:"topic_score,omitempty"`
	Topics         []jsonScored       `json:"topics,omitempty"`
	Mentions       []string           `json:"mentions,omitempty"`
	Problems       []jsonFlag         `json:"problems,omitempty"`
	Suggestions    []jsonFlag         `json:"suggestions,omitempty"`
	WordCount      int                `json:"word_count"`
	CharCount      int                `json:"char_count"`
	Length         string             `json:"length,omitempty"`
	Analysis       string             `json:"analysis,omitempty"`
	Text           string             `json:"text"`
}

type jsonScored struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

type jsonFlag struct {
	Category string `json:"category"`
	Phrase   string `json:"phrase"`
}

// JSON writes the dataset under a "reviews" key, which the ingester treats
// like any other reviews envelope on re-upload.
func JSON(w io.Writer, ds *domain.Dataset) error {
	doc := document{
		Dataset:    ds.ID,
		Name:       ds.Name,
		CreatedAt:  ds.CreatedAt,
		ExportedAt: time.Now().UTC(),
		Reviews:    make([]jsonRecord, 0, len(ds.Records)),
	}
	for i := range ds.Records {
		doc.Reviews = append(doc.Reviews, jsonRow(&ds.Records[i]))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func jsonRow(r *domain.Record) jsonRecord {
	a := r.Analysis
	jr := jsonRecord{
		ReviewID:   r.ID,
		Date:       r.Date,
		RatingText: r.RatingRaw,
		Rating:     a.Rating,
		Mentions:   a.Mentions,
		WordCount:  a.WordCount,
		CharCount:  a.CharCount,
		Length:     a.Length,
		Analysis:   a.Status,
		Text:       r.Text,
	}
	if a.Sentiment != nil {
		jr.Sentiment = a.Sentiment.Label
		jr.SentimentScore = ptr(a.Sentiment.Score)
	}
	if a.Topic != nil {
		jr.Topic = a.Topic.Label
		jr.TopicScore = ptr(a.Topic.Score)
	}
	for _, t := range a.Topics {
		jr.Topics = append(jr.Topics, jsonScored{Label: t.Label, Score: t.Score})
	}
	for _, f := range a.Problems {
		jr.Problems = append(jr.Problems, jsonFlag{Category: f.Category, Phrase: f.Phrase})
	}
	for _, f := range a.Suggestions {
		jr.Suggestions = append(jr.Suggestions, jsonFlag{Category: f.Category, Phrase: f.Phrase})
	}
	return jr
}

func scoredCells(s *domain.Scored) (string, string) {
	if s == nil {
		return "", ""
	}
	return s.Label, ingest.FormatScore(s.Score)
}

func floatCell(v *float64) string {
	if v == nil {
		return ""
	}
	return ingest.FormatScore(*v)
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func ptr[T any](v T) *T { return &v }
