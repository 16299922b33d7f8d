package httpserver

import (
	"time"

	"github.com/BhushanMasters/AI-Powered-Customer-Review-Insights/internal/domain"
)

/********** dataset views **********/

type datasetDTO struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	CreatedAt   time.Time `json:"created_at"`
	Records     int       `json:"records"`
	Unavailable int       `json:"unavailable"`
}

type summaryDTO struct {
	Total       int      `json:"total"`
	Positive    int      `json:"positive"`
	Negative    int      `json:"negative"`
	Neutral     int      `json:"neutral"`
	Unavailable int      `json:"unavailable"`
	Rated       int      `json:"rated"`
	AvgRating   *float64 `json:"avg_rating,omitempty"`
}

type datasetViewDTO struct {
	datasetDTO
	Summary summaryDTO `json:"summary"`
}

type uploadDTO struct {
	Dataset datasetViewDTO `json:"dataset"`
	Skipped int            `json:"skipped"`
}

func mapDatasetInfo(di domain.DatasetInfo) datasetDTO {
	return datasetDTO{
		ID:          di.ID,
		Name:        di.Name,
		CreatedAt:   di.CreatedAt,
		Records:     di.Records,
		Unavailable: di.Unavailable,
	}
}

func mapView(dv domain.DatasetView) datasetViewDTO {
	return datasetViewDTO{
		datasetDTO: mapDatasetInfo(dv.Info),
		Summary: summaryDTO{
			Total:       dv.Summary.Total,
			Positive:    dv.Summary.Positive,
			Negative:    dv.Summary.Negative,
			Neutral:     dv.Summary.Neutral,
			Unavailable: dv.Summary.Unavailable,
			Rated:       dv.Summary.Rated,
			AvgRating:   dv.Summary.AvgRating,
		},
	}
}

/********** records **********/

type scoredDTO struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

type flagDTO struct {
	Category string `json:"category"`
	Phrase   string `json:"phrase"`
}

type recordDTO struct {
	ReviewID    string      `json:"review_id"`
	Date        *string     `json:"date,omitempty"`
	RatingText  *string     `json:"rating_text,omitempty"`
	Rating      *float64    `json:"rating,omitempty"`
	Sentiment   *scoredDTO  `json:"sentiment,omitempty"`
	Topic       *scoredDTO  `json:"topic,omitempty"`
	Topics      []scoredDTO `json:"topics,omitempty"`
	Mentions    []string    `json:"mentions,omitempty"`
	Problems    []flagDTO   `json:"problems,omitempty"`
	Suggestions []flagDTO   `json:"suggestions,omitempty"`
	WordCount   int         `json:"word_count"`
	CharCount   int         `json:"char_count"`
	Length      string      `json:"length"`
	Analysis    string      `json:"analysis"`
	Imported    bool        `json:"imported,omitempty"`
	Text        string      `json:"text"`
}

type recordsPageDTO struct {
	Items  []recordDTO `json:"items"`
	Total  int         `json:"total"`
	Limit  int         `json:"limit"`
	Offset int         `json:"offset"`
}

func mapRecord(r domain.Record) recordDTO {
	a := r.Analysis
	dto := recordDTO{
		ReviewID:   r.ID,
		Date:       r.Date,
		RatingText: r.RatingRaw,
		Rating:     a.Rating,
		Mentions:   a.Mentions,
		WordCount:  a.WordCount,
		CharCount:  a.CharCount,
		Length:     a.Length,
		Analysis:   a.Status,
		Imported:   a.Imported,
		Text:       r.Text,
	}
	if a.Sentiment != nil {
		dto.Sentiment = &scoredDTO{Label: a.Sentiment.Label, Score: a.Sentiment.Score}
	}
	if a.Topic != nil {
		dto.Topic = &scoredDTO{Label: a.Topic.Label, Score: a.Topic.Score}
	}
	for _, t := range a.Topics {
		dto.Topics = append(dto.Topics, scoredDTO{Label: t.Label, Score: t.Score})
	}
	for _, f := range a.Problems {
		dto.Problems = append(dto.Problems, flagDTO{Category: f.Category, Phrase: f.Phrase})
	}
	for _, f := range a.Suggestions {
		dto.Suggestions = append(dto.Suggestions, flagDTO{Category: f.Category, Phrase: f.Phrase})
	}
	return dto
}

func mapRecordsPage(p domain.RecordsPage, limit, offset int) recordsPageDTO {
	dto := recordsPageDTO{
		Items:  make([]recordDTO, 0, len(p.Items)),
		Total:  p.Total,
		Limit:  limit,
		Offset: offset,
	}
	for _, r := range p.Items {
		dto.Items = append(dto.Items, mapRecord(r))
	}
	return dto
}

/********** aggregates **********/

type countDTO struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type aggregatesDTO struct {
	Sentiments  []countDTO `json:"sentiments"`
	Ratings     []countDTO `json:"ratings"`
	Topics      []countDTO `json:"topics"`
	Mentions    []countDTO `json:"mentions"`
	Problems    []countDTO `json:"problems"`
	Suggestions []countDTO `json:"suggestions"`
	Lengths     []countDTO `json:"lengths"`
}

func mapCounts(cs []domain.Count) []countDTO {
	out := make([]countDTO, 0, len(cs))
	for _, c := range cs {
		out = append(out, countDTO{Label: c.Label, Count: c.N})
	}
	return out
}

func mapAggregates(ag domain.Aggregates) aggregatesDTO {
	return aggregatesDTO{
		Sentiments:  mapCounts(ag.Sentiments),
		Ratings:     mapCounts(ag.Ratings),
		Topics:      mapCounts(ag.Topics),
		Mentions:    mapCounts(ag.Mentions),
		Problems:    mapCounts(ag.Problems),
		Suggestions: mapCounts(ag.Suggestions),
		Lengths:     mapCounts(ag.Lengths),
	}
}
