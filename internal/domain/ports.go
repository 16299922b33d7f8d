package domain

import (
	"context"
	"time"
)

type InferenceClient interface {
	Sentiment(ctx context.Context, text string) (Scored, error)
	ZeroShot(ctx context.Context, text string, labels []string) ([]Scored, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

type DatasetStore interface {
	Put(ctx context.Context, ds *Dataset) error
	Get(ctx context.Context, id string) (*Dataset, error)
	List(ctx context.Context) ([]DatasetInfo, error)
	Delete(ctx context.Context, id string) error
}

// Read models & queries

type DatasetInfo struct {
	ID          string
	Name        string
	CreatedAt   time.Time
	Records     int
	Unavailable int
}

type Summary struct {
	Total       int
	Positive    int
	Negative    int
	Neutral     int
	Unavailable int
	Rated       int
	AvgRating   *float64
}

type DatasetView struct {
	Info    DatasetInfo
	Summary Summary
}

type Count struct {
	Label string
	N     int
}

type Aggregates struct {
	Sentiments  []Count // positive, neutral, negative, unavailable
	Ratings     []Count // "1".."5" buckets plus "unrated"
	Topics      []Count // model topics, top 10
	Mentions    []Count
	Problems    []Count // by category
	Suggestions []Count
	Lengths     []Count // short, medium, long
}

type RecordsQuery struct {
	Sentiment string
	MinRating *float64
	Flag      string // problem or suggestion category
	Q         string // case-insensitive text search
	Limit     int
	Offset    int
}

type RecordsPage struct {
	Items []Record
	Total int // matches before paging
}
