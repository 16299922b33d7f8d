package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/BhushanMasters/AI-Powered-Customer-Review-Insights/internal/app"
	"github.com/BhushanMasters/AI-Powered-Customer-Review-Insights/internal/domain"
	"github.com/BhushanMasters/AI-Powered-Customer-Review-Insights/internal/store/memstore"
)

// seeded builds a small analyzed dataset by hand so the read-side assertions
// stay independent of the lexicon and models.
func seeded() *domain.Dataset {
	return &domain.Dataset{
		ID:        "ds1",
		Name:      "seed.json",
		CreatedAt: time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC),
		Records: []domain.Record{
			{
				Review: domain.Review{ID: "r1", Text: "I love the fast delivery"},
				Analysis: domain.Analysis{
					Rating:    ptr(5.0),
					Sentiment: &domain.Scored{Label: "positive", Score: 0.95},
					Topic:     &domain.Scored{Label: "delivery", Score: 0.9},
					Mentions:  []string{"delivery"},
					WordCount: 5,
					Length:    "short",
					Status:    domain.StatusOK,
				},
			},
			{
				Review: domain.Review{ID: "r2", Text: "Great product overall"},
				Analysis: domain.Analysis{
					Rating:    ptr(4.4),
					Sentiment: &domain.Scored{Label: "positive", Score: 0.88},
					Topic:     &domain.Scored{Label: "delivery", Score: 0.7},
					Mentions:  []string{"product"},
					WordCount: 3,
					Length:    "short",
					Status:    domain.StatusOK,
				},
			},
			{
				Review: domain.Review{ID: "r3", Text: "Battery dies fast and poor quality, please add quick charging"},
				Analysis: domain.Analysis{
					Rating:    ptr(1.0),
					Sentiment: &domain.Scored{Label: "negative", Score: 0.91},
					Topic:     &domain.Scored{Label: "pricing", Score: 0.55},
					Problems: []domain.FlagMatch{
						{Category: "battery", Phrase: "battery dies"},
						{Category: "battery", Phrase: "dies fast"},
						{Category: "quality", Phrase: "poor quality"},
					},
					Suggestions: []domain.FlagMatch{
						{Category: "charging", Phrase: "quick charging"},
					},
					Mentions:  []string{"battery", "quality"},
					WordCount: 10,
					Length:    "short",
					Status:    domain.StatusOK,
				},
			},
			{
				Review: domain.Review{ID: "r4", Text: "boom"},
				Analysis: domain.Analysis{
					WordCount: 1,
					Length:    "short",
					Status:    domain.StatusUnavailable,
				},
			},
		},
	}
}

func seedStore(t *testing.T) *memstore.Store {
	t.Helper()
	st := memstore.New(4)
	if err := st.Put(context.Background(), seeded()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return st
}

func TestDataset_SummaryThenCacheHit(t *testing.T) {
	st := seedStore(t)
	cache := &fakeCache{}
	q := app.NewQueryService(st, cache, 10*time.Minute)

	dv, err := q.Dataset(context.Background(), "ds1")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if dv.Info.Name != "seed.json" || dv.Info.Records != 4 || dv.Info.Unavailable != 1 {
		t.Fatalf("info: %+v", dv.Info)
	}
	sm := dv.Summary
	if sm.Total != 4 || sm.Positive != 2 || sm.Negative != 1 || sm.Neutral != 0 || sm.Unavailable != 1 {
		t.Fatalf("summary: %+v", sm)
	}
	if sm.Rated != 3 || sm.AvgRating == nil || *sm.AvgRating != 3.47 {
		t.Fatalf("ratings: rated=%d avg=%v", sm.Rated, sm.AvgRating)
	}

	// Replace the stored dataset to prove the second read comes from cache
	bigger := seeded()
	bigger.Records = append(bigger.Records, domain.Record{Review: domain.Review{ID: "r5", Text: "extra"}})
	if err := st.Put(context.Background(), bigger); err != nil {
		t.Fatalf("put: %v", err)
	}

	dv2, err := q.Dataset(context.Background(), "ds1")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if dv2.Info.Records != 4 {
		t.Fatalf("expected cached view, got %+v", dv2.Info)
	}
}

func TestDataset_NotFound(t *testing.T) {
	q := app.NewQueryService(memstore.New(4), &fakeCache{}, time.Minute)
	if _, err := q.Dataset(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := q.Records(context.Background(), "missing", domain.RecordsQuery{}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRecords_Filters(t *testing.T) {
	q := app.NewQueryService(seedStore(t), &fakeCache{}, time.Minute)
	ctx := context.Background()

	cases := []struct {
		name  string
		query domain.RecordsQuery
		ids   []string
	}{
		{"sentiment", domain.RecordsQuery{Sentiment: "positive"}, []string{"r1", "r2"}},
		{"unavailable", domain.RecordsQuery{Sentiment: "unavailable"}, []string{"r4"}},
		{"min_rating", domain.RecordsQuery{MinRating: ptr(4.0)}, []string{"r1", "r2"}},
		{"flag", domain.RecordsQuery{Flag: "battery"}, []string{"r3"}},
		{"flag_suggestion", domain.RecordsQuery{Flag: "charging"}, []string{"r3"}},
		{"text_search", domain.RecordsQuery{Q: "QUICK charging"}, []string{"r3"}},
		{"combined", domain.RecordsQuery{Sentiment: "negative", Q: "battery"}, []string{"r3"}},
		{"none", domain.RecordsQuery{Sentiment: "neutral"}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			page, err := q.Records(ctx, "ds1", tc.query)
			if err != nil {
				t.Fatalf("err: %v", err)
			}
			if page.Total != len(tc.ids) || len(page.Items) != len(tc.ids) {
				t.Fatalf("got total=%d items=%d, want %d", page.Total, len(page.Items), len(tc.ids))
			}
			for i, id := range tc.ids {
				if page.Items[i].ID != id {
					t.Fatalf("item %d: got %s want %s", i, page.Items[i].ID, id)
				}
			}
		})
	}
}

func TestRecords_Paging(t *testing.T) {
	q := app.NewQueryService(seedStore(t), &fakeCache{}, time.Minute)
	ctx := context.Background()

	page, err := q.Records(ctx, "ds1", domain.RecordsQuery{Limit: 2, Offset: 2})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if page.Total != 4 || len(page.Items) != 2 || page.Items[0].ID != "r3" || page.Items[1].ID != "r4" {
		t.Fatalf("page: total=%d items=%+v", page.Total, page.Items)
	}

	past, err := q.Records(ctx, "ds1", domain.RecordsQuery{Limit: 10, Offset: 99})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if past.Total != 4 || len(past.Items) != 0 {
		t.Fatalf("past-the-end page: %+v", past)
	}
}

func TestAggregates(t *testing.T) {
	q := app.NewQueryService(seedStore(t), &fakeCache{}, time.Minute)

	ag, err := q.Aggregates(context.Background(), "ds1")
	if err != nil {
		t.Fatalf("err: %v", err)
	}

	wantSent := []domain.Count{{Label: "positive", N: 2}, {Label: "negative", N: 1}, {Label: "unavailable", N: 1}}
	if !countsEqual(ag.Sentiments, wantSent) {
		t.Fatalf("sentiments: %+v", ag.Sentiments)
	}

	// 4.4 rounds into the 4 bucket, the unrated record gets its own bucket
	wantRatings := []domain.Count{
		{Label: "1", N: 1}, {Label: "2", N: 0}, {Label: "3", N: 0},
		{Label: "4", N: 1}, {Label: "5", N: 1}, {Label: "unrated", N: 1},
	}
	if !countsEqual(ag.Ratings, wantRatings) {
		t.Fatalf("ratings: %+v", ag.Ratings)
	}

	if !countsEqual(ag.Topics, []domain.Count{{Label: "delivery", N: 2}, {Label: "pricing", N: 1}}) {
		t.Fatalf("topics: %+v", ag.Topics)
	}

	// battery matched two phrases in one review but still counts once
	if !countsEqual(ag.Problems, []domain.Count{{Label: "battery", N: 1}, {Label: "quality", N: 1}}) {
		t.Fatalf("problems: %+v", ag.Problems)
	}
	if !countsEqual(ag.Suggestions, []domain.Count{{Label: "charging", N: 1}}) {
		t.Fatalf("suggestions: %+v", ag.Suggestions)
	}
	if !countsEqual(ag.Mentions, []domain.Count{{Label: "battery", N: 1}, {Label: "delivery", N: 1}, {Label: "product", N: 1}, {Label: "quality", N: 1}}) {
		t.Fatalf("mentions: %+v", ag.Mentions)
	}
	if !countsEqual(ag.Lengths, []domain.Count{{Label: "short", N: 4}}) {
		t.Fatalf("lengths: %+v", ag.Lengths)
	}
}

func countsEqual(got, want []domain.Count) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func ptr[T any](v T) *T { return &v }
