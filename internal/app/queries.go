package app

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/BhushanMasters/AI-Powered-Customer-Review-Insights/internal/domain"
)

type QueryService struct {
	store    domain.DatasetStore
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(st domain.DatasetStore, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{store: st, cache: c, cacheTTL: ttl}
}

func (s *QueryService) ListDatasets(ctx context.Context) ([]domain.DatasetInfo, error) {
	return s.store.List(ctx)
}

// Dataset returns the header plus the sentiment and rating summary. The view
// is cached until the next upload, reanalyze or delete of this dataset.
func (s *QueryService) Dataset(ctx context.Context, id string) (domain.DatasetView, error) {
	key := "summary:" + id
	var dv domain.DatasetView
	if ok, _ := s.cache.Get(ctx, key, &dv); ok {
		return dv, nil
	}

	ds, err := s.store.Get(ctx, id)
	if err != nil {
		return domain.DatasetView{}, err
	}
	dv = domain.DatasetView{Info: datasetInfo(ds), Summary: summarize(ds)}
	_ = s.cache.Set(ctx, key, dv, int(s.cacheTTL.Seconds()))
	return dv, nil
}

// Records filters and pages through a dataset. Filtered pages are not cached;
// the filter combinations would each need their own key and the store read is
// already memory-speed.
func (s *QueryService) Records(ctx context.Context, id string, q domain.RecordsQuery) (domain.RecordsPage, error) {
	ds, err := s.store.Get(ctx, id)
	if err != nil {
		return domain.RecordsPage{}, err
	}

	needle := strings.ToLower(strings.TrimSpace(q.Q))
	matched := make([]domain.Record, 0, len(ds.Records))
	for _, r := range ds.Records {
		if matchRecord(r, q, needle) {
			matched = append(matched, r)
		}
	}

	page := domain.RecordsPage{Total: len(matched)}
	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}
	off := q.Offset
	if off < 0 {
		off = 0
	}
	if off < len(matched) {
		end := off + limit
		if end > len(matched) {
			end = len(matched)
		}
		page.Items = matched[off:end]
	}
	return page, nil
}

func (s *QueryService) Aggregates(ctx context.Context, id string) (domain.Aggregates, error) {
	key := "aggregates:" + id
	var out domain.Aggregates
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}

	ds, err := s.store.Get(ctx, id)
	if err != nil {
		return domain.Aggregates{}, err
	}
	out = aggregate(ds)

	// size guard, oversized aggregates just stay uncached
	if b, _ := json.Marshal(out); len(b) < 1_000_000 {
		_ = s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds()))
	}
	return out, nil
}

// Full returns the whole dataset snapshot for export, report and chart
// rendering. Never cached, exports should always see the stored state.
func (s *QueryService) Full(ctx context.Context, id string) (*domain.Dataset, error) {
	return s.store.Get(ctx, id)
}

func matchRecord(r domain.Record, q domain.RecordsQuery, needle string) bool {
	a := r.Analysis
	if q.Sentiment != "" {
		if q.Sentiment == "unavailable" {
			if a.Status != domain.StatusUnavailable {
				return false
			}
		} else if a.Sentiment == nil || a.Sentiment.Label != q.Sentiment {
			return false
		}
	}
	if q.MinRating != nil {
		if a.Rating == nil || *a.Rating < *q.MinRating {
			return false
		}
	}
	if q.Flag != "" {
		if !flagHit(a.Problems, q.Flag) && !flagHit(a.Suggestions, q.Flag) {
			return false
		}
	}
	if needle != "" && !strings.Contains(strings.ToLower(r.Text), needle) {
		return false
	}
	return true
}

func flagHit(fs []domain.FlagMatch, category string) bool {
	for _, f := range fs {
		if f.Category == category {
			return true
		}
	}
	return false
}
