package app

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/BhushanMasters/AI-Powered-Customer-Review-Insights/internal/adapters/observability"
	"github.com/BhushanMasters/AI-Powered-Customer-Review-Insights/internal/domain"
	"github.com/BhushanMasters/AI-Powered-Customer-Review-Insights/internal/ingest"
	"github.com/BhushanMasters/AI-Powered-Customer-Review-Insights/internal/lexicon"
	"github.com/BhushanMasters/AI-Powered-Customer-Review-Insights/internal/rating"
)

// AnalysisService owns the write side: parse an upload, enrich every record
// and store the finished dataset. Model calls go through the cache so a
// re-upload of the same feedback never hits the Inference API twice.
type AnalysisService struct {
	models   domain.InferenceClient // nil when inference is disabled
	store    domain.DatasetStore
	lex      *lexicon.Set
	cache    domain.Cache
	cacheTTL time.Duration

	labels   []string
	minTopic float64
	version  string // model config fingerprint, part of every cache key

	flight singleflight.Group
}

func NewAnalysisService(models domain.InferenceClient, store domain.DatasetStore, lex *lexicon.Set, cache domain.Cache, ttl time.Duration, labels []string, minTopic float64, version string) *AnalysisService {
	return &AnalysisService{
		models:   models,
		store:    store,
		lex:      lex,
		cache:    cache,
		cacheTTL: ttl,
		labels:   labels,
		minTopic: minTopic,
		version:  version,
	}
}

// CreateDataset parses the payload, analyzes every fresh record and stores the
// result. Records that arrive with their analysis columns intact (a re-upload
// of our own export) keep them and skip the models. Returns the stored dataset
// and the number of skipped source rows.
func (s *AnalysisService) CreateDataset(ctx context.Context, name string, payload []byte, format ingest.Format) (*domain.Dataset, int, error) {
	res, err := ingest.Parse(name, payload, format)
	if err != nil {
		return nil, 0, err
	}

	ds := &domain.Dataset{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
		Records:   res.Records,
	}
	s.analyze(ctx, ds, retryNone)

	if err := s.store.Put(ctx, ds); err != nil {
		return nil, 0, fmt.Errorf("store dataset %s: %w", ds.ID, err)
	}
	if s.cache != nil {
		s.invalidateDataset(ctx, ds.ID)
	}
	return ds, res.Skipped, nil
}

// Reanalyze reruns the pipeline over a stored dataset. By default only records
// that never produced a model result are retried; force recomputes everything,
// including records restored from an earlier export.
func (s *AnalysisService) Reanalyze(ctx context.Context, id string, force bool) (*domain.Dataset, error) {
	ds, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	mode := retryFailed
	if force {
		mode = retryAll
	}
	s.analyze(ctx, ds, mode)

	if err := s.store.Put(ctx, ds); err != nil {
		return nil, fmt.Errorf("store dataset %s: %w", id, err)
	}
	if s.cache != nil {
		s.invalidateDataset(ctx, id)
	}
	return ds, nil
}

func (s *AnalysisService) DeleteDataset(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	if s.cache != nil {
		s.invalidateDataset(ctx, id)
	}
	return nil
}

type retryMode int

const (
	retryNone   retryMode = iota // only records that were never analyzed
	retryFailed                  // records without a model result
	retryAll                     // everything, imported rows included
)

func (s *AnalysisService) analyze(ctx context.Context, ds *domain.Dataset, mode retryMode) {
	for i := range ds.Records {
		r := &ds.Records[i]
		switch mode {
		case retryNone:
			if r.Analysis.Status != "" {
				observability.ObserveAnalysis("imported")
				continue
			}
		case retryFailed:
			if r.Analysis.Status == domain.StatusOK {
				continue
			}
		}
		s.analyzeRecord(ctx, r)
		observability.ObserveAnalysis(r.Analysis.Status)
	}
}

func (s *AnalysisService) analyzeRecord(ctx context.Context, r *domain.Record) {
	text := lexicon.Clean(r.Text)

	a := domain.Analysis{Status: domain.StatusOK}

	// 1) Shape: counts and the length bucket come straight from the text.
	if text != "" {
		a.WordCount = len(strings.Fields(text))
	}
	a.CharCount = utf8.RuneCountInString(text)
	a.Length = lengthBucket(a.WordCount)

	// 2) Rating: absent stays absent, we never invent a midpoint score.
	if r.RatingRaw != nil {
		a.Rating = rating.Normalize(*r.RatingRaw)
	}

	// 3) Lexicon flags run regardless of model availability.
	flags := s.lex.Extract(text)
	a.Problems = flags.Problems
	a.Suggestions = flags.Suggestions
	a.Mentions = flags.Mentions

	// 4) Models: sentiment plus zero-shot topics, each behind the cache.
	// A failure marks this record unavailable and the rest of the dataset
	// carries on.
	switch {
	case text == "":
		a.Sentiment = &domain.Scored{Label: "neutral", Score: 0}
	case s.models == nil:
		a.Status = domain.StatusUnavailable
	default:
		if sent, err := s.sentiment(ctx, text); err != nil {
			log.Warn().Err(err).Str("record", r.ID).Msg("sentiment unavailable")
			a.Status = domain.StatusUnavailable
		} else {
			a.Sentiment = &sent
		}
		if topics, err := s.topics(ctx, text); err != nil {
			log.Warn().Err(err).Str("record", r.ID).Msg("topics unavailable")
			a.Status = domain.StatusUnavailable
		} else if len(topics) > 0 {
			top := topics[0]
			a.Topic = &top
			for _, t := range topics {
				if t.Score >= s.minTopic {
					a.Topics = append(a.Topics, t)
				}
			}
		}
	}

	r.Analysis = a
}

func (s *AnalysisService) sentiment(ctx context.Context, text string) (domain.Scored, error) {
	key := s.modelKey("sentiment", text)
	var hit domain.Scored
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &hit); ok {
			return hit, nil
		}
	}

	v, err, _ := s.flight.Do(key, func() (any, error) {
		sc, err := s.models.Sentiment(ctx, text)
		if err != nil {
			return nil, err
		}
		sc.Score = round4(sc.Score)
		if s.cache != nil {
			_ = s.cache.Set(ctx, key, sc, int(s.cacheTTL.Seconds()))
		}
		return sc, nil
	})
	if err != nil {
		return domain.Scored{}, err
	}
	return v.(domain.Scored), nil
}

func (s *AnalysisService) topics(ctx context.Context, text string) ([]domain.Scored, error) {
	key := s.modelKey("topics", text)
	var hit []domain.Scored
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &hit); ok {
			return hit, nil
		}
	}

	v, err, _ := s.flight.Do(key, func() (any, error) {
		scs, err := s.models.ZeroShot(ctx, text, s.labels)
		if err != nil {
			return nil, err
		}
		for i := range scs {
			scs[i].Score = round4(scs[i].Score)
		}
		if s.cache != nil {
			_ = s.cache.Set(ctx, key, scs, int(s.cacheTTL.Seconds()))
		}
		return scs, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Scored), nil
}

// modelKey hashes the model configuration together with the text, so changing
// models or labels never serves results computed under the old setup.
func (s *AnalysisService) modelKey(kind, text string) string {
	sum := sha1.Sum([]byte(s.version + "|" + kind + "|" + strings.Join(s.labels, ",") + "|" + text))
	return "analysis:" + kind + ":" + hex.EncodeToString(sum[:])
}

// invalidate the dataset read caches
func (s *AnalysisService) invalidateDataset(ctx context.Context, id string) {
	_ = s.cache.Del(ctx, "summary:"+id)
	_ = s.cache.Del(ctx, "aggregates:"+id)
}

func lengthBucket(words int) string {
	switch {
	case words < 20:
		return "short"
	case words < 75:
		return "medium"
	default:
		return "long"
	}
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
