package app

import (
	"math"
	"sort"
	"strconv"

	"github.com/BhushanMasters/AI-Powered-Customer-Review-Insights/internal/domain"
)

const topN = 10

func datasetInfo(ds *domain.Dataset) domain.DatasetInfo {
	di := domain.DatasetInfo{
		ID:        ds.ID,
		Name:      ds.Name,
		CreatedAt: ds.CreatedAt,
		Records:   len(ds.Records),
	}
	for _, r := range ds.Records {
		if r.Analysis.Status == domain.StatusUnavailable {
			di.Unavailable++
		}
	}
	return di
}

func summarize(ds *domain.Dataset) domain.Summary {
	var sm domain.Summary
	sm.Total = len(ds.Records)

	var ratingSum float64
	for _, r := range ds.Records {
		a := r.Analysis
		if a.Status == domain.StatusUnavailable {
			sm.Unavailable++
		}
		if a.Sentiment != nil {
			switch a.Sentiment.Label {
			case "positive":
				sm.Positive++
			case "negative":
				sm.Negative++
			case "neutral":
				sm.Neutral++
			}
		}
		if a.Rating != nil {
			sm.Rated++
			ratingSum += *a.Rating
		}
	}
	if sm.Rated > 0 {
		avg := math.Round(ratingSum/float64(sm.Rated)*100) / 100
		sm.AvgRating = &avg
	}
	return sm
}

func aggregate(ds *domain.Dataset) domain.Aggregates {
	sentiments := map[string]int{}
	var ratings [6]int // 1..5, index 0 counts unrated
	topics := map[string]int{}
	mentions := map[string]int{}
	problems := map[string]int{}
	suggestions := map[string]int{}
	lengths := map[string]int{}

	for _, r := range ds.Records {
		a := r.Analysis

		switch {
		case a.Sentiment != nil:
			sentiments[a.Sentiment.Label]++
		case a.Status == domain.StatusUnavailable:
			sentiments["unavailable"]++
		default:
			sentiments["unlabeled"]++
		}

		if a.Rating == nil {
			ratings[0]++
		} else {
			b := int(math.Round(*a.Rating))
			if b < 1 {
				b = 1
			}
			if b > 5 {
				b = 5
			}
			ratings[b]++
		}

		if a.Topic != nil {
			topics[a.Topic.Label]++
		}
		for _, m := range a.Mentions {
			mentions[m]++
		}
		// one count per category per review, however many phrases matched
		for _, c := range categories(a.Problems) {
			problems[c]++
		}
		for _, c := range categories(a.Suggestions) {
			suggestions[c]++
		}
		if a.Length != "" {
			lengths[a.Length]++
		}
	}

	ag := domain.Aggregates{
		Sentiments:  fixedCounts(sentiments, "positive", "neutral", "negative", "unavailable", "unlabeled"),
		Topics:      topCounts(topics, topN),
		Mentions:    topCounts(mentions, topN),
		Problems:    topCounts(problems, topN),
		Suggestions: topCounts(suggestions, topN),
		Lengths:     fixedCounts(lengths, "short", "medium", "long"),
	}
	for b := 1; b <= 5; b++ {
		ag.Ratings = append(ag.Ratings, domain.Count{Label: strconv.Itoa(b), N: ratings[b]})
	}
	ag.Ratings = append(ag.Ratings, domain.Count{Label: "unrated", N: ratings[0]})
	return ag
}

func categories(fs []domain.FlagMatch) []string {
	if len(fs) == 0 {
		return nil
	}
	seen := map[string]bool{}
	out := make([]string, 0, len(fs))
	for _, f := range fs {
		if !seen[f.Category] {
			seen[f.Category] = true
			out = append(out, f.Category)
		}
	}
	return out
}

// fixedCounts keeps a stable label order and drops labels nobody hit.
func fixedCounts(m map[string]int, order ...string) []domain.Count {
	out := make([]domain.Count, 0, len(order))
	for _, l := range order {
		if n := m[l]; n > 0 {
			out = append(out, domain.Count{Label: l, N: n})
		}
	}
	return out
}

func topCounts(m map[string]int, limit int) []domain.Count {
	out := make([]domain.Count, 0, len(m))
	for l, n := range m {
		out = append(out, domain.Count{Label: l, N: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].N != out[j].N {
			return out[i].N > out[j].N
		}
		return out[i].Label < out[j].Label
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
