package ingest

import (
	"strconv"
	"strings"

	"github.com/BhushanMasters/AI-Powered-Customer-Review-Insights/internal/domain"
)

// Columns is the CSV export header, in order. The exporter writes these and
// the ingester recognizes every one of them on re-ingest, which is what makes
// export → upload a lossless cycle.
var Columns = []string{
	"review_id", "date", "rating_text", "rating",
	"sentiment", "sentiment_score", "topic", "topic_score", "topics",
	"mentions", "problems", "suggestions",
	"word_count", "char_count", "length", "analysis", "text",
}

const listSep = "|"

// FormatScore prints a score the way the ingester parses it back: minimal
// digits, so values rounded at analysis time survive unchanged.
func FormatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func EncodeList(items []string) string {
	return strings.Join(items, listSep)
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, listSep) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// EncodeFlags renders flag matches as "category:phrase" pairs.
func EncodeFlags(fs []domain.FlagMatch) string {
	parts := make([]string, 0, len(fs))
	for _, f := range fs {
		parts = append(parts, f.Category+":"+f.Phrase)
	}
	return strings.Join(parts, listSep)
}

func DecodeFlags(s string) []domain.FlagMatch {
	var out []domain.FlagMatch
	for _, p := range splitList(s) {
		cat, phrase, _ := strings.Cut(p, ":")
		if cat = strings.TrimSpace(cat); cat != "" {
			out = append(out, domain.FlagMatch{Category: cat, Phrase: strings.TrimSpace(phrase)})
		}
	}
	return out
}

// EncodeScoreds renders scored labels as "label:score" pairs. Labels may
// contain spaces but never colons, so the score sits after the last colon.
func EncodeScoreds(ss []domain.Scored) string {
	parts := make([]string, 0, len(ss))
	for _, s := range ss {
		parts = append(parts, s.Label+":"+FormatScore(s.Score))
	}
	return strings.Join(parts, listSep)
}

func DecodeScoreds(s string) []domain.Scored {
	var out []domain.Scored
	for _, p := range splitList(s) {
		i := strings.LastIndexByte(p, ':')
		if i <= 0 {
			continue
		}
		score, err := strconv.ParseFloat(strings.TrimSpace(p[i+1:]), 64)
		if err != nil {
			continue
		}
		if label := strings.TrimSpace(p[:i]); label != "" {
			out = append(out, domain.Scored{Label: label, Score: score})
		}
	}
	return out
}
