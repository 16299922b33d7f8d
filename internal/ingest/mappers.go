package ingest

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/BhushanMasters/AI-Powered-Customer-Review-Insights/internal/domain"
)

/********** alias registries (single source of truth) **********/

var reviewAliases = map[string][]string{
	"id":   {"review_id", "id", "reviewId"},
	"text": {"text", "review", "review_text", "content", "comment", "body", "message", "feedback"},
	"date": {"date", "timestamp", "created_at", "createdAt", "time", "review_date"},
	// rating_text first so re-ingested exports restore the original raw value
	"rating": {"rating_text", "rating", "stars", "score", "star_rating"},
}

// derivedAliases are the exporter's columns. When a payload carries them the
// record is restored as already analyzed instead of being run through the
// models again.
var derivedAliases = map[string][]string{
	"sentiment":       {"sentiment", "sentiment_label"},
	"sentiment_score": {"sentiment_score"},
	"topic":           {"topic", "topic_label"},
	"topic_score":     {"topic_score"},
	"topics":          {"topics"},
	"mentions":        {"mentions", "topics_mentioned"},
	"problems":        {"problems", "problem_flags"},
	"suggestions":     {"suggestions", "suggestion_flags"},
	"rating_value":    {"rating"},
	"word_count":      {"word_count"},
	"char_count":      {"char_count"},
	"length":          {"length", "length_category"},
	"status":          {"analysis", "analysis_status"},
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// firstString: first non-empty value for a named alias set, with numbers
// stringified (JSON ratings arrive as float64, ids as float64 or string).
func firstString(m map[string]any, aliases map[string][]string, key string) *string {
	for _, p := range aliases[key] {
		switch v := lookupAny(m, p).(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return &s
			}
		case float64:
			s := strconv.FormatFloat(v, 'f', -1, 64)
			return &s
		case int:
			s := strconv.Itoa(v)
			return &s
		case bool:
			s := strconv.FormatBool(v)
			return &s
		}
	}
	return nil
}

// firstFloat: number from several paths (float64/int/string like "0,9").
func firstFloat(m map[string]any, aliases map[string][]string, key string) *float64 {
	for _, p := range aliases[key] {
		switch v := lookupAny(m, p).(type) {
		case float64:
			f := v
			return &f
		case int:
			f := float64(v)
			return &f
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return &f
			}
		}
	}
	return nil
}

// firstInt: int from several paths (float64/int/string).
func firstInt(m map[string]any, aliases map[string][]string, key string) *int {
	for _, p := range aliases[key] {
		switch v := lookupAny(m, p).(type) {
		case float64:
			n := int(v)
			return &n
		case int:
			n := v
			return &n
		case string:
			s := strings.TrimSpace(v)
			if s == "" {
				continue
			}
			if n, err := strconv.Atoi(s); err == nil {
				return &n
			}
		}
	}
	return nil
}

// firstStrings: accept []any of strings, a pre-joined "a|b" string, or
// []any of {label/category...} maps reduced by pick.
func firstStrings(m map[string]any, aliases map[string][]string, key string) []string {
	for _, p := range aliases[key] {
		switch v := lookupAny(m, p).(type) {
		case []any:
			out := make([]string, 0, len(v))
			for _, it := range v {
				if s, ok := it.(string); ok && s != "" {
					out = append(out, s)
				}
			}
			if len(out) > 0 {
				return out
			}
		case string:
			if out := splitList(v); len(out) > 0 {
				return out
			}
		}
	}
	return nil
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

/********** record mapper **********/

// mapRecord builds one record from a decoded row/object. ordinal is the
// 1-based position in the payload, used to synthesize stable ids.
func mapRecord(m map[string]any, ordinal int) (domain.Record, bool) {
	text := deref(firstString(m, reviewAliases, "text"))
	if text == "" {
		return domain.Record{}, false
	}

	var rec domain.Record
	rec.Text = text
	rec.Source = m

	if s := firstString(m, reviewAliases, "id"); s != nil {
		rec.ID = *s
	} else {
		rec.ID = fmt.Sprintf("R%05d", ordinal)
	}
	rec.Date = firstString(m, reviewAliases, "date")
	rec.RatingRaw = firstString(m, reviewAliases, "rating")

	if a, ok := restoreAnalysis(m); ok {
		rec.Analysis = a
	}
	return rec, true
}

// textRecord wraps a bare line/string as a record.
func textRecord(text string, ordinal int) domain.Record {
	return domain.Record{Review: domain.Review{
		ID:   fmt.Sprintf("R%05d", ordinal),
		Text: text,
	}}
}

/********** derived-field restore (export round trips) **********/

// restoreAnalysis rebuilds the Analysis block when the payload already carries
// derived columns, so export → re-ingest preserves them without model calls.
func restoreAnalysis(m map[string]any) (domain.Analysis, bool) {
	status := strings.ToLower(deref(firstString(m, derivedAliases, "status")))
	sentiment := firstString(m, derivedAliases, "sentiment")
	if status == "" && sentiment == nil {
		return domain.Analysis{}, false
	}

	var a domain.Analysis
	a.Imported = true
	switch status {
	case domain.StatusUnavailable:
		a.Status = domain.StatusUnavailable
	default:
		a.Status = domain.StatusOK
	}

	if sentiment != nil {
		sc := 0.0
		if f := firstFloat(m, derivedAliases, "sentiment_score"); f != nil {
			sc = *f
		}
		a.Sentiment = &domain.Scored{Label: strings.ToLower(*sentiment), Score: sc}
	}
	if topic := firstString(m, derivedAliases, "topic"); topic != nil {
		sc := 0.0
		if f := firstFloat(m, derivedAliases, "topic_score"); f != nil {
			sc = *f
		}
		a.Topic = &domain.Scored{Label: *topic, Score: sc}
	}
	a.Topics = decodeScoredsAny(firstRaw(m, "topics"))
	a.Mentions = firstStrings(m, derivedAliases, "mentions")
	a.Problems = decodeFlagsAny(firstRaw(m, "problems"))
	a.Suggestions = decodeFlagsAny(firstRaw(m, "suggestions"))
	a.Rating = firstFloat(m, derivedAliases, "rating_value")
	if n := firstInt(m, derivedAliases, "word_count"); n != nil {
		a.WordCount = *n
	}
	if n := firstInt(m, derivedAliases, "char_count"); n != nil {
		a.CharCount = *n
	}
	a.Length = deref(firstString(m, derivedAliases, "length"))
	return a, true
}

// firstRaw returns the first raw value for a derived alias set, shape unknown.
func firstRaw(m map[string]any, key string) any {
	for _, p := range derivedAliases[key] {
		if v := lookupAny(m, p); v != nil {
			return v
		}
	}
	return nil
}

// decodeFlagsAny accepts the JSON export shape ([]{category,phrase}) or the
// CSV cell shape ("cat:phrase|cat:phrase").
func decodeFlagsAny(v any) []domain.FlagMatch {
	switch t := v.(type) {
	case []any:
		var out []domain.FlagMatch
		for _, it := range t {
			obj, ok := it.(map[string]any)
			if !ok {
				continue
			}
			cat, _ := obj["category"].(string)
			phrase, _ := obj["phrase"].(string)
			if cat != "" {
				out = append(out, domain.FlagMatch{Category: cat, Phrase: phrase})
			}
		}
		return out
	case string:
		return DecodeFlags(t)
	}
	return nil
}

// decodeScoredsAny accepts []{label,score} or "label:score|label:score".
func decodeScoredsAny(v any) []domain.Scored {
	switch t := v.(type) {
	case []any:
		var out []domain.Scored
		for _, it := range t {
			obj, ok := it.(map[string]any)
			if !ok {
				continue
			}
			label, _ := obj["label"].(string)
			score, _ := obj["score"].(float64)
			if label != "" {
				out = append(out, domain.Scored{Label: label, Score: score})
			}
		}
		return out
	case string:
		return DecodeScoreds(t)
	}
	return nil
}
