package ingest_test

import (
	"errors"
	"testing"

	"github.com/BhushanMasters/AI-Powered-Customer-Review-Insights/internal/domain"
	"github.com/BhushanMasters/AI-Powered-Customer-Review-Insights/internal/ingest"
)

func TestParseJSON(t *testing.T) {
	t.Run("array with aliases", func(t *testing.T) {
		payload := []byte(`[
			{"review_id": "A-1", "content": "Great product", "stars": 5, "created_at": "2024-01-02"},
			{"text": "Too slow", "rating": 2.5},
			{"comment": ""},
			42
		]`)
		res, err := ingest.Parse("reviews.json", payload, ingest.FormatAuto)
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
		if len(res.Records) != 2 || res.Skipped != 2 {
			t.Fatalf("got %d records / %d skipped, want 2 / 2", len(res.Records), res.Skipped)
		}
		r := res.Records[0]
		if r.ID != "A-1" || r.Text != "Great product" {
			t.Fatalf("first record mapped wrong: %+v", r)
		}
		if r.RatingRaw == nil || *r.RatingRaw != "5" {
			t.Fatalf("rating raw = %v, want 5", r.RatingRaw)
		}
		if r.Date == nil || *r.Date != "2024-01-02" {
			t.Fatalf("date = %v", r.Date)
		}
		second := res.Records[1]
		if second.ID != "R00002" {
			t.Fatalf("synthesized id = %q, want R00002", second.ID)
		}
		if second.RatingRaw == nil || *second.RatingRaw != "2.5" {
			t.Fatalf("rating raw = %v, want 2.5", second.RatingRaw)
		}
	})

	t.Run("object with reviews key", func(t *testing.T) {
		res, err := ingest.Parse("x.json", []byte(`{"reviews": [{"review": "fine"}]}`), ingest.FormatAuto)
		if err != nil || len(res.Records) != 1 {
			t.Fatalf("res=%+v err=%v", res, err)
		}
	})

	t.Run("single object", func(t *testing.T) {
		res, err := ingest.Parse("x.json", []byte(`{"text": "just one"}`), ingest.FormatAuto)
		if err != nil || len(res.Records) != 1 {
			t.Fatalf("res=%+v err=%v", res, err)
		}
	})

	t.Run("array of strings", func(t *testing.T) {
		res, err := ingest.Parse("x.json", []byte(`["loved it", "hated it"]`), ingest.FormatAuto)
		if err != nil || len(res.Records) != 2 {
			t.Fatalf("res=%+v err=%v", res, err)
		}
		if res.Records[1].ID != "R00002" {
			t.Fatalf("id = %q", res.Records[1].ID)
		}
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := ingest.Parse("x.json", []byte(`{"reviews": [`), ingest.FormatAuto)
		var fe *domain.FormatError
		if !errors.As(err, &fe) {
			t.Fatalf("err = %v, want FormatError", err)
		}
	})

	t.Run("scalar root", func(t *testing.T) {
		_, err := ingest.Parse("x.json", []byte(`"hello"`), ingest.FormatAuto)
		var fe *domain.FormatError
		if !errors.As(err, &fe) {
			t.Fatalf("err = %v, want FormatError", err)
		}
	})
}

func TestParseCSV(t *testing.T) {
	t.Run("headers with aliases", func(t *testing.T) {
		payload := []byte("Review ID,Review Text,Stars,Date\n7,Nice quality,4,2024-03-01\n8,,5,2024-03-02\n")
		res, err := ingest.Parse("batch.csv", payload, ingest.FormatAuto)
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
		if len(res.Records) != 1 || res.Skipped != 1 {
			t.Fatalf("got %d/%d, want 1 record, 1 skipped", len(res.Records), res.Skipped)
		}
		r := res.Records[0]
		if r.ID != "7" || r.Text != "Nice quality" || r.RatingRaw == nil || *r.RatingRaw != "4" {
			t.Fatalf("record mapped wrong: %+v", r)
		}
	})

	t.Run("semicolon delimiter", func(t *testing.T) {
		res, err := ingest.Parse("batch.csv", []byte("text;rating\nok product;3\n"), ingest.FormatAuto)
		if err != nil || len(res.Records) != 1 {
			t.Fatalf("res=%+v err=%v", res, err)
		}
	})

	t.Run("windows-1252 fallback", func(t *testing.T) {
		payload := []byte("review_id,text\n1,caf\xe9 was great\n")
		res, err := ingest.Parse("legacy.csv", payload, ingest.FormatAuto)
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
		if res.Records[0].Text != "café was great" {
			t.Fatalf("text = %q, want café decoded", res.Records[0].Text)
		}
	})

	t.Run("header only", func(t *testing.T) {
		_, err := ingest.Parse("empty.csv", []byte("text,rating\n"), ingest.FormatAuto)
		var fe *domain.FormatError
		if !errors.As(err, &fe) {
			t.Fatalf("err = %v, want FormatError", err)
		}
	})
}

func TestParseTXT(t *testing.T) {
	payload := []byte("First review line\n\n  Second one  \r\n")
	res, err := ingest.Parse("notes.txt", payload, ingest.FormatAuto)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(res.Records) != 2 {
		t.Fatalf("got %d records, want 2", len(res.Records))
	}
	if res.Records[0].ID != "R00001" || res.Records[1].Text != "Second one" {
		t.Fatalf("records: %+v", res.Records)
	}
}

func TestParseEmpty(t *testing.T) {
	for _, in := range [][]byte{nil, []byte("   \n\t")} {
		_, err := ingest.Parse("x.txt", in, ingest.FormatAuto)
		var fe *domain.FormatError
		if !errors.As(err, &fe) {
			t.Fatalf("err = %v, want FormatError for empty input", err)
		}
	}
}

func TestDetectWithoutExtension(t *testing.T) {
	cases := []struct {
		payload string
		records int
	}{
		{`[{"text":"from pasted json"}]`, 1},
		{"text,rating\npasted csv,4\n", 1},
		{"a plain line of feedback", 1},
	}
	for _, c := range cases {
		res, err := ingest.Parse("upload", []byte(c.payload), ingest.FormatAuto)
		if err != nil {
			t.Fatalf("Parse(%q): %v", c.payload, err)
		}
		if len(res.Records) != c.records {
			t.Fatalf("Parse(%q) = %d records, want %d", c.payload, len(res.Records), c.records)
		}
	}
}

func TestDeclaredFormat(t *testing.T) {
	// a .txt name but declared json must parse as json
	res, err := ingest.Parse("data.txt", []byte(`[{"text":"declared"}]`), ingest.FormatJSON)
	if err != nil || len(res.Records) != 1 {
		t.Fatalf("res=%+v err=%v", res, err)
	}
	if _, err := ingest.ParseFormat("parquet"); err == nil {
		t.Fatalf("want error for unknown format")
	}
}

func TestRestoreDerivedColumns(t *testing.T) {
	t.Run("csv", func(t *testing.T) {
		payload := []byte("review_id,date,rating_text,rating,sentiment,sentiment_score,topic,topic_score,topics,mentions,problems,suggestions,word_count,char_count,length,analysis,text\n" +
			"R00001,2024-01-01,4 stars,4,positive,0.97,delivery,0.88,delivery:0.88|pricing:0.61,app|delivery,battery:battery dies,charging:quick charging,12,65,short,ok,Battery dies fast\n")
		res, err := ingest.Parse("export.csv", payload, ingest.FormatAuto)
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
		a := res.Records[0].Analysis
		if !a.Imported || a.Status != domain.StatusOK {
			t.Fatalf("status/imported wrong: %+v", a)
		}
		if a.Sentiment == nil || a.Sentiment.Label != "positive" || a.Sentiment.Score != 0.97 {
			t.Fatalf("sentiment = %+v", a.Sentiment)
		}
		if a.Topic == nil || a.Topic.Label != "delivery" || len(a.Topics) != 2 {
			t.Fatalf("topic = %+v topics = %+v", a.Topic, a.Topics)
		}
		if len(a.Problems) != 1 || a.Problems[0] != (domain.FlagMatch{Category: "battery", Phrase: "battery dies"}) {
			t.Fatalf("problems = %+v", a.Problems)
		}
		if a.Rating == nil || *a.Rating != 4 || a.WordCount != 12 || a.Length != "short" {
			t.Fatalf("restored fields wrong: %+v", a)
		}
		if res.Records[0].RatingRaw == nil || *res.Records[0].RatingRaw != "4 stars" {
			t.Fatalf("rating_text must win over rating on re-ingest, got %v", res.Records[0].RatingRaw)
		}
	})

	t.Run("json", func(t *testing.T) {
		payload := []byte(`[{
			"review_id": "R00002", "text": "No reply from support",
			"sentiment": "negative", "sentiment_score": 0.91,
			"mentions": ["service"], "problems": [{"category":"support","phrase":"no reply"}],
			"analysis": "ok"
		}]`)
		res, err := ingest.Parse("export.json", payload, ingest.FormatAuto)
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
		a := res.Records[0].Analysis
		if !a.Imported || a.Sentiment == nil || a.Sentiment.Label != "negative" {
			t.Fatalf("analysis = %+v", a)
		}
		if len(a.Problems) != 1 || a.Problems[0].Phrase != "no reply" {
			t.Fatalf("problems = %+v", a.Problems)
		}
	})

	t.Run("unanalyzed payloads stay unanalyzed", func(t *testing.T) {
		res, err := ingest.Parse("x.json", []byte(`[{"text":"plain", "rating": 4}]`), ingest.FormatAuto)
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
		if res.Records[0].Analysis.Imported || res.Records[0].Analysis.Status != "" {
			t.Fatalf("plain record must not restore analysis: %+v", res.Records[0].Analysis)
		}
	})
}
