package hf_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/BhushanMasters/AI-Powered-Customer-Review-Insights/internal/adapters/hf"
)

const (
	sentModel  = "cardiffnlp/twitter-roberta-base-sentiment-latest"
	topicModel = "facebook/bart-large-mnli"
)

func newClient(t *testing.T, url string) *hf.Client {
	t.Helper()
	cl, err := hf.New(url, "test-token", 100, sentModel, topicModel) // high RPS for tests
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	return cl
}

func TestClient_Sentiment_RetriesThenSuccess(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch atomic.AddInt32(&hits, 1) {
		case 1, 2:
			// two transient failures
			w.WriteHeader(500)
		default:
			w.WriteHeader(200)
			_ = json.NewEncoder(w).Encode([][]map[string]any{{
				{"label": "LABEL_2", "score": 0.9123},
				{"label": "LABEL_0", "score": 0.05},
			}})
		}
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	got, err := newClient(t, ts.URL).Sentiment(ctx, "works great")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Label != "positive" || got.Score != 0.9123 {
		t.Fatalf("unexpected result: %+v", got)
	}
	if atomic.LoadInt32(&hits) < 3 {
		t.Fatalf("expected at least 3 calls due to retries, got %d", hits)
	}
}

func TestClient_Sentiment_ModelLoading(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			w.WriteHeader(503)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": "Model is currently loading", "estimated_time": 0.01,
			})
			return
		}
		w.WriteHeader(200)
		_ = json.NewEncoder(w).Encode([]map[string]any{{"label": "neutral", "score": 0.6}})
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	got, err := newClient(t, ts.URL).Sentiment(ctx, "it is fine")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Label != "neutral" {
		t.Fatalf("unexpected result: %+v", got)
	}
	if atomic.LoadInt32(&hits) != 2 {
		t.Fatalf("expected a retry after the loading response, got %d hits", hits)
	}
}

func TestClient_ZeroShot(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/"+topicModel {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req struct {
			Inputs     string `json:"inputs"`
			Parameters struct {
				CandidateLabels []string `json:"candidate_labels"`
				MultiLabel      bool     `json:"multi_label"`
			} `json:"parameters"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Parameters.CandidateLabels) != 2 || !req.Parameters.MultiLabel {
			t.Errorf("unexpected parameters: %+v", req.Parameters)
		}
		w.WriteHeader(200)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"sequence": req.Inputs,
			"labels":   []string{"pricing", "delivery"},
			"scores":   []float64{0.2, 0.8},
		})
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	got, err := newClient(t, ts.URL).ZeroShot(ctx, "arrived a week late", []string{"delivery", "pricing"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 2 || got[0].Label != "delivery" || got[0].Score != 0.8 {
		t.Fatalf("expected results sorted by score, got %+v", got)
	}
}

func TestClient_ModelNotFound(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := newClient(t, ts.URL).Sentiment(ctx, "anything")
	if !errors.Is(err, hf.ErrModelNotFound) {
		t.Fatalf("err = %v, want ErrModelNotFound", err)
	}
}

func TestClient_Unauthorized(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(401)
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := newClient(t, ts.URL).ZeroShot(ctx, "anything", []string{"a"})
	if !errors.Is(err, hf.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}
