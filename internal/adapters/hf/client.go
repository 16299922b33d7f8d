// internal/adapters/hf/client.go
package hf

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/BhushanMasters/AI-Powered-Customer-Review-Insights/internal/adapters/observability"
	"github.com/BhushanMasters/AI-Powered-Customer-Review-Insights/internal/domain"
)

// Client speaks the Hugging Face Inference API wire format. One client serves
// both the sentiment model and the zero-shot topic model.
type Client struct {
	base           string
	hc             *http.Client
	token          string
	rl             *rate.Limiter
	sentimentModel string
	topicModel     string
}

func New(base, token string, rps int, sentimentModel, topicModel string) (*Client, error) {
	if base == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if sentimentModel == "" || topicModel == "" {
		return nil, fmt.Errorf("model ids are required")
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base:           strings.TrimRight(base, "/"),
		hc:             &http.Client{Timeout: 30 * time.Second},
		token:          token,
		rl:             rate.NewLimiter(rate.Limit(rps), rps),
		sentimentModel: sentimentModel,
		topicModel:     topicModel,
	}, nil
}

// ---- Wire DTOs ----

type request struct {
	Inputs     string      `json:"inputs"`
	Parameters *parameters `json:"parameters,omitempty"`
	Options    options     `json:"options"`
}

type parameters struct {
	CandidateLabels []string `json:"candidate_labels"`
	MultiLabel      bool     `json:"multi_label"`
}

type options struct {
	WaitForModel bool `json:"wait_for_model"`
	UseCache     bool `json:"use_cache"`
}

type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

type zeroShotResponse struct {
	Labels []string  `json:"labels"`
	Scores []float64 `json:"scores"`
}

// ---- Public API ----

// Sentiment classifies text and returns the winning label with its score.
// Responses typically arrive as [[{label,score},...]]; some deployments
// flatten the outer array.
func (c *Client) Sentiment(ctx context.Context, text string) (domain.Scored, error) {
	body, err := c.post(ctx, c.sentimentModel, request{Inputs: text, Options: options{WaitForModel: true, UseCache: true}})
	if err != nil {
		return domain.Scored{}, err
	}
	var nested [][]labelScore
	if err := json.Unmarshal(body, &nested); err == nil && len(nested) > 0 && len(nested[0]) > 0 {
		return best(nested[0]), nil
	}
	var flat []labelScore
	if err := json.Unmarshal(body, &flat); err == nil && len(flat) > 0 {
		return best(flat), nil
	}
	return domain.Scored{}, fmt.Errorf("hf: unexpected sentiment response: %s", snippet(body))
}

// ZeroShot classifies text against candidate labels, multi-label, and returns
// every label sorted by score descending.
func (c *Client) ZeroShot(ctx context.Context, text string, labels []string) ([]domain.Scored, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("hf: no candidate labels")
	}
	body, err := c.post(ctx, c.topicModel, request{
		Inputs:     text,
		Parameters: &parameters{CandidateLabels: labels, MultiLabel: true},
		Options:    options{WaitForModel: true, UseCache: true},
	})
	if err != nil {
		return nil, err
	}
	var out zeroShotResponse
	if err := json.Unmarshal(body, &out); err != nil || len(out.Labels) == 0 || len(out.Labels) != len(out.Scores) {
		return nil, fmt.Errorf("hf: unexpected zero-shot response: %s", snippet(body))
	}
	ss := make([]domain.Scored, len(out.Labels))
	for i := range out.Labels {
		ss[i] = domain.Scored{Label: out.Labels[i], Score: out.Scores[i]}
	}
	sort.SliceStable(ss, func(i, j int) bool { return ss[i].Score > ss[j].Score })
	return ss, nil
}

func best(ls []labelScore) domain.Scored {
	top := ls[0]
	for _, l := range ls[1:] {
		if l.Score > top.Score {
			top = l
		}
	}
	return domain.Scored{Label: canonicalLabel(top.Label), Score: top.Score}
}

// canonicalLabel folds model-specific sentiment vocabularies (LABEL_0 style,
// case variants) onto negative/neutral/positive.
func canonicalLabel(s string) string {
	switch l := strings.ToLower(strings.TrimSpace(s)); l {
	case "label_0", "neg":
		return "negative"
	case "label_1":
		return "neutral"
	case "label_2", "pos":
		return "positive"
	default:
		return l
	}
}

// ---- Internals ----

var (
	ErrUnauthorized  = errors.New("hf: unauthorized")
	ErrForbidden     = errors.New("hf: forbidden")
	ErrModelNotFound = errors.New("hf: model not found")
)

// maxLoadingWait caps how long a cold model's estimated_time may hold one retry.
const maxLoadingWait = 20 * time.Second

// post sends one inference request with client-side rate limiting, retries and
// JSON body capture. Retries cover 429 and transient 5xx, honoring Retry-After
// and the estimated_time a loading model reports.
func (c *Client) post(ctx context.Context, model string, reqBody request) ([]byte, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return nil, err
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}
	url := c.base + "/models/" + model

	var lastErr error
	for i := 0; i < 4; i++ {
		// build a fresh request each attempt
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "review-insights/1.0")
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			observability.ObserveExternal("hf", model, 0, time.Since(start))
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			if i < 3 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, lastErr
		}
		observability.ObserveExternal("hf", model, resp.StatusCode, time.Since(start))

		switch resp.StatusCode {
		case http.StatusOK:
			b, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
			resp.Body.Close()
			return b, err

		case http.StatusUnauthorized:
			resp.Body.Close()
			return nil, ErrUnauthorized

		case http.StatusForbidden:
			resp.Body.Close()
			return nil, ErrForbidden

		case http.StatusNotFound:
			resp.Body.Close()
			return nil, ErrModelNotFound

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			// Prefer Retry-After, then a loading model's estimated_time,
			// then exponential backoff.
			wait := retryAfter(resp)
			if wait == 0 {
				wait = loadingWait(b)
			}
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("hf: remote %d: %s", resp.StatusCode, snippet(b))
			if i < 3 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return nil, fmt.Errorf("hf: bad status %d: %s", resp.StatusCode, snippet(b))
		}
	}

	return nil, lastErr
}

// loadingWait parses the {"error": ..., "estimated_time": seconds} body a cold
// model returns alongside 503.
func loadingWait(b []byte) time.Duration {
	var body struct {
		EstimatedTime float64 `json:"estimated_time"`
	}
	if err := json.Unmarshal(b, &body); err != nil || body.EstimatedTime <= 0 {
		return 0
	}
	d := time.Duration(body.EstimatedTime * float64(time.Second))
	if d > maxLoadingWait {
		d = maxLoadingWait
	}
	return d
}

func snippet(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff returns an exponential delay (200ms, 400ms, 800ms...) with up to
// +50% jitter from crypto/rand.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	j := time.Duration(0.5 * f * float64(base))
	return base + j
}
