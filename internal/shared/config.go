package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string

	HFBase         string
	HFToken        string
	HFDisabled     bool
	SentimentModel string
	TopicModel     string
	TopicLabels    []string
	TopicMinScore  float64
	InferenceRPS   int

	LexiconPath string

	RedisAddr string
	RedisPass string
	RedisDB   int
	CacheTTL  time.Duration

	MaxUploadBytes int64
	MaxDatasets    int
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	afloat := func(k string, def float64) float64 {
		if v := os.Getenv(k); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f
			}
		}
		return def
	}
	abool := func(k string, def bool) bool {
		if v := os.Getenv(k); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				return b
			}
		}
		return def
	}

	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ""),

		HFBase:         env("HF_BASE_URL", "https://api-inference.huggingface.co"),
		HFToken:        env("HF_API_TOKEN", ""),
		HFDisabled:     abool("HF_DISABLED", false),
		SentimentModel: env("SENTIMENT_MODEL", "cardiffnlp/twitter-roberta-base-sentiment-latest"),
		TopicModel:     env("TOPIC_MODEL", "facebook/bart-large-mnli"),
		TopicLabels: splitLabels(env("TOPIC_LABELS",
			"delivery, product quality, customer service, pricing, payment, app experience, shipping, returns")),
		TopicMinScore: afloat("TOPIC_MIN_SCORE", 0.5),
		InferenceRPS:  atoi("INFERENCE_RPS", 5),

		LexiconPath: env("LEXICON_PATH", ""),

		RedisAddr: env("REDIS_ADDR", ""),
		RedisPass: env("REDIS_PASSWORD", ""),
		RedisDB:   atoi("REDIS_DB", 0),
		CacheTTL:  time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,

		MaxUploadBytes: int64(atoi("MAX_UPLOAD_BYTES", 8<<20)),
		MaxDatasets:    atoi("MAX_DATASETS", 16),
	}
	if !c.HFDisabled && c.HFToken == "" {
		log.Warn().Msg("HF_API_TOKEN is empty, anonymous Inference API rate limits apply")
	}
	return c
}

// ModelVersion fingerprints the model setup; cached inference entries are
// keyed on it so a config change never replays stale results.
func (c Config) ModelVersion() string {
	return c.SentimentModel + "|" + c.TopicModel
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func splitLabels(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
