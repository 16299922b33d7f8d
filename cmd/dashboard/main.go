package main

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/BhushanMasters/AI-Powered-Customer-Review-Insights/internal/adapters/hf"
	server "github.com/BhushanMasters/AI-Powered-Customer-Review-Insights/internal/adapters/http_server"
	"github.com/BhushanMasters/AI-Powered-Customer-Review-Insights/internal/adapters/memcache"
	"github.com/BhushanMasters/AI-Powered-Customer-Review-Insights/internal/adapters/observability"
	redisad "github.com/BhushanMasters/AI-Powered-Customer-Review-Insights/internal/adapters/redis"
	"github.com/BhushanMasters/AI-Powered-Customer-Review-Insights/internal/app"
	"github.com/BhushanMasters/AI-Powered-Customer-Review-Insights/internal/domain"
	"github.com/BhushanMasters/AI-Powered-Customer-Review-Insights/internal/lexicon"
	"github.com/BhushanMasters/AI-Powered-Customer-Review-Insights/internal/shared"
	"github.com/BhushanMasters/AI-Powered-Customer-Review-Insights/internal/store/memstore"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	lex, err := lexicon.Load(cfg.LexiconPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.LexiconPath).Msg("lexicon load failed")
	}

	var models domain.InferenceClient
	if cfg.HFDisabled {
		log.Warn().Msg("inference disabled, uploads get heuristics only")
	} else {
		client, err := hf.New(cfg.HFBase, cfg.HFToken, cfg.InferenceRPS, cfg.SentimentModel, cfg.TopicModel)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize inference client")
		}
		models = client
	}

	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err := rc.Ping(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("redis ping failed")
		}
		log.Info().Str("addr", cfg.RedisAddr).Msg("redis connection ok")
		cache = rc
	} else {
		cache = memcache.New()
	}

	// deps
	st := memstore.New(cfg.MaxDatasets)
	a := app.NewAnalysisService(models, st, lex, cache, cfg.CacheTTL,
		cfg.TopicLabels, cfg.TopicMinScore, cfg.ModelVersion())
	q := app.NewQueryService(st, cache, cfg.CacheTTL)

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{A: a, Q: q, MaxUpload: cfg.MaxUploadBytes})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("dashboard listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
