package main

import (
	"context"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/BhushanMasters/AI-Powered-Customer-Review-Insights/internal/adapters/hf"
	"github.com/BhushanMasters/AI-Powered-Customer-Review-Insights/internal/adapters/memcache"
	"github.com/BhushanMasters/AI-Powered-Customer-Review-Insights/internal/adapters/observability"
	redisad "github.com/BhushanMasters/AI-Powered-Customer-Review-Insights/internal/adapters/redis"
	"github.com/BhushanMasters/AI-Powered-Customer-Review-Insights/internal/app"
	"github.com/BhushanMasters/AI-Powered-Customer-Review-Insights/internal/domain"
	"github.com/BhushanMasters/AI-Powered-Customer-Review-Insights/internal/export"
	"github.com/BhushanMasters/AI-Powered-Customer-Review-Insights/internal/ingest"
	"github.com/BhushanMasters/AI-Powered-Customer-Review-Insights/internal/lexicon"
	"github.com/BhushanMasters/AI-Powered-Customer-Review-Insights/internal/shared"
	"github.com/BhushanMasters/AI-Powered-Customer-Review-Insights/internal/store/memstore"
)

// analyze runs the same pipeline as the dashboard over a local file and writes
// the analyzed dataset to stdout or -out. Handy for batch jobs and cron.
func main() {
	var (
		inPath  = flag.String("in", "", "input reviews file (json, csv or txt)")
		inFmt   = flag.String("format", "", "input format override: json, csv or txt (default: detect)")
		outPath = flag.String("out", "", "output file, .json for JSON, anything else CSV (default: stdout CSV)")
		force   = flag.Bool("force", false, "recompute rows imported from an earlier export")
	)
	flag.Parse()

	ctx := context.Background()
	cfg := shared.Load()

	// initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	if *inPath == "" {
		flag.Usage()
		log.Fatal().Msg("-in is required")
	}

	log.Info().
		Str("in", *inPath).
		Str("sentiment_model", cfg.SentimentModel).
		Str("topic_model", cfg.TopicModel).
		Msg("analyze starting")

	data, err := os.ReadFile(*inPath)
	if err != nil {
		log.Fatal().Err(err).Msg("read input failed")
	}
	format, err := ingest.ParseFormat(*inFmt)
	if err != nil {
		log.Fatal().Err(err).Msg("bad -format")
	}

	lex, err := lexicon.Load(cfg.LexiconPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.LexiconPath).Msg("lexicon load failed")
	}

	var models domain.InferenceClient
	if cfg.HFDisabled {
		log.Warn().Msg("inference disabled, output carries heuristics only")
	} else {
		client, err := hf.New(cfg.HFBase, cfg.HFToken, cfg.InferenceRPS, cfg.SentimentModel, cfg.TopicModel)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize inference client")
		}
		models = client
	}

	// With Redis configured, repeat runs over the same file reuse cached model
	// results instead of calling the Inference API again.
	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err := rc.Ping(ctx); err != nil {
			log.Fatal().Err(err).Msg("redis ping failed")
		}
		cache = rc
	} else {
		cache = memcache.New()
	}

	st := memstore.New(1)
	svc := app.NewAnalysisService(models, st, lex, cache, cfg.CacheTTL,
		cfg.TopicLabels, cfg.TopicMinScore, cfg.ModelVersion())

	ds, skipped, err := svc.CreateDataset(ctx, filepath.Base(*inPath), data, format)
	if err != nil {
		log.Fatal().Err(err).Msg("analysis failed")
	}
	if *force {
		if ds, err = svc.Reanalyze(ctx, ds.ID, true); err != nil {
			log.Fatal().Err(err).Msg("forced reanalysis failed")
		}
	}

	var out io.Writer = os.Stdout
	asJSON := false
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			log.Fatal().Err(err).Msg("create output failed")
		}
		defer f.Close()
		out = f
		asJSON = strings.EqualFold(filepath.Ext(*outPath), ".json")
	}
	if asJSON {
		err = export.JSON(out, ds)
	} else {
		err = export.CSV(out, ds)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("write output failed")
	}

	unavailable := 0
	for _, r := range ds.Records {
		if r.Analysis.Status == domain.StatusUnavailable {
			unavailable++
		}
	}
	log.Info().
		Int("records", len(ds.Records)).
		Int("skipped", skipped).
		Int("unavailable", unavailable).
		Msg("analysis completed")
}
