package svc

import (
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx driver
	"github.com/zeromicro/go-zero/core/stores/cache"
	"github.com/zeromicro/go-zero/core/stores/sqlx"
	"github.com/zeromicro/go-zero/core/syncx"

	cacheutil "sigsim-api/internal/cache"
	"sigsim-api/internal/config"
	"sigsim-api/internal/repo"
	"sigsim-api/pkg/backtest"
	"sigsim-api/pkg/confkit"
	extractorpkg "sigsim-api/pkg/extractor"
	"sigsim-api/pkg/journal"
	llmpkg "sigsim-api/pkg/llm"
	pricespkg "sigsim-api/pkg/prices"
	scraperpkg "sigsim-api/pkg/scraper"
)

type ServiceContext struct {
	Config config.Config

	LLMConfig *llmpkg.Config
	LLM       llmpkg.LLMClient

	ExtractorConfig *extractorpkg.Config
	Extractor       extractorpkg.Extractor
	PromptDigest    string

	ScraperConfig *scraperpkg.Config
	Tweets        scraperpkg.Source

	PricesConfig *pricespkg.Config
	Prices       pricespkg.Provider

	Engine  *backtest.Engine
	Journal *journal.Writer

	// Optional storage; nil when Postgres is not configured.
	DBConn sqlx.SqlConn
	Cache  cache.Cache
	Repo   *repo.Set
}

func NewServiceContext(c config.Config) *ServiceContext {
	svc := &ServiceContext{
		Config:  c,
		Journal: journal.NewWriter(c.DataPath),
	}

	if c.LLM.Value != nil {
		llmCfg := c.LLM.Value
		// Test environment prefers the low-cost model.
		if c.IsTestEnv() {
			llmCfg.DefaultModel = "openai/gpt-4o-mini"
		}
		client, err := llmpkg.NewClient(llmCfg)
		if err != nil {
			log.Fatalf("failed to init llm client: %v", err)
		}
		svc.LLMConfig = llmCfg
		svc.LLM = client
	}

	if c.Extractor.Value != nil {
		if svc.LLM == nil {
			log.Fatalf("extractor config requires an llm section")
		}
		extractorCfg := c.Extractor.Value
		templatePath := confkit.ResolvePath(c.BaseDir(), extractorCfg.PromptTemplate)
		ext, err := extractorpkg.NewExtractor(extractorCfg, svc.LLM, templatePath)
		if err != nil {
			log.Fatalf("failed to init extractor: %v", err)
		}
		svc.ExtractorConfig = extractorCfg
		svc.Extractor = ext
		svc.PromptDigest = ext.Digest()
	}

	if c.Scraper.Value != nil {
		scraperCfg := c.Scraper.Value
		// Test environment never talks to the real timeline API.
		if c.IsTestEnv() {
			scraperCfg.Source = "mock"
		}
		source, err := scraperpkg.New(scraperCfg)
		if err != nil {
			log.Fatalf("failed to init tweet source: %v", err)
		}
		svc.ScraperConfig = scraperCfg
		svc.Tweets = source
	}

	if c.Prices.Value != nil {
		pricesCfg := c.Prices.Value
		if c.IsTestEnv() {
			pricesCfg.Provider = "mock"
		}
		provider, err := pricespkg.New(pricesCfg)
		if err != nil {
			log.Fatalf("failed to init price provider: %v", err)
		}
		svc.PricesConfig = pricesCfg
		svc.Prices = provider

		engine, err := backtest.NewEngine(provider,
			backtest.WithCapital(c.Simulation.InitialCapital),
			backtest.WithWindow(time.Duration(c.Simulation.WindowHours)*time.Hour),
			backtest.WithStep(time.Duration(c.Simulation.StepMinutes)*time.Minute),
		)
		if err != nil {
			log.Fatalf("failed to init simulation engine: %v", err)
		}
		svc.Engine = engine
	}

	// Only inject storage when DSN provided; handlers stay usable without it.
	if c.Postgres.DSN != "" {
		conn := sqlx.NewSqlConn("pgx", c.Postgres.DSN)
		svc.DBConn = conn

		if c.Redis.Host != "" {
			svc.Cache = cache.New(
				cache.ClusterConf{{RedisConf: c.Redis, Weight: 100}},
				syncx.NewSingleFlight(),
				cache.NewStat(cacheutil.Namespace),
				sqlx.ErrNotFound,
			)
		}

		set, err := repo.New(repo.Dependencies{
			DBConn: conn,
			Cache:  svc.Cache,
			TTL:    cacheutil.NewTTLSet(c.TTL),
		})
		if err != nil {
			log.Fatalf("failed to init repositories: %v", err)
		}
		svc.Repo = set
	}

	return svc
}
