// Package main provides the StatForge Telnet server. Each connection gets a
// private ability-score generation session.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/statforge/internal/config"
	"github.com/cory-johannsen/statforge/internal/frontend/handlers"
	"github.com/cory-johannsen/statforge/internal/frontend/telnet"
	"github.com/cory-johannsen/statforge/internal/game/analysis"
	"github.com/cory-johannsen/statforge/internal/game/dice"
	"github.com/cory-johannsen/statforge/internal/game/ruleset"
	"github.com/cory-johannsen/statforge/internal/observability"
	"github.com/cory-johannsen/statforge/internal/scripting"
	"github.com/cory-johannsen/statforge/internal/server"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "config.yaml", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting StatForge",
		zap.String("telnet_addr", cfg.Telnet.Addr()),
	)

	// Load content
	abilities := ruleset.DefaultAbilities()
	if cfg.Game.AbilitiesDir != "" {
		abilities, err = ruleset.LoadAbilities(cfg.Game.AbilitiesDir)
		if err != nil {
			logger.Fatal("loading abilities", zap.Error(err))
		}
	}
	tiers := analysis.DefaultTiers()
	if cfg.Game.TiersPath != "" {
		tiers, err = analysis.LoadTiers(cfg.Game.TiersPath)
		if err != nil {
			logger.Fatal("loading tiers", zap.Error(err))
		}
	}
	logger.Info("content loaded",
		zap.Int("abilities", len(abilities)),
		zap.Int("tiers", len(tiers)),
	)

	engine, err := analysis.NewEngine(tiers, logger)
	if err != nil {
		logger.Fatal("building analysis engine", zap.Error(err))
	}

	// Optional Lua recommendation override
	if cfg.Game.RecommendScript != "" {
		recommender, err := scripting.LoadRecommender(cfg.Game.RecommendScript, logger)
		if err != nil {
			logger.Fatal("loading recommend script", zap.Error(err))
		}
		defer recommender.Close()
		engine.SetRecommender(recommender.Recommend)
		logger.Info("recommend script loaded",
			zap.String("path", cfg.Game.RecommendScript),
		)
	}

	// Build services
	handler := handlers.NewStatHandler(cfg.Game, abilities, engine, dice.NewCryptoSource(), logger)
	telnetAcceptor := telnet.NewAcceptor(cfg.Telnet, handler, logger)

	// Wire lifecycle
	lifecycle := server.NewLifecycle(logger)
	lifecycle.Add("telnet", &server.FuncService{
		StartFn: func() error {
			return telnetAcceptor.ListenAndServe()
		},
		StopFn: func() {
			telnetAcceptor.Stop()
		},
	})

	logger.Info("server initialized",
		zap.Duration("startup", time.Since(start)),
	)

	if err := lifecycle.Run(context.Background()); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
