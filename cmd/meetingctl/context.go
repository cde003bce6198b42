package main

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-digest/internal/adapter/repository"
	"github.com/johnquangdev/meeting-digest/internal/infrastructure/database"
	"github.com/johnquangdev/meeting-digest/internal/usecase/reconcile"
	"github.com/johnquangdev/meeting-digest/internal/usecase/summarizer"
	"github.com/johnquangdev/meeting-digest/pkg/config"
	pkglogger "github.com/johnquangdev/meeting-digest/pkg/logger"
)

type commandContext struct {
	jsonFlag *bool
	logLevel *string

	configOnce sync.Once
	config     *config.Config
	logger     *zap.Logger
	configErr  error
}

func newCommandContext(jsonFlag *bool, logLevel *string) *commandContext {
	return &commandContext{
		jsonFlag: jsonFlag,
		logLevel: logLevel,
	}
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

func (c *commandContext) ensureConfig() (*config.Config, *zap.Logger, error) {
	c.configOnce.Do(func() {
		cfg, err := config.Load()
		if err != nil {
			c.configErr = err
			return
		}
		level := cfg.Log.Level
		if c.logLevel != nil && *c.logLevel != "" {
			level = *c.logLevel
		}
		logger, err := pkglogger.New(cfg.Server.Environment, level)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.logger = logger
	})
	return c.config, c.logger, c.configErr
}

// openDB connects to the store; callers close it with database.CloseDB
func (c *commandContext) openDB(ctx context.Context) (*gorm.DB, *zap.Logger, error) {
	cfg, logger, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	db, err := database.NewPostgresDB(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return db, logger, nil
}

func (c *commandContext) newReconciler(db *gorm.DB, logger *zap.Logger) *reconcile.Reconciler {
	p := c.config.Pipeline
	sum := summarizer.New(summarizer.Options{MinSentenceLength: p.MinSentenceLength})
	return reconcile.NewReconciler(repository.NewStoreGateway(db, p.StoreTimeout), sum, reconcile.Options{
		Workers:          p.Workers,
		MaxSentences:     p.MaxSentences,
		MaxKeyPoints:     p.MaxKeyPoints,
		CandidateTimeout: p.CandidateTimeout,
	}, logger)
}
