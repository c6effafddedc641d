package builder

import (
	"context"

	"github.com/futig/rag-assistant/internal/config"
	pkgRetry "github.com/futig/rag-assistant/internal/pkg/retry"
	"go.uber.org/zap"
)

type healthChecker interface {
	Health(ctx context.Context) error
}

// waitForRAGEngine polls the engine health endpoint with backoff. The
// server starts either way; queries fail with a service error until the
// engine is reachable.
func waitForRAGEngine(ctx context.Context, checker healthChecker, cfg config.RAGConnectorConfig, logger *zap.Logger) bool {
	err := pkgRetry.Do(ctx, &cfg.Probe,
		func() error { return checker.Health(ctx) },
		func(attempt uint, err error) {
			logger.Warn("RAG engine not ready",
				zap.Uint("attempt", attempt+1),
				zap.String("url", cfg.Url),
				zap.Error(err),
			)
		},
	)
	if err != nil {
		logger.Warn("RAG engine unreachable, starting anyway", zap.String("url", cfg.Url), zap.Error(err))
		return false
	}

	logger.Info("RAG engine is ready", zap.String("url", cfg.Url))
	return true
}
