package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/futig/rag-assistant/internal/api"
	pagesapi "github.com/futig/rag-assistant/internal/api/pages"
	queryapi "github.com/futig/rag-assistant/internal/api/query"
	"github.com/futig/rag-assistant/internal/config"
	"github.com/futig/rag-assistant/internal/docset"
	"github.com/futig/rag-assistant/internal/entity"
	"github.com/futig/rag-assistant/internal/integration/rag"
	"github.com/futig/rag-assistant/internal/pkg/markdown"
	"github.com/futig/rag-assistant/internal/pkg/validator"
	"github.com/futig/rag-assistant/internal/session"
	"github.com/futig/rag-assistant/internal/usecase/query"
	"go.uber.org/zap"
)

// serverSlack is added on top of the RAG timeout so a slow answer is still written back
const serverSlack = 15 * time.Second

func Build() (*App, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel, cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	// Initialize external service connector (with mock support)
	var ragConnector query.RagConnector
	if cfg.EnableMocks {
		logger.Info("Using mock connector for the RAG engine")
		ragConnector = rag.NewMockConnector(logger)
	} else {
		logger.Info("Using real connector for the RAG engine", zap.String("url", cfg.RAGConnectorCfg.Url))
		ragConnector = rag.NewConnector(cfg.RAGConnectorCfg, logger)
		waitForRAGEngine(ctx, ragConnector, cfg.RAGConnectorCfg, logger)
	}

	if cfg.DefaultAPIKey == "" {
		logger.Warn("OPENAI_API_KEY is not set; users must provide their own key")
	}

	// Initialize validators and loaders
	v := validator.NewValidator(cfg.FileUploadCfg, cfg.ModelCfg.Models)
	loader := docset.NewLoader(cfg.FileUploadCfg)

	// Initialize use cases
	queryUC := query.NewUsecase(
		ragConnector,
		loader,
		v,
		cfg.DefaultAPIKey,
		logger,
	)
	logger.Info("Use cases initialized")

	sessions := session.NewStore(cfg.SessionCfg, entity.Settings{
		Model:       cfg.ModelCfg.DefaultModel,
		Temperature: cfg.ModelCfg.DefaultTemperature,
		K:           cfg.ModelCfg.DefaultK,
	}, logger)

	// Setup API handlers
	queryHandler := queryapi.NewHandler(queryUC, cfg.ModelCfg, cfg.FileUploadCfg)
	pageHandler, err := pagesapi.NewHandler(queryUC, v, cfg.ModelCfg, cfg.FileUploadCfg, markdown.NewRenderer())
	if err != nil {
		return nil, fmt.Errorf("setup page handler: %w", err)
	}
	logger.Info("API handlers initialized")

	requestTimeout := cfg.RAGConnectorCfg.RequestTimeout + serverSlack

	// Setup router
	router := api.SetupRouter(queryHandler, pageHandler, sessions.Middleware, cfg.CORSAllowedOrigins, requestTimeout, logger)
	logger.Info("HTTP router configured")

	// Create HTTP server
	server := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       2 * time.Minute,
		WriteTimeout:      requestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server:   server,
		sessions: sessions,
		logger:   logger,
	}, nil
}
