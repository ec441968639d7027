package app

import (
	"context"
	"fmt"
	"log"

	"riskprotocol/internal/gateway/config"
	"riskprotocol/internal/gateway/handler"
	"riskprotocol/internal/gateway/repository/drive"
	"riskprotocol/internal/gateway/server"
	"riskprotocol/internal/gateway/service/form"
	"riskprotocol/internal/llm"
)

type App struct {
	server    *server.Server
	llmClient llm.Client
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	llmClient, err := newLLMClient(ctx, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to init llm client: %w", err)
	}
	log.Printf("LLM provider: %s", llmClient.Name())

	driveStore := drive.NewS3Store(drive.S3Config{
		Endpoint:  cfg.Drive.Endpoint,
		Region:    cfg.Drive.Region,
		AccessKey: cfg.Drive.AccessKey,
		SecretKey: cfg.Drive.SecretKey,
		Bucket:    cfg.Drive.Bucket,
		Folder:    cfg.Drive.Folder,
		UseSSL:    cfg.Drive.UseSSL,
	})

	formSvc := form.New(llmClient, driveStore, cfg.Share.WhatsAppNumber)

	protocolHandler := handler.NewProtocolHandler(formSvc)
	driveHandler := handler.NewDriveHandler(driveStore)
	eventsHandler := handler.NewEventsHandler(formSvc)
	formSvc.SetNotify(eventsHandler.Broadcast)

	mux := server.NewMux(protocolHandler, driveHandler, eventsHandler)
	srv := server.New(cfg.Port, mux)

	return &App{
		server:    srv,
		llmClient: llmClient,
	}, nil
}

func newLLMClient(ctx context.Context, cfg config.LLMConfig) (llm.Client, error) {
	if cfg.Provider == "fake" {
		return llm.NewFakeClient(), nil
	}
	return llm.NewGeminiClient(ctx, cfg.APIKey, cfg.Model)
}

func (a *App) Start() error {
	return a.server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	if err := a.llmClient.Close(); err != nil {
		log.Printf("close llm client: %v", err)
	}
	return a.server.Shutdown(ctx)
}
