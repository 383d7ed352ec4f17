package bootstrap

import (
	"go.uber.org/zap"

	"homevoice/internal/config"
	"homevoice/internal/ports"
	"homevoice/internal/providers/assistant"
	"homevoice/internal/providers/speech"
	"homevoice/internal/usecase"
)

// Services is the assembled runtime graph.
type Services struct {
	Coordinator      *usecase.Coordinator
	Assistant        *assistant.Client
	Logger           *zap.Logger
	Config           config.Config
	CaptureAvailable bool
}

// Build wires all backend dependencies for the current runtime.
func Build(eventSink ports.EventSink) (Services, error) {
	cfg, err := config.Load()
	if err != nil {
		return Services{}, err
	}

	logger, err := newLogger(cfg.Debug)
	if err != nil {
		return Services{}, err
	}

	client := assistant.NewClient(assistant.Config{
		BaseURL: cfg.Assistant.BaseURL,
		APIKey:  cfg.Assistant.APIKey,
		Timeout: cfg.Assistant.Timeout,
	}, logger)

	engine := speech.NewEngine(speech.Config{
		GatewayURL: cfg.Speech.GatewayURL,
		APIKey:     cfg.Speech.APIKey,
		Language:   cfg.Speech.Language,
	})

	coordinator := usecase.NewCoordinator(
		engine,
		client,
		client.Inventory(),
		client.Habits(),
		eventSink,
		logger,
		usecase.Config{
			Recognition: ports.RecognitionConfig{
				Language:       cfg.Speech.Language,
				InterimResults: true,
			},
			CaptureTimeout:   cfg.Session.CaptureTimeout,
			CountdownSeconds: cfg.Session.CountdownSeconds,
			TickInterval:     cfg.Session.TickInterval,
		},
	)

	return Services{
		Coordinator:      coordinator,
		Assistant:        client,
		Logger:           logger,
		Config:           cfg,
		CaptureAvailable: engine.Available(),
	}, nil
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
