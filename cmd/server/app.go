package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/go-redis/redis/v8"

	"github.com/agrinathi/agrinathi-api/internal/api"
	"github.com/agrinathi/agrinathi-api/internal/config"
	"github.com/agrinathi/agrinathi-api/internal/events"
	"github.com/agrinathi/agrinathi-api/internal/knowledge"
	"github.com/agrinathi/agrinathi-api/internal/metrics"
	"github.com/agrinathi/agrinathi-api/internal/platform/gemini"
	"github.com/agrinathi/agrinathi-api/internal/platform/googlecloud"
	"github.com/agrinathi/agrinathi-api/internal/platform/influx"
	"github.com/agrinathi/agrinathi-api/internal/platform/mqtt"
	"github.com/agrinathi/agrinathi-api/internal/platform/openweather"
	"github.com/agrinathi/agrinathi-api/internal/platform/postgres"
	"github.com/agrinathi/agrinathi-api/internal/platform/rediscache"
	"github.com/agrinathi/agrinathi-api/internal/redact"
	"github.com/agrinathi/agrinathi-api/internal/resilience"
	"github.com/agrinathi/agrinathi-api/internal/service"
	"github.com/agrinathi/agrinathi-api/internal/service/auth"
	"github.com/agrinathi/agrinathi-api/internal/speech"
	"github.com/agrinathi/agrinathi-api/internal/store"
	"github.com/agrinathi/agrinathi-api/internal/task"
	"github.com/agrinathi/agrinathi-api/internal/weather"
)

// weatherCachePrefix namespaces weather entries in a shared Redis.
const weatherCachePrefix = "agrinathi:weather"

// application holds the shared dependencies and owns their shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores
	farmerStore store.FarmerStore
	queryStore  store.QueryStore
	scanStore   store.ScanStore
	taskStore   task.TaskStore

	// Auth
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier

	// Services
	voiceService  service.VoiceService
	scanService   service.ScanService
	adminService  service.AdminService
	weather       api.WeatherService
	knowledgeBase api.KnowledgeSearcher

	metrics      *metrics.Metrics
	eventEmitter *events.InMemoryEventEmitter
	taskRunner   *task.TaskRunner

	// Optional backends, nil when not configured
	redis  *redis.Client
	influx *influx.Client
	mqtt   paho.Client
}

// newApplication wires every component on top of an open database.
// Optional backends that are configured but unreachable are logged and
// skipped so the API can still serve degraded answers. On error the
// optional backends are closed again; the database stays with the caller.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (_ *application, err error) {
	app := &application{
		config:  cfg,
		logger:  logger,
		db:      db,
		metrics: metrics.New(),
	}
	defer func() {
		if err != nil {
			app.closeBackends()
		}
	}()

	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)
	app.passwordVerifier = auth.NewBcryptVerifier()

	app.farmerStore = postgres.NewPostgresFarmerStore(db, cfg.Auth.BCryptCost)
	app.queryStore = postgres.NewPostgresQueryStore(db)
	app.scanStore = postgres.NewPostgresScanStore(db)
	app.taskStore = postgres.NewPostgresTaskStore(db)

	app.eventEmitter = events.NewInMemoryEventEmitter(logger)
	app.connectOptionalBackends(ctx)

	kb, err := knowledge.Load(cfg.Knowledge.ExtraDataPath, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load knowledge base: %w", err)
	}
	app.knowledgeBase = kb
	generator := knowledge.NewGenerator(nil)

	app.weather = app.newWeatherService()

	speechSvc, err := app.newSpeechService(ctx)
	if err != nil {
		return nil, err
	}

	advice := service.NewAdviceService(kb, generator, logger)
	app.voiceService = service.NewVoiceService(
		speechSvc,
		advice,
		generator,
		app.queryStore,
		app.eventEmitter,
		app.metrics,
		logger,
	)

	diagnoser, err := gemini.NewDiagnoser(ctx, cfg.LLM, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize plant diagnoser: %w", err)
	}
	logger.Info("plant diagnoser initialized", "model", cfg.LLM.ModelName)

	scans := service.NewScanService(
		app.scanStore,
		diagnoser,
		app.newGuard("gemini"),
		kb,
		app.eventEmitter,
		app.metrics,
		logger,
	)
	app.scanService = scans

	var trends store.TrendStore
	if app.influx != nil {
		trends = app.influx.Trends
	}
	app.adminService = service.NewAdminService(
		app.farmerStore,
		app.queryStore,
		app.scanStore,
		trends,
		db,
		cfg.Server.MaxUploadSize,
		logger,
	)

	app.taskRunner, err = setupTaskRunner(ctx, app, scans)
	if err != nil {
		return nil, fmt.Errorf("failed to setup task runner: %w", err)
	}
	app.eventEmitter.RegisterHandler(task.NewScanEventHandler(scans, app.taskRunner, logger))

	logger.Info("Application initialized successfully")
	return app, nil
}

// connectOptionalBackends attaches Redis, InfluxDB and MQTT when configured.
func (app *application) connectOptionalBackends(ctx context.Context) {
	cfg := app.config

	if cfg.Redis.Addr != "" {
		client, err := rediscache.NewClient(ctx, cfg.Redis)
		if err != nil {
			app.logger.Warn("weather cache disabled", "error", err)
		} else {
			app.redis = client
		}
	}

	if cfg.Influx.URL != "" {
		client, err := influx.Open(ctx, cfg.Influx, app.logger)
		if err != nil {
			app.logger.Warn("query analytics disabled", "error", err)
		} else {
			app.influx = client
			app.eventEmitter.RegisterHandler(client.Recorder)
		}
	}

	if cfg.MQTT.Broker != "" {
		client, err := mqtt.Connect(ctx, cfg.MQTT, app.logger)
		if err != nil {
			app.logger.Warn("query notifications disabled", "error", err)
		} else {
			app.mqtt = client
			app.eventEmitter.RegisterHandler(mqtt.NewPublisher(client, cfg.MQTT.TopicPrefix, app.logger))
		}
	}
}

func (app *application) newGuard(name string) *resilience.Guard {
	rc := app.config.Resilience
	return resilience.NewGuard(resilience.Settings{
		Name:             name,
		FailureThreshold: rc.FailureThreshold,
		OpenTimeout:      rc.OpenTimeout,
		RetryMaxElapsed:  rc.RetryMaxElapsed,
		MaxRetries:       rc.RetryMaxAttempts,
	}, app.logger, app.metrics)
}

func (app *application) newWeatherService() *weather.Service {
	wc := app.config.Weather
	provider := openweather.NewClient(wc.BaseURL, wc.OpenWeatherAPIKey, nil)
	opts := []weather.Option{
		weather.WithTTL(wc.CacheTTL),
		weather.WithObserver(app.metrics),
	}
	if app.redis != nil {
		opts = append(opts, weather.WithCache(rediscache.New(app.redis, weatherCachePrefix)))
	}
	return weather.NewService(provider, app.newGuard("openweather"), app.logger, opts...)
}

// newSpeechService builds the Google clients. Without an API key every
// speech call goes to its fallback.
func (app *application) newSpeechService(ctx context.Context) (*speech.Service, error) {
	gc := app.config.Google
	guards := speech.Guards{
		Speech:    app.newGuard("speech"),
		Translate: app.newGuard("translate"),
		TTS:       app.newGuard("tts"),
	}

	var (
		recognizer  speech.Recognizer
		translator  speech.Translator
		synthesizer speech.Synthesizer
	)
	if gc.APIKey == "" {
		app.logger.Warn("google api key not set, speech features will use fallbacks")
		return speech.NewService(nil, nil, nil, guards, app.logger), nil
	}

	stt, err := googlecloud.NewSpeechToText(ctx, gc.APIKey, gc.SpeechEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create speech client: %w", err)
	}
	recognizer = stt

	tr, err := googlecloud.NewTranslator(ctx, gc.APIKey, gc.TranslateEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create translate client: %w", err)
	}
	translator = tr

	tts, err := googlecloud.NewTextToSpeech(ctx, gc.APIKey, gc.TTSEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create text-to-speech client: %w", err)
	}
	synthesizer = tts

	return speech.NewService(recognizer, translator, synthesizer, guards, app.logger), nil
}

// Run starts the HTTP server and blocks until shutdown.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// setupTaskRunner registers the diagnosis factory, recovers unfinished
// tasks and starts the workers.
func setupTaskRunner(ctx context.Context, app *application, processor task.ScanProcessor) (*task.TaskRunner, error) {
	taskRunner := task.NewTaskRunner(app.taskStore, task.TaskRunnerConfig{
		QueueSize:    app.config.Task.QueueSize,
		WorkerCount:  app.config.Task.WorkerCount,
		StuckTaskAge: time.Duration(app.config.Task.StuckTaskAgeMinutes) * time.Minute,
	}, app.logger)
	taskRunner.Register(task.TaskTypePlantDiagnosis, task.PlantDiagnosisFactory(processor))
	taskRunner.SetErrorHandler(func(t task.Task, err error) {
		app.logger.Error("background task failed",
			"task_id", t.ID(),
			"task_type", t.Type(),
			"error", redact.Error(err))
	})

	if err := taskRunner.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start task runner: %w", err)
	}
	return taskRunner, nil
}

// closeBackends disconnects Redis, InfluxDB and MQTT if they are attached.
func (app *application) closeBackends() {
	if app.mqtt != nil {
		app.mqtt.Disconnect(250)
		app.mqtt = nil
	}
	if app.influx != nil {
		app.influx.Close()
		app.influx = nil
	}
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("Error closing redis connection", "error", err)
		}
		app.redis = nil
	}
}

// cleanup releases resources in reverse order of acquisition.
func (app *application) cleanup() {
	if app.taskRunner != nil {
		app.taskRunner.Stop()
	}
	app.closeBackends()
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
