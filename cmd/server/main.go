package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/codingconcepts/env"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/reddit-bot/install"
	"github.com/reddit-bot/install/internal/entry"
	"github.com/reddit-bot/install/internal/events"
	"github.com/reddit-bot/install/internal/oauth"
	"github.com/reddit-bot/install/internal/store"
)

type Config struct {
	BindAddr   string `env:"BIND_ADDR"`
	ListenPort uint16 `env:"LISTEN_PORT" default:"5000"`

	SlackClientId     string `env:"SLACK_CLIENT_ID" required:"true"`
	SlackClientSecret string `env:"SLACK_CLIENT_SECRET" required:"true"`
	SlackAppId        string `env:"SLACK_APP_ID" required:"true"`
	SlackScopes       string `env:"SLACK_SCOPES" default:"incoming-webhook"`

	DatabaseUrl string `env:"DATABASE_URL"`

	RmqHost     string `env:"RMQ_HOST"`
	RmqPort     int    `env:"RMQ_PORT" default:"5672"`
	RmqVhost    string `env:"RMQ_VHOST"`
	RmqUser     string `env:"RMQ_USER"`
	RmqPassword string `env:"RMQ_PASSWORD"`
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	fail := func(msg string, err error) {
		logger.Error(msg, "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Parse config from environment variables
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		fail("Failed to load .env file", err)
	}
	config := Config{}
	if err := env.Set(&config); err != nil {
		fail("Failed to load config", err)
	}

	// Keep workspace credentials in Postgres when a DATABASE_URL is
	// configured; otherwise fall back to an in-memory store, which is only
	// suitable for local development
	var credentialStore install.CredentialStore
	if config.DatabaseUrl != "" {
		pg, err := store.NewPostgres(ctx, config.DatabaseUrl)
		if err != nil {
			fail("Failed to connect to database", err)
		}
		defer pg.Close()
		if err := pg.EnsureSchema(ctx); err != nil {
			fail("Failed to apply database schema", err)
		}
		credentialStore = pg
	} else {
		logger.Warn("DATABASE_URL is not set; credentials will be held in memory only")
		credentialStore = store.NewMemory()
	}

	// Publish app.installed events over AMQP when a broker is configured
	var publishInstalled oauth.PublishInstalledFunc
	if config.RmqHost != "" {
		amqpConn, err := amqp.Dial(events.FormatConnectionString(config.RmqHost, config.RmqPort, config.RmqVhost, config.RmqUser, config.RmqPassword))
		if err != nil {
			fail("Failed to connect to AMQP server", err)
		}
		defer amqpConn.Close()
		producer, err := events.NewProducer(amqpConn)
		if err != nil {
			fail("Failed to initialize AMQP producer", err)
		}
		publishInstalled = producer.PublishInstalled
	}

	// GET / serves a landing page with an install link; GET /install starts
	// the OAuth code grant flow by redirecting the user to Slack; Slack sends
	// them back to GET /authorize, which completes the handshake and stores
	// the workspace credential
	r := mux.NewRouter()
	r.Use(entry.Attach(logger))
	oauthServer := oauth.NewServer(
		config.SlackClientId,
		config.SlackClientSecret,
		config.SlackAppId,
		config.SlackScopes,
		credentialStore,
		publishInstalled,
	)
	oauthServer.RegisterRoutes(r)

	// Handle incoming HTTP connections until our top-level context is
	// canceled, at which point shut down cleanly
	entry.RunServer(ctx, logger, r, config.BindAddr, config.ListenPort)
}
