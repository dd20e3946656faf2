package main

import (
	"flag"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/joho/godotenv"
	"github.com/myrjola/gumshoe/internal/ai"
	"github.com/myrjola/gumshoe/internal/broker"
	"github.com/myrjola/gumshoe/internal/casegen"
	"github.com/myrjola/gumshoe/internal/envstruct"
	"github.com/myrjola/gumshoe/internal/game"
	"github.com/myrjola/gumshoe/internal/logging"
	"github.com/myrjola/gumshoe/internal/pprofserver"
	"github.com/myrjola/gumshoe/internal/repositories"
	"github.com/myrjola/gumshoe/sqlite"
)

type config struct {
	// OpenAIAPIKey enables oracle-backed case generation, the game master,
	// and illustrations. Without it the server runs catalog-only and turns
	// cannot be processed, which is still useful for UI development.
	OpenAIAPIKey string `env:"OPENAI_API_KEY" envDefault:""`
	SqliteURL    string `env:"GUMSHOE_SQLITE_URL" envDefault:"./gumshoe.sqlite"`
}

type application struct {
	logger         *slog.Logger
	sessionManager *scs.SessionManager
	controller     *game.Controller
	sessions       *repositories.SessionRepository
	events         *broker.ChannelBroker[string, gameEvent]
}

func main() {
	addr := flag.String("addr", "localhost:4000", "HTTP network address")
	pprofPort := flag.String("pprof-port", ":6060", "Port for pprof listening on localhost")
	flag.Parse()

	loggerHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: true,
	})
	logger := slog.New(logging.NewContextHandler(loggerHandler))

	// Initialise pprof listening on localhost so that it's not open to the world
	pprofserver.Launch(*pprofPort, logger)

	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file loaded", slog.Any("error", err))
	}

	var cfg config
	if err := envstruct.Populate(&cfg, os.LookupEnv); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}

	db, err := sqlite.NewDB(cfg.SqliteURL)
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
	logger.Info("connected to db")

	sessionManager := scs.New()
	sessionManager.Store = sqlite3store.NewWithCleanupInterval(db.ReadWrite.DB, 24*time.Hour)
	sessionManager.Lifetime = 12 * time.Hour

	history := repositories.NewCaseHistoryRepository(db, logger)

	var (
		generator   casegen.Generator
		illustrator game.Illustrator
		oracle      game.Oracle
	)
	if cfg.OpenAIAPIKey != "" {
		client := ai.NewClient(cfg.OpenAIAPIKey)
		generator = client
		illustrator = client
		oracle = client
	} else {
		logger.Warn("OPENAI_API_KEY not set, running catalog-only without a game master")
	}

	sessions := repositories.NewSessionRepository(db, logger)
	controller := game.NewController(
		casegen.NewRepository(generator, history, logger),
		oracle,
		illustrator,
		game.Stores{
			CaseFiles: repositories.NewCaseFileRepository(db, logger),
			Sessions:  sessions,
			History:   history,
		},
		logger,
	)

	events := broker.NewChannelBroker[string, gameEvent]()
	go events.Start()
	defer events.Stop()

	app := application{
		logger:         logger,
		sessionManager: sessionManager,
		controller:     controller,
		sessions:       sessions,
		events:         events,
	}

	logger.Info("starting server", slog.Any("addr", *addr))

	err = http.ListenAndServe(*addr, app.routes())
	logger.Error(err.Error())
	os.Exit(1)
}
