// Package ascension parses game server flags and starts the runtime.
package ascension

import (
	"context"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/tianji-games/ascension/internal/game/actions"
	"github.com/tianji-games/ascension/internal/game/api/httpapi"
	"github.com/tianji-games/ascension/internal/game/catalog"
	"github.com/tianji-games/ascension/internal/game/storage/sqlite"
	entrypoint "github.com/tianji-games/ascension/internal/platform/cmd"
	"github.com/tianji-games/ascension/internal/platform/random"
)

// Config holds game server configuration.
type Config struct {
	Addr   string `env:"ASCENSION_ADDR" envDefault:":8080"`
	DBPath string `env:"ASCENSION_DB_PATH" envDefault:"ascension.sqlite"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The server listen address")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to the SQLite database file")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run opens storage, wires the action router and serves the HTTP API until
// ctx is cancelled.
func Run(ctx context.Context, cfg Config) error {
	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("close storage: %v", err)
		}
	}()

	cat, err := catalog.Default()
	if err != nil {
		return err
	}
	rng, err := random.NewCrypto()
	if err != nil {
		return err
	}

	svc := actions.New(store, cat, rng, time.Now)
	mux := httpapi.New(actions.NewRouter(svc))

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		log.Printf("serving on %s (db %s)", cfg.Addr, cfg.DBPath)
		errc <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
