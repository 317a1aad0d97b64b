package main

import (
	"fmt"
	"log"
	"net/http"

	"pet-finder/internal/adapters/similarity/httpapi"
	"pet-finder/internal/adapters/similarity/pythonproc"
	"pet-finder/internal/adapters/storage/postgres"
	"pet-finder/internal/config"
	"pet-finder/internal/platform/logger"
	"pet-finder/internal/ports/similarity"
	"pet-finder/internal/router"

	"github.com/joho/godotenv"
)

// @title Pet Finder API
// @version 1.0
// @description Búsqueda de shelters públicos y de mascotas perdidas por similitud de imagen.
func main() {
	// .env es opcional (dev); el entorno real manda igual
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	lg := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Logging.Level),
		Format: logger.ParseFormat(cfg.Logging.Format),
		App:    cfg.Logging.App,
	})

	opts := router.Options{
		Logger:     lg,
		SearchTopK: cfg.Similarity.TopK,
	}

	if cfg.Database.DSN != "" {
		db, err := postgres.Open(cfg.Database.DSN)
		if err != nil {
			log.Fatalf("postgres: %v", err)
		}
		defer db.Close()
		opts.DB = db
	} else {
		lg.Warn("no database dsn, serving from empty in-memory store", nil)
	}

	opts.Searcher, err = buildSearcher(cfg, lg)
	if err != nil {
		log.Fatalf("similarity: %v", err)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router.NewRouter(opts),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	lg.Info("starting server", map[string]any{
		"addr":            addr,
		"similarity_mode": cfg.Similarity.Mode,
	})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}

func buildSearcher(cfg *config.Config, lg logger.Logger) (similarity.Searcher, error) {
	if cfg.Similarity.Mode == config.ModeHTTP {
		return httpapi.New(httpapi.Config{
			BaseURL: cfg.Similarity.BaseURL,
			Timeout: cfg.Similarity.Timeout,
		})
	}
	return pythonproc.New(pythonproc.Config{
		Python:         cfg.Similarity.Python,
		Script:         cfg.Similarity.Script,
		BaselineScript: cfg.Similarity.BaselineScript,
		Timeout:        cfg.Similarity.Timeout,
	}, lg), nil
}
