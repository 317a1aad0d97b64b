package router

import (
	"database/sql"
	"net/http"
	"os"

	"pet-finder/internal/adapters/storage/memory"
	pg "pet-finder/internal/adapters/storage/postgres"
	"pet-finder/internal/domain/listings"
	"pet-finder/internal/domain/search"
	"pet-finder/internal/domain/shelters"
	"pet-finder/internal/platform/logger"
	"pet-finder/internal/ports/similarity"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	// Si viene DB, usa Postgres. Si no, intenta DB_DSN por env y cae a
	// in-memory (modo dev / tests).
	DB *sql.DB

	// Override directo del repo (tests).
	ShelterRepo shelters.Repository

	// Colaborador de búsqueda por similitud. Puede ser nil: el
	// endpoint responde 503.
	Searcher similarity.Searcher

	SearchTopK int

	Logger logger.Logger
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.New(logger.Options{Level: logger.Info, App: "pet-finder"})
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	repo := opts.ShelterRepo
	if repo == nil {
		db := opts.DB
		if db == nil {
			if dsn := os.Getenv("DB_DSN"); dsn != "" {
				opened, err := pg.Open(dsn)
				if err == nil {
					db = opened
				} else {
					log.Error("postgres open failed, falling back to memory", map[string]any{"err": err.Error()})
				}
			}
		}
		if db != nil {
			repo = pg.NewSheltersRepo(db)
		} else {
			repo = memory.NewSheltersRepo()
		}
	}

	sheltersSvc := shelters.NewService(repo)
	agg := listings.NewAggregator(sheltersSvc, log)
	searchSvc := search.NewService(opts.Searcher, opts.SearchTopK)

	shelters.RegisterRoutes(r, sheltersSvc, log)
	listings.RegisterRoutes(r, agg)
	search.RegisterRoutes(r, searchSvc, log)

	// Docs generadas con swag init (el paquete docs no se commitea).
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	return r
}
