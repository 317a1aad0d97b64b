package shelters

import (
	"context"
	"strings"

	"pet-finder/internal/geo"
)

// Límites de paginación del endpoint de shelters.
const (
	MinPageSize     = 5
	MaxPageSize     = 50
	DefaultPageSize = 10
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// SearchInput son los parámetros crudos del request, antes de acotar.
type SearchInput struct {
	AnimalType string // dog, cat, all (o vacío)
	Text       string // texto libre sin normalizar
	Page       int
	PageSize   int
	Lat        *float64
	Lng        *float64
}

// Search acota page/pageSize, normaliza el texto y delega en el repo.
func (s *Service) Search(ctx context.Context, in SearchInput) (Page, error) {
	q := Query{
		Bucket:   parseBucketFilter(in.AnimalType),
		Text:     NormalizeQueryText(in.Text),
		Page:     clampPage(in.Page),
		PageSize: clampPageSize(in.PageSize),
	}

	// Solo ordenamos por distancia si vienen ambas coordenadas.
	if in.Lat != nil && in.Lng != nil {
		q.Origin = &geo.Point{Lat: *in.Lat, Lng: *in.Lng}
	}

	return s.repo.Search(ctx, q)
}

func parseBucketFilter(animalType string) SpeciesBucket {
	switch strings.ToLower(strings.TrimSpace(animalType)) {
	case "dog":
		return BucketDog
	case "cat":
		return BucketCat
	default:
		// "all", vacío o cualquier otra cosa: sin filtro de especie.
		return ""
	}
}

func clampPage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func clampPageSize(size int) int {
	if size == 0 {
		return DefaultPageSize
	}
	if size < MinPageSize {
		return MinPageSize
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}
