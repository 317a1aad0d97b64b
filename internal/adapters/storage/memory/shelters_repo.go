package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"pet-finder/internal/domain/shelters"
	"pet-finder/internal/geo"
)

// sheltersRepo replica en memoria la semántica del repo Postgres:
// mismo filtro de texto, misma whitelist de estados, mismo orden por
// distancia (geo.DistanceKm) o nombre, misma paginación. Sirve para
// modo dev y para los tests HTTP de punta a punta.
type sheltersRepo struct {
	mu    sync.RWMutex
	items []shelters.Shelter
}

func NewSheltersRepo(seed ...shelters.Shelter) shelters.Repository {
	return &sheltersRepo{items: seed}
}

func (r *sheltersRepo) Search(ctx context.Context, q shelters.Query) (shelters.Page, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]shelters.Shelter, 0, len(r.items))
	for _, s := range r.items {
		if !matchesText(s, q.Text) {
			continue
		}

		clone := s
		clone.Animals = filterAnimals(s.Animals, q.Bucket)
		if q.Origin != nil && s.Lat != nil && s.Lng != nil {
			d := geo.DistanceKm(*q.Origin, geo.Point{Lat: *s.Lat, Lng: *s.Lng})
			clone.DistanceKm = &d
		}
		matched = append(matched, clone)
	}

	if q.Origin != nil {
		// distancia asc, los sin coordenadas al final; nombre desempata
		sort.SliceStable(matched, func(i, j int) bool {
			di, dj := matched[i].DistanceKm, matched[j].DistanceKm
			switch {
			case di != nil && dj != nil && *di != *dj:
				return *di < *dj
			case di != nil && dj == nil:
				return true
			case di == nil && dj != nil:
				return false
			}
			return matched[i].Name < matched[j].Name
		})
	} else {
		sort.SliceStable(matched, func(i, j int) bool {
			return matched[i].Name < matched[j].Name
		})
	}

	page := shelters.Page{
		Total:    len(matched),
		Page:     q.Page,
		PageSize: q.PageSize,
		Shelters: []shelters.Shelter{},
	}

	start := (q.Page - 1) * q.PageSize
	if start < len(matched) {
		end := start + q.PageSize
		if end > len(matched) {
			end = len(matched)
		}
		page.Shelters = matched[start:end]
	}

	return page, nil
}

func matchesText(s shelters.Shelter, text string) bool {
	if text == "" {
		return true
	}
	needle := strings.ToLower(text)
	for _, hay := range []string{s.Name, s.Address, s.OrgName} {
		if strings.Contains(strings.ToLower(hay), needle) {
			return true
		}
	}
	return false
}

func filterAnimals(in []shelters.Animal, bucket shelters.SpeciesBucket) []shelters.Animal {
	out := make([]shelters.Animal, 0, len(in))
	for _, a := range in {
		if strings.TrimSpace(a.Photo1) == "" {
			continue
		}
		if !inCare(a.ProcessState) {
			continue
		}
		if bucket != "" && shelters.BucketFromCode(a.SpeciesCode) != bucket {
			continue
		}
		a.Bucket = shelters.BucketFromCode(a.SpeciesCode)
		out = append(out, a)
	}
	return out
}

func inCare(state string) bool {
	for _, st := range shelters.InCareStates {
		if state == st {
			return true
		}
	}
	return false
}
