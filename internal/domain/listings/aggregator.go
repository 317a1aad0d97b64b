package listings

import (
	"context"
	"strings"
	"time"

	"pet-finder/internal/domain/shelters"
	"pet-finder/internal/platform/logger"
)

// Tamaño de página fijo con el que el agregador barre el listado.
const sweepPageSize = 50

// Un animal entra a la vista de adopción recién cuando su aviso tiene
// al menos esta edad (el período de espera legal del aviso público).
const adoptionNoticeMinAgeDays = 10

// Searcher es lo que el agregador necesita del módulo de shelters.
// *shelters.Service lo satisface.
type Searcher interface {
	Search(ctx context.Context, in shelters.SearchInput) (shelters.Page, error)
}

type Aggregator struct {
	src Searcher
	log logger.Logger
	now func() time.Time
}

func NewAggregator(src Searcher, log logger.Logger) *Aggregator {
	return &Aggregator{src: src, log: log, now: time.Now}
}

// sweep recorre todas las páginas del buscador hasta agotar el total
// reportado. Las páginas se piden en serie y el barrido se corta con la
// cancelación del contexto. Ante un fallo de fetch degrada a vacío con
// un warning, sin reintentos: el mismo contrato que tenía el cliente.
func (a *Aggregator) sweep(ctx context.Context, in shelters.SearchInput) ([]shelters.Shelter, error) {
	in.PageSize = sweepPageSize

	var all []shelters.Shelter
	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		in.Page = page
		p, err := a.src.Search(ctx, in)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			a.log.Warn("listing sweep failed, degrading to empty", map[string]any{
				"page": page,
				"err":  err.Error(),
			})
			return nil, nil
		}

		all = append(all, p.Shelters...)
		if len(p.Shelters) == 0 || len(all) >= p.Total {
			return all, nil
		}
	}
}

// AdoptableAnimal es un animal aplanado con el shelter que lo aloja.
type AdoptableAnimal struct {
	shelters.Animal
	ShelterName    string
	ShelterAddress string
	ShelterPhone   string
}

// AdoptableAnimals aplana los animales de todos los shelters, anota el
// bucket de especie, deduplica por número de caso y deja solo los
// avisos con al menos adoptionNoticeMinAgeDays de antigüedad.
func (a *Aggregator) AdoptableAnimals(ctx context.Context, in shelters.SearchInput) ([]AdoptableAnimal, error) {
	all, err := a.sweep(ctx, in)
	if err != nil {
		return nil, err
	}

	today := dateOnly(a.now())

	seen := map[string]struct{}{}
	out := make([]AdoptableAnimal, 0)
	for _, s := range all {
		for _, an := range s.Animals {
			if an.DesertionNo == "" {
				continue
			}
			if _, dup := seen[an.DesertionNo]; dup {
				continue
			}
			seen[an.DesertionNo] = struct{}{}

			if !noticeOldEnough(an.NoticeStart, today) {
				continue
			}

			if an.Bucket == "" {
				an.Bucket = shelters.BucketFromCode(an.SpeciesCode)
			}
			out = append(out, AdoptableAnimal{
				Animal:         an,
				ShelterName:    s.Name,
				ShelterAddress: s.Address,
				ShelterPhone:   s.Phone,
			})
		}
	}
	return out, nil
}

// MergedShelters barre todas las páginas y fusiona los registros que
// colisionan por clave difusa (ver mergeKey). El orden subyacente puede
// moverse entre fetches, así que un mismo shelter puede venir repetido.
func (a *Aggregator) MergedShelters(ctx context.Context, in shelters.SearchInput) ([]shelters.Shelter, error) {
	all, err := a.sweep(ctx, in)
	if err != nil {
		return nil, err
	}
	return MergeShelters(all), nil
}

// mergeKey identifica un shelter entre páginas: nombre en minúsculas
// sin espacios, si no dirección, si no el número de registro.
func mergeKey(s shelters.Shelter) string {
	if k := foldKey(s.Name); k != "" {
		return "n:" + k
	}
	if k := foldKey(s.Address); k != "" {
		return "a:" + k
	}
	return "r:" + s.RegNo
}

func foldKey(v string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(v) {
		switch r {
		case ' ', '\t', '\n', '\r':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// MergeShelters es idempotente: fusionar un set ya fusionado con la
// misma función de clave devuelve el mismo resultado.
func MergeShelters(in []shelters.Shelter) []shelters.Shelter {
	byKey := map[string]int{}
	out := make([]shelters.Shelter, 0, len(in))

	for _, s := range in {
		k := mergeKey(s)
		idx, exists := byKey[k]
		if !exists {
			clone := s
			clone.Animals = append([]shelters.Animal(nil), s.Animals...)
			byKey[k] = len(out)
			out = append(out, clone)
			continue
		}
		out[idx] = mergeInto(out[idx], s)
	}
	return out
}

// mergeInto combina dos registros del mismo shelter: para cada escalar
// gana el primer valor no vacío; los animales se unen por identificador.
func mergeInto(dst, src shelters.Shelter) shelters.Shelter {
	dst.RegNo = firstNonEmpty(dst.RegNo, src.RegNo)
	dst.Name = firstNonEmpty(dst.Name, src.Name)
	dst.Address = firstNonEmpty(dst.Address, src.Address)
	dst.Phone = firstNonEmpty(dst.Phone, src.Phone)
	dst.OrgName = firstNonEmpty(dst.OrgName, src.OrgName)
	if dst.Lat == nil {
		dst.Lat = src.Lat
	}
	if dst.Lng == nil {
		dst.Lng = src.Lng
	}
	if dst.DistanceKm == nil {
		dst.DistanceKm = src.DistanceKm
	}

	have := make(map[string]struct{}, len(dst.Animals))
	for _, an := range dst.Animals {
		have[an.DesertionNo] = struct{}{}
	}
	for _, an := range src.Animals {
		if _, dup := have[an.DesertionNo]; dup {
			continue
		}
		have[an.DesertionNo] = struct{}{}
		dst.Animals = append(dst.Animals, an)
	}
	return dst
}

func firstNonEmpty(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return a
	}
	return b
}

// noticeOldEnough acepta fechas de aviso en formato compacto de 8
// dígitos (20260801) o genérico (2026-08-01). Una fecha ilegible o
// ausente se trata como "todavía no cumplió la espera" y queda afuera.
func noticeOldEnough(notice string, today time.Time) bool {
	nd, ok := parseNoticeDate(notice)
	if !ok {
		return false
	}
	// exactamente 10 días: incluido; 9 días: afuera.
	return !nd.AddDate(0, 0, adoptionNoticeMinAgeDays).After(today)
}

func parseNoticeDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{"20060102", "2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return dateOnly(t), true
		}
	}
	return time.Time{}, false
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
