package listings

import (
	"net/http"
	"strconv"
	"strings"

	"pet-finder/internal/domain/shelters"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
)

func RegisterRoutes(r chi.Router, agg *Aggregator) {
	r.Get("/adoptions", listAdoptionsHandler(agg))
	r.Get("/shelters/directory", shelterDirectoryHandler(agg))
}

type adoptableAnimalResponse struct {
	DesertionNo    string                 `json:"desertion_no"`
	Photo1         string                 `json:"popfile1"`
	Photo2         string                 `json:"popfile2,omitempty"`
	KindName       string                 `json:"kind_nm"`
	Species        shelters.SpeciesBucket `json:"species"`
	Age            string                 `json:"age"`
	SexCode        string                 `json:"sex_cd"`
	NeuterYN       string                 `json:"neuter_yn"`
	SpecialMark    string                 `json:"special_mark"`
	NoticeStart    string                 `json:"notice_sdt"`
	ShelterName    string                 `json:"care_nm"`
	ShelterAddress string                 `json:"care_addr"`
	ShelterPhone   string                 `json:"care_tel"`
}

type directoryShelterResponse struct {
	RegNo      string   `json:"care_reg_no"`
	Name       string   `json:"care_nm"`
	Address    string   `json:"care_addr"`
	Phone      string   `json:"care_tel"`
	OrgName    string   `json:"org_nm"`
	Lat        *float64 `json:"lat,omitempty"`
	Lng        *float64 `json:"lng,omitempty"`
	DistanceKm *float64 `json:"distance_km,omitempty"`
	Animals    int      `json:"animal_count"`
}

// listAdoptionsHandler godoc
// @Summary Animales en adopción (aviso con ≥10 días), agregados de todas las páginas
// @Param animalType query string false "dog, cat o all"
// @Param q query string false "texto libre"
// @Success 200 {array} adoptableAnimalResponse
// @Router /adoptions [get]
func listAdoptionsHandler(agg *Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		qs := r.URL.Query()
		items, err := agg.AdoptableAnimals(r.Context(), shelters.SearchInput{
			AnimalType: qs.Get("animalType"),
			Text:       qs.Get("q"),
		})
		if err != nil {
			// solo cancelación de contexto llega hasta acá
			writeError(w, http.StatusInternalServerError, "adoption listing failed", err.Error())
			return
		}

		out := make([]adoptableAnimalResponse, 0, len(items))
		for _, a := range items {
			out = append(out, adoptableAnimalResponse{
				DesertionNo:    a.DesertionNo,
				Photo1:         a.Photo1,
				Photo2:         a.Photo2,
				KindName:       a.KindName,
				Species:        a.Bucket,
				Age:            a.Age,
				SexCode:        a.SexCode,
				NeuterYN:       a.NeuterYN,
				SpecialMark:    a.SpecialMark,
				NoticeStart:    a.NoticeStart,
				ShelterName:    a.ShelterName,
				ShelterAddress: a.ShelterAddress,
				ShelterPhone:   a.ShelterPhone,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// shelterDirectoryHandler godoc
// @Summary Directorio de shelters fusionado por clave difusa de nombre/dirección
// @Param q query string false "texto libre"
// @Param lat query number false "latitud del solicitante"
// @Param lng query number false "longitud del solicitante"
// @Success 200 {array} directoryShelterResponse
// @Router /shelters/directory [get]
func shelterDirectoryHandler(agg *Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		qs := r.URL.Query()
		merged, err := agg.MergedShelters(r.Context(), shelters.SearchInput{
			Text: qs.Get("q"),
			Lat:  parseCoord(qs.Get("lat")),
			Lng:  parseCoord(qs.Get("lng")),
		})
		if err != nil {
			writeError(w, http.StatusInternalServerError, "shelter directory failed", err.Error())
			return
		}

		out := make([]directoryShelterResponse, 0, len(merged))
		for _, s := range merged {
			out = append(out, directoryShelterResponse{
				RegNo:      s.RegNo,
				Name:       s.Name,
				Address:    s.Address,
				Phone:      s.Phone,
				OrgName:    s.OrgName,
				Lat:        s.Lat,
				Lng:        s.Lng,
				DistanceKm: s.DistanceKm,
				Animals:    len(s.Animals),
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func parseCoord(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg, detail string) {
	writeJSON(w, status, map[string]string{"error": msg, "detail": detail})
}
