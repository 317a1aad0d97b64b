package shelters

import (
	"net/http"
	"strconv"
	"strings"

	"pet-finder/internal/platform/logger"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
)

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Get("/shelters", searchSheltersHandler(svc, log))
}

type shelterResponse struct {
	RegNo      string           `json:"care_reg_no"`
	Name       string           `json:"care_nm"`
	Address    string           `json:"care_addr"`
	Phone      string           `json:"care_tel"`
	OrgName    string           `json:"org_nm"`
	Lat        *float64         `json:"lat,omitempty"`
	Lng        *float64         `json:"lng,omitempty"`
	DistanceKm *float64         `json:"distance_km,omitempty"`
	Animals    []animalResponse `json:"animals"`
}

type animalResponse struct {
	DesertionNo  string        `json:"desertion_no"`
	Photo1       string        `json:"popfile1"`
	Photo2       string        `json:"popfile2,omitempty"`
	KindName     string        `json:"kind_nm"`
	SpeciesCode  string        `json:"up_kind_cd"`
	Species      SpeciesBucket `json:"species"`
	Age          string        `json:"age"`
	SexCode      string        `json:"sex_cd"`
	NeuterYN     string        `json:"neuter_yn"`
	SpecialMark  string        `json:"special_mark"`
	NoticeStart  string        `json:"notice_sdt"`
	ProcessState string        `json:"process_state"`
	CareRegNo    string        `json:"care_reg_no"`
}

type searchResponse struct {
	Shelters []shelterResponse `json:"shelters"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"pageSize"`
}

// searchSheltersHandler godoc
// @Summary Buscar shelters con sus animales embebidos
// @Param animalType query string false "dog, cat o all"
// @Param q query string false "texto libre (nombre/dirección), se normaliza en el server"
// @Param page query int false "página, mínimo 1"
// @Param pageSize query int false "tamaño de página, acotado a [5,50]"
// @Param lat query number false "latitud del solicitante"
// @Param lng query number false "longitud del solicitante"
// @Success 200 {object} searchResponse
// @Failure 500 {object} map[string]string
// @Router /shelters [get]
func searchSheltersHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		qs := r.URL.Query()

		in := SearchInput{
			AnimalType: qs.Get("animalType"),
			Text:       qs.Get("q"),
			Page:       atoiOrZero(qs.Get("page")),
			PageSize:   atoiOrZero(qs.Get("pageSize")),
			Lat:        parseCoord(qs.Get("lat")),
			Lng:        parseCoord(qs.Get("lng")),
		}

		page, err := svc.Search(r.Context(), in)
		if err != nil {
			log.Error("shelter search failed", map[string]any{"err": err.Error()})
			writeError(w, http.StatusInternalServerError, "shelter search failed", err.Error())
			return
		}

		out := searchResponse{
			Shelters: make([]shelterResponse, 0, len(page.Shelters)),
			Total:    page.Total,
			Page:     page.Page,
			PageSize: page.PageSize,
		}
		for _, s := range page.Shelters {
			out.Shelters = append(out.Shelters, toShelterResponse(s))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func toShelterResponse(s Shelter) shelterResponse {
	resp := shelterResponse{
		RegNo:      s.RegNo,
		Name:       s.Name,
		Address:    s.Address,
		Phone:      s.Phone,
		OrgName:    s.OrgName,
		Lat:        s.Lat,
		Lng:        s.Lng,
		DistanceKm: s.DistanceKm,
		Animals:    make([]animalResponse, 0, len(s.Animals)),
	}
	for _, a := range s.Animals {
		resp.Animals = append(resp.Animals, toAnimalResponse(a))
	}
	return resp
}

func toAnimalResponse(a Animal) animalResponse {
	bucket := a.Bucket
	if bucket == "" {
		bucket = BucketFromCode(a.SpeciesCode)
	}
	return animalResponse{
		DesertionNo:  a.DesertionNo,
		Photo1:       a.Photo1,
		Photo2:       a.Photo2,
		KindName:     a.KindName,
		SpeciesCode:  a.SpeciesCode,
		Species:      bucket,
		Age:          a.Age,
		SexCode:      a.SexCode,
		NeuterYN:     a.NeuterYN,
		SpecialMark:  a.SpecialMark,
		NoticeStart:  a.NoticeStart,
		ProcessState: a.ProcessState,
		CareRegNo:    a.CareRegNo,
	}
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
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

// writeJSON/writeError se duplican a propósito en los handlers de cada
// módulo (igual que en el resto del código) para no crear helpers
// compartidos antes de tiempo.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg, detail string) {
	writeJSON(w, status, map[string]string{"error": msg, "detail": detail})
}
