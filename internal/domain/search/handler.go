package search

import (
	"errors"
	"net/http"

	"pet-finder/internal/platform/logger"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Post("/search", searchHandler(svc, log))
}

type searchRequest struct {
	ImageBase64 string `json:"imageBase64"`
	AnimalType  string `json:"animalType"`
	Gender      string `json:"gender"`
	LostDate    string `json:"lostDate"`
	Mode        string `json:"mode"`
}

// searchHandler godoc
// @Summary Búsqueda por similitud de imagen contra los animales en protección
// @Accept json
// @Param body body searchRequest true "imagen en base64 más hints opcionales"
// @Success 200 {object} similarity.Result
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /search [post]
func searchHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req searchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			// cubre también imageBase64 no-string: el decode falla antes
			// de llegar a invocar nada.
			writeError(w, http.StatusBadRequest, "invalid json body", err.Error())
			return
		}

		searchID := uuid.NewString()
		res, err := svc.Search(r.Context(), Input{
			ImageBase64: req.ImageBase64,
			AnimalType:  req.AnimalType,
			Gender:      req.Gender,
			LostDate:    req.LostDate,
			Mode:        req.Mode,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidImage):
				writeError(w, http.StatusBadRequest, ErrInvalidImage.Error(), "")
			case errors.Is(err, ErrNotConfigured):
				writeError(w, http.StatusServiceUnavailable, ErrNotConfigured.Error(), "")
			default:
				log.Error("similarity search failed", map[string]any{
					"search_id": searchID,
					"err":       err.Error(),
				})
				writeError(w, http.StatusInternalServerError, "similarity search failed", err.Error())
			}
			return
		}

		log.Info("similarity search ok", map[string]any{
			"search_id": searchID,
			"results":   len(res.Results),
		})
		writeJSON(w, http.StatusOK, res)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg, detail string) {
	writeJSON(w, status, map[string]string{"error": msg, "detail": detail})
}
