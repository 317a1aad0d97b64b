package search

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"

	"pet-finder/internal/ports/similarity"
)

var (
	ErrInvalidImage  = errors.New("imageBase64 must be a non-empty base64-encoded image")
	ErrNotConfigured = errors.New("similarity search not configured")
)

// DefaultTopK es la cantidad fija de resultados que se pide al
// colaborador (igual que el script original).
const DefaultTopK = 20

type Service struct {
	searcher similarity.Searcher
	topK     int
}

func NewService(searcher similarity.Searcher, topK int) *Service {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Service{searcher: searcher, topK: topK}
}

type Input struct {
	ImageBase64 string
	AnimalType  string
	Gender      string
	LostDate    string
	Mode        string
}

// Search valida y decodifica la imagen antes de tocar al colaborador:
// un payload inválido nunca debe disparar el subprocess/llamada externa.
func (s *Service) Search(ctx context.Context, in Input) (similarity.Result, error) {
	img, err := decodeImage(in.ImageBase64)
	if err != nil {
		return similarity.Result{}, err
	}
	if s.searcher == nil {
		return similarity.Result{}, ErrNotConfigured
	}

	q := similarity.Query{
		Image:      img,
		TopK:       s.topK,
		AnimalType: cleanHint(in.AnimalType),
		Gender:     cleanHint(in.Gender),
		LostDate:   cleanHint(in.LostDate),
		Mode:       cleanHint(in.Mode),
	}

	return s.searcher.Search(ctx, q)
}

// decodeImage acepta base64 plano o data URL (data:image/...;base64,xxx).
func decodeImage(raw string) ([]byte, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrInvalidImage
	}

	if strings.HasPrefix(raw, "data:") {
		i := strings.Index(raw, ",")
		if i < 0 {
			return nil, ErrInvalidImage
		}
		raw = raw[i+1:]
	}

	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		// algunos clientes mandan base64 sin padding
		data, err = base64.RawStdEncoding.DecodeString(raw)
		if err != nil {
			return nil, ErrInvalidImage
		}
	}
	if len(data) == 0 {
		return nil, ErrInvalidImage
	}
	return data, nil
}

// cleanHint descarta los valores que el front manda cuando un campo
// quedó sin completar.
func cleanHint(v string) string {
	v = strings.TrimSpace(v)
	switch strings.ToLower(v) {
	case "undefined", "null":
		return ""
	}
	return v
}
