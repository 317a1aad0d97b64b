// Package httpapi habla con el servicio de similitud por red en lugar
// de lanzar un proceso por request. Las llamadas pasan por un circuit
// breaker: si el servicio viene fallando seguido, se corta rápido en
// vez de seguir encolando búsquedas.
package httpapi

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"pet-finder/internal/platform/httpclient"
	"pet-finder/internal/ports/similarity"

	gobreaker "github.com/sony/gobreaker/v2"
)

const (
	DefaultTimeout = 60 * time.Second

	breakerFailureThreshold = 5
	breakerOpenTimeout      = 30 * time.Second
)

type Config struct {
	BaseURL string
	Timeout time.Duration
}

type Searcher struct {
	client  *httpclient.Client
	breaker *gobreaker.CircuitBreaker[similarity.Result]
}

func New(cfg Config) (*Searcher, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	client, err := httpclient.NewWithBaseURL(cfg.BaseURL, timeout)
	if err != nil {
		return nil, fmt.Errorf("similarity httpapi: %w", err)
	}
	if client.BaseURL == "" {
		return nil, fmt.Errorf("similarity httpapi: base url required")
	}

	breaker := gobreaker.NewCircuitBreaker[similarity.Result](gobreaker.Settings{
		Name:    "similarity-search",
		Timeout: breakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerFailureThreshold
		},
	})

	return &Searcher{client: client, breaker: breaker}, nil
}

// NewWithTransport es para tests: permite interceptar el RoundTripper.
func NewWithTransport(baseURL string, tr http.RoundTripper) (*Searcher, error) {
	s, err := New(Config{BaseURL: baseURL})
	if err != nil {
		return nil, err
	}
	s.client = httpclient.NewWithTransport(DefaultTimeout, tr)
	s.client.BaseURL = baseURL
	return s, nil
}

type searchRequest struct {
	ImageBase64 string `json:"image_base64"`
	TopK        int    `json:"top_k"`
	AnimalType  string `json:"animal_type,omitempty"`
	Gender      string `json:"gender,omitempty"`
	LostDate    string `json:"lost_date,omitempty"`
	Mode        string `json:"mode,omitempty"`
}

func (s *Searcher) Search(ctx context.Context, q similarity.Query) (similarity.Result, error) {
	body := searchRequest{
		ImageBase64: base64.StdEncoding.EncodeToString(q.Image),
		TopK:        q.TopK,
		AnimalType:  q.AnimalType,
		Gender:      q.Gender,
		LostDate:    q.LostDate,
		Mode:        q.Mode,
	}

	return s.breaker.Execute(func() (similarity.Result, error) {
		var out similarity.Result
		if err := s.client.DoJSON(ctx, http.MethodPost, "/search", nil, body, &out); err != nil {
			return similarity.Result{}, fmt.Errorf("similarity service: %w", err)
		}
		return out, nil
	})
}
