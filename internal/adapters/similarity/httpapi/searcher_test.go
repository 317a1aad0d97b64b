package httpapi

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"pet-finder/internal/ports/similarity"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
)

func TestNew_RequiresBaseURL(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatal("expected error without base url")
	}
	if _, err := New(Config{BaseURL: "://bad"}); err == nil {
		t.Fatal("expected error for malformed base url")
	}
}

func TestSearch_PostsQueryAndDecodesResult(t *testing.T) {
	img := []byte("jpeg-bytes")

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/search" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		raw, _ := io.ReadAll(r.Body)
		var req searchRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if req.ImageBase64 != base64.StdEncoding.EncodeToString(img) {
			t.Errorf("image not relayed: %q", req.ImageBase64)
		}
		if req.TopK != 20 || req.AnimalType != "cat" {
			t.Errorf("hints not relayed: %+v", req)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(similarity.Result{
			Results: []similarity.Match{{DesertionNo: "X1", Similarity: 0.5}},
		})
	}))
	defer ts.Close()

	s, err := New(Config{BaseURL: ts.URL})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	res, err := s.Search(context.Background(), similarity.Query{
		Image:      img,
		TopK:       20,
		AnimalType: "cat",
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.Results) != 1 || res.Results[0].DesertionNo != "X1" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestSearch_ServerErrorPropagates(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "index not loaded", http.StatusInternalServerError)
	}))
	defer ts.Close()

	s, err := New(Config{BaseURL: ts.URL})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := s.Search(context.Background(), similarity.Query{Image: []byte("x"), TopK: 5}); err == nil {
		t.Fatal("expected error from 500 response")
	}
}

func TestSearch_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	s, err := New(Config{BaseURL: ts.URL})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	q := similarity.Query{Image: []byte("x"), TopK: 5}
	for i := 0; i < breakerFailureThreshold; i++ {
		if _, err := s.Search(context.Background(), q); err == nil {
			t.Fatalf("call %d should fail", i)
		}
	}

	_, err = s.Search(context.Background(), q)
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("expected open breaker, got %v", err)
	}
}
