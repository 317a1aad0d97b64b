package search

import (
	"bytes"
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pet-finder/internal/platform/logger"
	"pet-finder/internal/ports/similarity"

	"github.com/go-chi/chi/v5"
)

// fakeSearcher registra si fue invocado y devuelve un resultado fijo.
type fakeSearcher struct {
	calls int
	last  similarity.Query
	res   similarity.Result
	err   error
}

func (f *fakeSearcher) Search(ctx context.Context, q similarity.Query) (similarity.Result, error) {
	f.calls++
	f.last = q
	return f.res, f.err
}

func newTestRouter(f *fakeSearcher) http.Handler {
	r := chi.NewRouter()
	svc := NewService(f, 0)
	RegisterRoutes(r, svc, logger.New(logger.Options{Level: logger.Error}))
	return r
}

func postSearch(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/search", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSearch_MissingImageReturns400WithoutDispatch(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"missing field", `{"animalType":"dog"}`},
		{"empty string", `{"imageBase64":""}`},
		{"non-string image", `{"imageBase64":12345}`},
		{"not base64", `{"imageBase64":"%%%not-base64%%%"}`},
		{"data url without comma", `{"imageBase64":"data:image/jpeg;base64"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := &fakeSearcher{}
			rec := postSearch(t, newTestRouter(f), tc.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d body=%s", rec.Code, rec.Body.String())
			}
			if f.calls != 0 {
				t.Fatalf("searcher invoked %d times for invalid payload", f.calls)
			}
		})
	}
}

func TestSearch_DispatchesDecodedImageAndHints(t *testing.T) {
	img := []byte("fake-jpeg-bytes")
	b64 := base64.StdEncoding.EncodeToString(img)

	f := &fakeSearcher{res: similarity.Result{
		QueryBBox: &similarity.BBox{X1: 1, Y1: 2, X2: 3, Y2: 4, Conf: 0.9},
		Results: []similarity.Match{
			{DesertionNo: "448549202500001", Similarity: 0.87},
		},
	}}

	body := `{"imageBase64":"data:image/jpeg;base64,` + b64 + `",` +
		`"animalType":"dog","gender":"undefined","lostDate":"2026-08-01","mode":"baseline"}`
	rec := postSearch(t, newTestRouter(f), body)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if f.calls != 1 {
		t.Fatalf("expected 1 dispatch, got %d", f.calls)
	}
	if string(f.last.Image) != string(img) {
		t.Fatalf("image bytes mismatch: %q", f.last.Image)
	}
	if f.last.AnimalType != "dog" || f.last.LostDate != "2026-08-01" || f.last.Mode != "baseline" {
		t.Fatalf("hints mismatch: %+v", f.last)
	}
	if f.last.Gender != "" {
		t.Fatalf(`gender "undefined" should be dropped, got %q`, f.last.Gender)
	}
	if f.last.TopK != DefaultTopK {
		t.Fatalf("topK: got %d, want %d", f.last.TopK, DefaultTopK)
	}

	if !strings.Contains(rec.Body.String(), `"query_bbox"`) {
		t.Fatalf("response missing query_bbox: %s", rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "448549202500001") {
		t.Fatalf("response missing result: %s", rec.Body.String())
	}
}

func TestSearch_CollaboratorFailureReturns500(t *testing.T) {
	b64 := base64.StdEncoding.EncodeToString([]byte("img"))
	f := &fakeSearcher{err: context.DeadlineExceeded}

	rec := postSearch(t, newTestRouter(f), `{"imageBase64":"`+b64+`"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"detail"`) {
		t.Fatalf("error response missing detail: %s", rec.Body.String())
	}
}

func TestSearch_NoSearcherReturns503(t *testing.T) {
	r := chi.NewRouter()
	RegisterRoutes(r, NewService(nil, 0), logger.New(logger.Options{Level: logger.Error}))

	b64 := base64.StdEncoding.EncodeToString([]byte("img"))
	rec := postSearch(t, r, `{"imageBase64":"`+b64+`"}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}
