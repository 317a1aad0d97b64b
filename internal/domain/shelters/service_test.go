package shelters

import (
	"context"
	"testing"
)

// captureRepo guarda la última query recibida para inspeccionarla.
type captureRepo struct {
	last Query
}

func (r *captureRepo) Search(ctx context.Context, q Query) (Page, error) {
	r.last = q
	return Page{Page: q.Page, PageSize: q.PageSize}, nil
}

func TestSearch_ClampsPageSize(t *testing.T) {
	cases := []struct {
		name string
		in   int
		want int
	}{
		{"zero uses default", 0, DefaultPageSize},
		{"below min", 1, MinPageSize},
		{"negative", -3, MinPageSize},
		{"at min", 5, 5},
		{"in range", 20, 20},
		{"at max", 50, 50},
		{"above max", 500, MaxPageSize},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &captureRepo{}
			svc := NewService(repo)

			if _, err := svc.Search(context.Background(), SearchInput{PageSize: tc.in}); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if repo.last.PageSize != tc.want {
				t.Fatalf("pageSize %d: got %d, want %d", tc.in, repo.last.PageSize, tc.want)
			}
		})
	}
}

func TestSearch_ClampsPage(t *testing.T) {
	repo := &captureRepo{}
	svc := NewService(repo)

	for _, page := range []int{-1, 0} {
		if _, err := svc.Search(context.Background(), SearchInput{Page: page}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if repo.last.Page != 1 {
			t.Fatalf("page %d: got %d, want 1", page, repo.last.Page)
		}
	}

	if _, err := svc.Search(context.Background(), SearchInput{Page: 7}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.last.Page != 7 {
		t.Fatalf("page 7: got %d", repo.last.Page)
	}
}

func TestSearch_OriginRequiresBothCoordinates(t *testing.T) {
	repo := &captureRepo{}
	svc := NewService(repo)

	lat := 37.5665
	lng := 126.9780

	_, _ = svc.Search(context.Background(), SearchInput{Lat: &lat})
	if repo.last.Origin != nil {
		t.Fatal("origin set with lat only")
	}

	_, _ = svc.Search(context.Background(), SearchInput{Lng: &lng})
	if repo.last.Origin != nil {
		t.Fatal("origin set with lng only")
	}

	_, _ = svc.Search(context.Background(), SearchInput{Lat: &lat, Lng: &lng})
	if repo.last.Origin == nil {
		t.Fatal("origin missing with both coordinates")
	}
	if repo.last.Origin.Lat != lat || repo.last.Origin.Lng != lng {
		t.Fatalf("origin mismatch: %+v", repo.last.Origin)
	}
}

func TestSearch_AnimalTypeFilter(t *testing.T) {
	repo := &captureRepo{}
	svc := NewService(repo)

	cases := map[string]SpeciesBucket{
		"dog": BucketDog,
		"cat": BucketCat,
		"all": "",
		"":    "",
		"DOG": BucketDog,
	}
	for in, want := range cases {
		_, _ = svc.Search(context.Background(), SearchInput{AnimalType: in})
		if repo.last.Bucket != want {
			t.Fatalf("animalType %q: got %q, want %q", in, repo.last.Bucket, want)
		}
	}
}

func TestBucketFromCode(t *testing.T) {
	if got := BucketFromCode("417000"); got != BucketDog {
		t.Fatalf("417000: got %q", got)
	}
	if got := BucketFromCode("422400"); got != BucketCat {
		t.Fatalf("422400: got %q", got)
	}
	if got := BucketFromCode("429900"); got != BucketUnknown {
		t.Fatalf("429900: got %q", got)
	}
	if got := BucketFromCode(""); got != BucketUnknown {
		t.Fatalf("empty: got %q", got)
	}
}
