package geo

import (
	"math"
	"testing"
)

func TestDistanceKm_KnownPairs(t *testing.T) {
	seoul := Point{Lat: 37.5665, Lng: 126.9780}
	busan := Point{Lat: 35.1796, Lng: 129.0756}

	cases := []struct {
		name     string
		a, b     Point
		wantKm   float64
		tolerance float64
	}{
		{"seoul-busan", seoul, busan, 325.0, 5.0},
		{"same point", seoul, seoul, 0.0, 0.0001},
		{"equator one degree lng", Point{0, 0}, Point{0, 1}, 111.19, 0.5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DistanceKm(tc.a, tc.b)
			if math.Abs(got-tc.wantKm) > tc.tolerance {
				t.Fatalf("DistanceKm(%v, %v) = %f, want %f ± %f", tc.a, tc.b, got, tc.wantKm, tc.tolerance)
			}
		})
	}
}

func TestDistanceKm_Symmetric(t *testing.T) {
	a := Point{Lat: 37.5665, Lng: 126.9780}
	b := Point{Lat: 33.4996, Lng: 126.5312} // Jeju

	d1 := DistanceKm(a, b)
	d2 := DistanceKm(b, a)
	if math.Abs(d1-d2) > 1e-9 {
		t.Fatalf("distance not symmetric: %f vs %f", d1, d2)
	}
	if d1 <= 0 {
		t.Fatalf("expected positive distance, got %f", d1)
	}
}
