package geo

import "math"

// EarthRadiusKm es el radio medio terrestre usado para haversine.
// La expresión SQL de distancia se construye con esta misma constante
// para que ambos caminos (query y cálculo local) coincidan.
const EarthRadiusKm = 6371.0

// Point representa una coordenada geográfica (WGS 84).
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

const degToRad = math.Pi / 180

// DistanceKm calcula la distancia de círculo máximo entre dos puntos
// con la fórmula haversine.
func DistanceKm(a, b Point) float64 {
	dLat := (b.Lat - a.Lat) * degToRad
	dLng := (b.Lng - a.Lng) * degToRad

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(a.Lat*degToRad)*math.Cos(b.Lat*degToRad)*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(h))
}
