package shelters

import "pet-finder/internal/geo"

// SpeciesBucket clasifica un animal según el código grueso de especie
// de la fuente pública (up_kind_cd).
// @Enum dog, cat, unknown
type SpeciesBucket string

const (
	BucketDog     SpeciesBucket = "dog"
	BucketCat     SpeciesBucket = "cat"
	BucketUnknown SpeciesBucket = "unknown"
)

// Códigos de especie de la fuente de datos de abandono.
const (
	SpeciesCodeDog = "417000"
	SpeciesCodeCat = "422400"
)

// BucketFromCode deriva el bucket a partir del código up_kind_cd.
func BucketFromCode(code string) SpeciesBucket {
	switch code {
	case SpeciesCodeDog:
		return BucketDog
	case SpeciesCodeCat:
		return BucketCat
	default:
		return BucketUnknown
	}
}

// Estados process_state considerados "en protección" (con animal visible).
var InCareStates = []string{"보호중", "공고중"}

// Animal es el aviso público de un animal actualmente alojado.
// Solo lectura: proviene del pipeline de ingesta, nunca se escribe aquí.
type Animal struct {
	DesertionNo  string
	Photo1       string
	Photo2       string
	KindName     string
	SpeciesCode  string // up_kind_cd crudo
	Bucket       SpeciesBucket
	Age          string
	SexCode      string // M, F, Q
	NeuterYN     string // Y, N, U
	SpecialMark  string
	NoticeStart  string // fecha de inicio del aviso; YYYY-MM-DD o YYYYMMDD
	ProcessState string
	CareRegNo    string
}

// Shelter es el registro de un centro de protección con sus animales
// embebidos. Snapshot inmutable por request.
type Shelter struct {
	RegNo   string
	Name    string
	Address string
	Phone   string
	OrgName string

	// Coordenadas opcionales (las agrega un job de geocoding externo).
	Lat *float64
	Lng *float64

	// DistanceKm solo se calcula cuando el request trae coordenadas.
	DistanceKm *float64

	Animals []Animal
}

// Query son los filtros ya validados/normalizados que recibe el repo.
type Query struct {
	Bucket   SpeciesBucket // dog, cat; vacío = todos
	Text     string        // texto libre ya normalizado
	Origin   *geo.Point    // coordenadas del solicitante, opcional
	Page     int           // ≥1
	PageSize int           // ya acotado a [MinPageSize, MaxPageSize]
}

// Page es una página de shelters junto al total que matchea el filtro,
// para que el cliente pueda hacer la aritmética de paginación.
type Page struct {
	Shelters []Shelter
	Total    int
	Page     int
	PageSize int
}
