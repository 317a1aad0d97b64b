package similarity

// Modos de ranking soportados por el colaborador.
const (
	ModeTriplet  = "triplet"
	ModeBaseline = "baseline"
)

// Query es una búsqueda por similitud ya validada: imagen decodificada
// más hints opcionales que el colaborador usa para filtrar candidatos.
type Query struct {
	Image []byte
	TopK  int

	AnimalType string // dog, cat o vacío
	Gender     string // male, female o vacío
	LostDate   string // YYYY-MM-DD o vacío
	Mode       string // triplet (default) o baseline
}

// BBox es el recorte detectado sobre la imagen de consulta.
type BBox struct {
	X1   int     `json:"x1"`
	Y1   int     `json:"y1"`
	X2   int     `json:"x2"`
	Y2   int     `json:"y2"`
	Conf float64 `json:"conf"`
}

// Match es un resultado rankeado tal como lo emite el colaborador.
type Match struct {
	DesertionNo string  `json:"desertion_no"`
	Side        string  `json:"side"` // popfile1 | popfile2
	Similarity  float64 `json:"similarity"`
	ImageURL    string  `json:"image_url"`
	UpKindCd    string  `json:"up_kind_cd"`
	KindNm      string  `json:"kind_nm"`
	SexCd       string  `json:"sex_cd"`
	Age         string  `json:"age"`
	NeuterYn    string  `json:"neuter_yn"`
	CareNm      string  `json:"care_nm"`
	CareTel     string  `json:"care_tel"`
	CareAddr    string  `json:"care_addr"`
	NoticeSdt   string  `json:"notice_sdt"`
	SpecialMark string  `json:"special_mark"`
}

// Result se releva al cliente tal cual.
type Result struct {
	QueryBBox *BBox   `json:"query_bbox,omitempty"`
	Results   []Match `json:"results"`
}
