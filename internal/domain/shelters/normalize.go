package shelters

import "strings"

// Sustituciones literales de divisiones administrativas coreanas.
// La fuente mezcla convenciones de dirección ("서울시" vs "서울특별시"),
// así que normalizamos el texto de búsqueda antes de armar la query.
// Es una tabla ordenada de reemplazos, no un componente NLP: las formas
// largas van antes que sus abreviaturas para que una sola pasada alcance.
var adminDivisionSubstitutions = []struct {
	old string
	new string
}{
	{"서울시", "서울특별시"},
	{"부산시", "부산광역시"},
	{"대구시", "대구광역시"},
	{"인천시", "인천광역시"},
	{"광주시", "광주광역시"},
	{"대전시", "대전광역시"},
	{"울산시", "울산광역시"},
	{"세종시", "세종특별자치시"},
	{"전라북도", "전북특별자치도"},
	{"전북도", "전북특별자치도"},
	{"강원도", "강원특별자치도"},
}

// NormalizeQueryText aplica la tabla de sustituciones una sola vez
// sobre el texto libre de búsqueda.
func NormalizeQueryText(q string) string {
	q = strings.TrimSpace(q)
	if q == "" {
		return ""
	}
	for _, sub := range adminDivisionSubstitutions {
		q = strings.ReplaceAll(q, sub.old, sub.new)
	}
	return q
}
