package similarity

import "context"

// Searcher es la frontera con el colaborador que realiza la búsqueda
// por similitud de imagen. El ranking, el modelo de embeddings y el
// índice son propiedad del colaborador; acá solo se despacha la query
// y se releen los resultados.
type Searcher interface {
	Search(ctx context.Context, q Query) (Result, error)
}
