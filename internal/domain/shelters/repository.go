package shelters

import "context"

type Repository interface {
	Search(ctx context.Context, q Query) (Page, error)
}
