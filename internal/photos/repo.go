package photos

import "context"

// Repo defines persistence operations for photos.
type Repo interface {
	Create(ctx context.Context, p Photo) error
	GetByID(ctx context.Context, userID, photoID string) (Photo, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Photo, error)
}
