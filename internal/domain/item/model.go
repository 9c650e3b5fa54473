package item

import (
	"context"
	"time"
)

const (
	StatusDraft     = "draft"
	StatusPublished = "published"

	CategoryPost = "post"
	CategoryPage = "page"
)

type Item struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Category  string    `json:"category"`
	Status    string    `json:"status"`
	AuthorID  int64     `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Eligible reports whether the item may receive votes: only published posts do.
func (i Item) Eligible() bool {
	return i.Category == CategoryPost && i.Status == StatusPublished
}

type Repository interface {
	Create(ctx context.Context, it *Item) error
	GetByID(ctx context.Context, id int64) (*Item, error)
	List(ctx context.Context, status *string) ([]Item, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	Delete(ctx context.Context, id int64) error
}

// VoteHooks lets the item lifecycle keep vote counters in step. Publishing
// initializes counters, unpublishing or deleting drops cached views.
type VoteHooks interface {
	Initialize(ctx context.Context, itemID int64) error
	Forget(ctx context.Context, itemID int64)
}
