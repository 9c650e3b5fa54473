package vote

import (
	"context"
	"errors"
)

var (
	ErrInvalidTarget = errors.New("item does not exist or is not eligible for voting")
	ErrNotFound      = errors.New("vote data not found for this item")
	ErrPersistence   = errors.New("vote store failure")
	ErrInvalidKind   = errors.New("vote type must be upvote or downvote")
)

type Kind string

const (
	Upvote   Kind = "upvote"
	Downvote Kind = "downvote"
)

func (k Kind) Valid() bool {
	return k == Upvote || k == Downvote
}

// Counter is the authoritative row kept by the Store.
type Counter struct {
	ItemID    int64 `json:"item_id"`
	Upvotes   int64 `json:"upvotes"`
	Downvotes int64 `json:"downvotes"`
}

func (c Counter) Aggregate() Aggregate {
	return Aggregate{
		Upvotes:   c.Upvotes,
		Downvotes: c.Downvotes,
		Total:     c.Upvotes + c.Downvotes,
		Score:     c.Upvotes - c.Downvotes,
	}
}

// Aggregate is the derived view served to callers and held in the cache.
type Aggregate struct {
	Upvotes   int64 `json:"upvotes"`
	Downvotes int64 `json:"downvotes"`
	Total     int64 `json:"total"`
	Score     int64 `json:"score"`
}

type Result struct {
	ItemID int64     `json:"item_id"`
	Kind   Kind      `json:"vote_type"`
	Votes  Aggregate `json:"votes"`
}

// ItemRef is what the catalog reports for every eligible item.
type ItemRef struct {
	ID    int64
	Title string
}

type ListedItem struct {
	ItemID    int64  `json:"item_id"`
	Title     string `json:"title"`
	Upvotes   int64  `json:"upvotes"`
	Downvotes int64  `json:"downvotes"`
	Total     int64  `json:"total"`
	Score     int64  `json:"score"`
}

type Summary struct {
	Items     int   `json:"total_items"`
	Upvotes   int64 `json:"total_upvotes"`
	Downvotes int64 `json:"total_downvotes"`
	Votes     int64 `json:"total_votes"`
}

// Store is the persistent counter storage. Increment and Reset must be
// atomic per item; implementations must not emulate them with a separate
// read and write.
type Store interface {
	// Init creates a zeroed counter unless one exists. created is false when
	// the counter was already there.
	Init(ctx context.Context, itemID int64) (created bool, err error)
	Get(ctx context.Context, itemID int64) (c Counter, found bool, err error)
	Increment(ctx context.Context, itemID int64, kind Kind) (Counter, error)
	Reset(ctx context.Context, itemID int64) error
}

// Catalog answers which items may be voted on.
type Catalog interface {
	IsEligible(ctx context.Context, itemID int64) (bool, error)
	ListEligible(ctx context.Context) ([]ItemRef, error)
}
