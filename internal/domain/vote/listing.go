package vote

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"
)

type OrderField string

const (
	OrderTitle     OrderField = "title"
	OrderUpvotes   OrderField = "upvotes"
	OrderDownvotes OrderField = "downvotes"
	OrderTotal     OrderField = "total"
	OrderScore     OrderField = "score"
)

var orderFields = []OrderField{OrderTitle, OrderUpvotes, OrderDownvotes, OrderTotal, OrderScore}

type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// ParseOrder maps anything outside the allow-list to OrderTitle.
func ParseOrder(s string) OrderField {
	f := OrderField(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(orderFields, f) {
		return f
	}
	return OrderTitle
}

// ParseDirection maps anything it does not recognize to Ascending.
func ParseDirection(s string) Direction {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "desc", "descending":
		return Descending
	default:
		return Ascending
	}
}

const defaultListConcurrency = 8

// Lister builds sorted reporting snapshots across all eligible items.
type Lister struct {
	engine      *Engine
	concurrency int
}

func NewLister(engine *Engine) *Lister {
	return &Lister{engine: engine, concurrency: defaultListConcurrency}
}

// List returns every eligible item with its aggregate, sorted by the
// requested field. Items without counters are reported as zero.
func (l *Lister) List(ctx context.Context, orderBy, direction string) ([]ListedItem, error) {
	order, dir := ParseOrder(orderBy), ParseDirection(direction)
	key := collectionKey(order, dir)

	if rows, ok := l.engine.cachedListing(ctx, key); ok {
		return rows, nil
	}
	gen := l.engine.collectionGen.Load()

	refs, err := l.engine.listEligible(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]ListedItem, len(refs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)
	for i, ref := range refs {
		i, ref := i, ref
		g.Go(func() error {
			agg, err := l.engine.GetCounts(gctx, ref.ID)
			if err != nil && !errors.Is(err, ErrNotFound) {
				return err
			}
			rows[i] = ListedItem{
				ItemID:    ref.ID,
				Title:     ref.Title,
				Upvotes:   agg.Upvotes,
				Downvotes: agg.Downvotes,
				Total:     agg.Total,
				Score:     agg.Score,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	SortListing(rows, order, dir)
	l.engine.storeListing(ctx, key, rows, gen)
	return rows, nil
}

// SortListing sorts rows in place. The sort is stable, so equal rows keep the
// catalog's enumeration order in both directions.
func SortListing(rows []ListedItem, order OrderField, dir Direction) {
	sign := 1
	if dir == Descending {
		sign = -1
	}
	slices.SortStableFunc(rows, func(a, b ListedItem) int {
		return sign * compareBy(order, a, b)
	})
}

func compareBy(order OrderField, a, b ListedItem) int {
	switch order {
	case OrderUpvotes:
		return cmp.Compare(a.Upvotes, b.Upvotes)
	case OrderDownvotes:
		return cmp.Compare(a.Downvotes, b.Downvotes)
	case OrderTotal:
		return cmp.Compare(a.Total, b.Total)
	case OrderScore:
		return cmp.Compare(a.Score, b.Score)
	default:
		return NaturalCompareFold(a.Title, b.Title)
	}
}

func Summarize(rows []ListedItem) Summary {
	s := Summary{Items: len(rows)}
	for _, r := range rows {
		s.Upvotes += r.Upvotes
		s.Downvotes += r.Downvotes
	}
	s.Votes = s.Upvotes + s.Downvotes
	return s
}
