package postgres

import (
	"context"
	"database/sql"
	"errors"

	"voting-system/internal/domain/item"
	"voting-system/internal/domain/vote"
)

type ItemRepo struct {
	db *sql.DB
}

func NewItemRepo(db *sql.DB) *ItemRepo {
	return &ItemRepo{db: db}
}

const itemColumns = `id, title, category, status, COALESCE(author_id, 0), created_at, updated_at`

func (r *ItemRepo) Create(ctx context.Context, it *item.Item) error {
	query := `
        INSERT INTO items (title, category, status, author_id)
        VALUES ($1, $2, $3, NULLIF($4, 0))
        RETURNING id, created_at, updated_at
    `
	return r.db.QueryRowContext(ctx, query, it.Title, it.Category, it.Status, it.AuthorID).
		Scan(&it.ID, &it.CreatedAt, &it.UpdatedAt)
}

func (r *ItemRepo) GetByID(ctx context.Context, id int64) (*item.Item, error) {
	it := &item.Item{}
	err := r.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1`, id).
		Scan(&it.ID, &it.Title, &it.Category, &it.Status, &it.AuthorID, &it.CreatedAt, &it.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, item.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return it, nil
}

func (r *ItemRepo) List(ctx context.Context, status *string) ([]item.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items`
	var rows *sql.Rows
	var err error

	if status != nil {
		query += " WHERE status = $1 ORDER BY id"
		rows, err = r.db.QueryContext(ctx, query, *status)
	} else {
		query += " ORDER BY id"
		rows, err = r.db.QueryContext(ctx, query)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := []item.Item{}
	for rows.Next() {
		var it item.Item
		if err := rows.Scan(&it.ID, &it.Title, &it.Category, &it.Status, &it.AuthorID, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, err
		}
		res = append(res, it)
	}
	return res, rows.Err()
}

func (r *ItemRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE items SET status = $1, updated_at = now() WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	return expectOneRow(res, item.ErrNotFound)
}

// Delete cascades to the item's vote counters.
func (r *ItemRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectOneRow(res, item.ErrNotFound)
}

// IsEligible and ListEligible make ItemRepo the vote catalog.
func (r *ItemRepo) IsEligible(ctx context.Context, id int64) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx, `
        SELECT EXISTS (
            SELECT 1 FROM items WHERE id = $1 AND category = $2 AND status = $3
        )
    `, id, item.CategoryPost, item.StatusPublished).Scan(&ok)
	return ok, err
}

func (r *ItemRepo) ListEligible(ctx context.Context) ([]vote.ItemRef, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, title FROM items
        WHERE category = $1 AND status = $2
        ORDER BY id
    `, item.CategoryPost, item.StatusPublished)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []vote.ItemRef
	for rows.Next() {
		var ref vote.ItemRef
		if err := rows.Scan(&ref.ID, &ref.Title); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

func expectOneRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
