package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"voting-system/internal/domain/vote"
)

// VoteRepo is the persistent counter store. Every write is a single
// statement so concurrent voters never lose an increment.
type VoteRepo struct {
	db *sql.DB
}

func NewVoteRepo(db *sql.DB) *VoteRepo {
	return &VoteRepo{db: db}
}

func (r *VoteRepo) Init(ctx context.Context, itemID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
        INSERT INTO vote_counters (item_id, upvotes, downvotes)
        VALUES ($1, 0, 0)
        ON CONFLICT (item_id) DO NOTHING
    `, itemID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *VoteRepo) Get(ctx context.Context, itemID int64) (vote.Counter, bool, error) {
	c := vote.Counter{ItemID: itemID}
	err := r.db.QueryRowContext(ctx, `
        SELECT upvotes, downvotes
        FROM vote_counters WHERE item_id = $1
    `, itemID).Scan(&c.Upvotes, &c.Downvotes)
	if errors.Is(err, sql.ErrNoRows) {
		return vote.Counter{}, false, nil
	}
	if err != nil {
		return vote.Counter{}, false, err
	}
	return c, true, nil
}

func (r *VoteRepo) Increment(ctx context.Context, itemID int64, kind vote.Kind) (vote.Counter, error) {
	var up, down int64
	if kind == vote.Upvote {
		up = 1
	} else {
		down = 1
	}

	c := vote.Counter{ItemID: itemID}
	err := r.db.QueryRowContext(ctx, `
        INSERT INTO vote_counters (item_id, upvotes, downvotes)
        VALUES ($1, $2, $3)
        ON CONFLICT (item_id) DO UPDATE
        SET upvotes = vote_counters.upvotes + EXCLUDED.upvotes,
            downvotes = vote_counters.downvotes + EXCLUDED.downvotes,
            updated_at = now()
        RETURNING upvotes, downvotes
    `, itemID, up, down).Scan(&c.Upvotes, &c.Downvotes)
	if err != nil {
		if isForeignKeyViolation(err) {
			return vote.Counter{}, vote.ErrInvalidTarget
		}
		return vote.Counter{}, err
	}
	return c, nil
}

func (r *VoteRepo) Reset(ctx context.Context, itemID int64) error {
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO vote_counters (item_id, upvotes, downvotes)
        VALUES ($1, 0, 0)
        ON CONFLICT (item_id) DO UPDATE
        SET upvotes = 0, downvotes = 0, updated_at = now()
    `, itemID)
	return err
}

func isUniqueViolation(err error) bool {
	return hasPgCode(err, "23505")
}

func isForeignKeyViolation(err error) bool {
	return hasPgCode(err, "23503")
}

func hasPgCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}
	return false
}
