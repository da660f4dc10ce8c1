package bookingrepo

import (
	"context"
	"fmt"
	"time"

	"gearshare/util/database"
)

// Row is a booking joined with the item it targets, so callers get the
// owner and item name without a second query.
type Row struct {
	ID       int64     `json:"id"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Status   string    `json:"status"`
	ItemID   int64     `json:"item_id"`
	ItemName string    `json:"item_name"`
	OwnerID  int64     `json:"owner_id"`
	BookerID int64     `json:"booker_id"`
}

// Time filters understood by the listing queries.
const (
	StateAll      = "ALL"
	StateCurrent  = "CURRENT"
	StatePast     = "PAST"
	StateFuture   = "FUTURE"
	StateWaiting  = "WAITING"
	StateRejected = "REJECTED"
)

type Repo interface {
	// InsertIfAvailable creates a WAITING booking only if the item is still
	// available. The guard is part of the INSERT itself, so a concurrent
	// availability flip cannot slip in between check and write.
	// Returns pgx.ErrNoRows when the item is gone or unavailable.
	InsertIfAvailable(ctx context.Context, itemID, bookerID int64, start, end time.Time) (int64, error)

	GetByID(ctx context.Context, id int64) (*Row, error)

	// UpdateStatusIfWaiting flips a WAITING booking to the given terminal
	// status. Returns false when the booking was already decided, which
	// closes the double-approve race without an explicit lock.
	UpdateStatusIfWaiting(ctx context.Context, id int64, status string) (bool, error)

	ListByBooker(ctx context.Context, bookerID int64, state string, now time.Time, limit, offset int) ([]Row, error)
	ListByOwner(ctx context.Context, ownerID int64, state string, now time.Time, limit, offset int) ([]Row, error)

	LastApprovedPerItem(ctx context.Context, itemIDs []int64, now time.Time) (map[int64]Row, error)
	NextApprovedPerItem(ctx context.Context, itemIDs []int64, now time.Time) (map[int64]Row, error)

	HasFinishedApproved(ctx context.Context, itemID, bookerID int64, now time.Time) (bool, error)
}

type repo struct{ db *database.DB }

func New(db *database.DB) Repo { return &repo{db} }

func (r *repo) InsertIfAvailable(ctx context.Context, itemID, bookerID int64, start, end time.Time) (int64, error) {
	const q = `
		INSERT INTO bookings (start_date, end_date, item_id, booker_id, status)
		SELECT $1, $2, i.id, $4, 'WAITING'
		FROM items i
		WHERE i.id = $3 AND i.available
		RETURNING id`
	var id int64
	if err := r.db.Pool.QueryRow(ctx, q, start, end, itemID, bookerID).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repo) GetByID(ctx context.Context, id int64) (*Row, error) {
	const q = `
		SELECT b.id, b.start_date, b.end_date, b.status, b.item_id, i.name, i.owner_id, b.booker_id
		FROM bookings b
		JOIN items i ON i.id = b.item_id
		WHERE b.id = $1`
	b := &Row{}
	err := r.db.Pool.QueryRow(ctx, q, id).
		Scan(&b.ID, &b.Start, &b.End, &b.Status, &b.ItemID, &b.ItemName, &b.OwnerID, &b.BookerID)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *repo) UpdateStatusIfWaiting(ctx context.Context, id int64, status string) (bool, error) {
	const q = `
		UPDATE bookings
		SET status = $2
		WHERE id = $1
		  AND status = 'WAITING'`
	tag, err := r.db.Pool.Exec(ctx, q, id, status)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *repo) ListByBooker(ctx context.Context, bookerID int64, state string, now time.Time, limit, offset int) ([]Row, error) {
	q := `
		SELECT b.id, b.start_date, b.end_date, b.status, b.item_id, i.name, i.owner_id, b.booker_id
		FROM bookings b
		JOIN items i ON i.id = b.item_id
		WHERE b.booker_id = $1`
	return r.list(ctx, q, bookerID, state, now, limit, offset)
}

func (r *repo) ListByOwner(ctx context.Context, ownerID int64, state string, now time.Time, limit, offset int) ([]Row, error) {
	q := `
		SELECT b.id, b.start_date, b.end_date, b.status, b.item_id, i.name, i.owner_id, b.booker_id
		FROM bookings b
		JOIN items i ON i.id = b.item_id
		WHERE i.owner_id = $1`
	return r.list(ctx, q, ownerID, state, now, limit, offset)
}

func (r *repo) list(ctx context.Context, base string, scopeID int64, state string, now time.Time, limit, offset int) ([]Row, error) {
	args := []any{scopeID}

	switch state {
	case StateAll:
	case StateCurrent:
		base += ` AND $2 BETWEEN b.start_date AND b.end_date`
		args = append(args, now)
	case StatePast:
		base += ` AND b.end_date < $2`
		args = append(args, now)
	case StateFuture:
		base += ` AND b.start_date > $2`
		args = append(args, now)
	case StateWaiting, StateRejected:
		base += ` AND b.status = $2`
		args = append(args, state)
	default:
		return nil, fmt.Errorf("unknown booking state filter %q", state)
	}

	base += fmt.Sprintf(` ORDER BY b.start_date DESC LIMIT %d OFFSET %d`, limit, offset)

	rows, err := r.db.Pool.Query(ctx, base, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var b Row
		if err := rows.Scan(&b.ID, &b.Start, &b.End, &b.Status, &b.ItemID, &b.ItemName, &b.OwnerID, &b.BookerID); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *repo) LastApprovedPerItem(ctx context.Context, itemIDs []int64, now time.Time) (map[int64]Row, error) {
	const q = `
		SELECT DISTINCT ON (b.item_id)
		       b.id, b.start_date, b.end_date, b.status, b.item_id, b.booker_id
		FROM bookings b
		WHERE b.item_id = ANY($1)
		  AND b.status = 'APPROVED'
		  AND b.start_date < $2
		ORDER BY b.item_id, b.end_date DESC`
	return r.perItem(ctx, q, itemIDs, now)
}

func (r *repo) NextApprovedPerItem(ctx context.Context, itemIDs []int64, now time.Time) (map[int64]Row, error) {
	const q = `
		SELECT DISTINCT ON (b.item_id)
		       b.id, b.start_date, b.end_date, b.status, b.item_id, b.booker_id
		FROM bookings b
		WHERE b.item_id = ANY($1)
		  AND b.status = 'APPROVED'
		  AND b.start_date > $2
		ORDER BY b.item_id, b.start_date ASC`
	return r.perItem(ctx, q, itemIDs, now)
}

func (r *repo) perItem(ctx context.Context, q string, itemIDs []int64, now time.Time) (map[int64]Row, error) {
	rows, err := r.db.Pool.Query(ctx, q, itemIDs, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64]Row, len(itemIDs))
	for rows.Next() {
		var b Row
		if err := rows.Scan(&b.ID, &b.Start, &b.End, &b.Status, &b.ItemID, &b.BookerID); err != nil {
			return nil, err
		}
		out[b.ItemID] = b
	}
	return out, rows.Err()
}

func (r *repo) HasFinishedApproved(ctx context.Context, itemID, bookerID int64, now time.Time) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1
			FROM bookings
			WHERE item_id = $1
			  AND booker_id = $2
			  AND status = 'APPROVED'
			  AND end_date < $3
		)`
	var ok bool
	if err := r.db.Pool.QueryRow(ctx, q, itemID, bookerID, now).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}
