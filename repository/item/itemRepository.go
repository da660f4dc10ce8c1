package itemrepo

import (
	"context"
	"fmt"
	"time"

	"gearshare/model"
	"gearshare/util/database"
)

// CommentRow carries the author name alongside the comment so item views
// don't need a second lookup per comment.
type CommentRow struct {
	ID         int64     `json:"id"`
	Text       string    `json:"text"`
	ItemID     int64     `json:"item_id"`
	AuthorName string    `json:"author_name"`
	Created    time.Time `json:"created"`
}

type Repo interface {
	Create(ctx context.Context, i *model.Item) error
	Update(ctx context.Context, i *model.Item) error
	GetByID(ctx context.Context, id int64) (*model.Item, error)
	ListByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]model.Item, error)
	Search(ctx context.Context, text string, limit, offset int) ([]model.Item, error)
	ListByRequestIDs(ctx context.Context, requestIDs []int64) ([]model.Item, error)

	InsertComment(ctx context.Context, c *model.Comment) error
	ListCommentsForItems(ctx context.Context, itemIDs []int64) ([]CommentRow, error)
}

type repo struct{ db *database.DB }

func New(db *database.DB) Repo { return &repo{db} }

func (r *repo) Create(ctx context.Context, i *model.Item) error {
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO items (name, description, available, owner_id, request_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		i.Name, i.Description, i.Available, i.OwnerID, i.RequestID,
	).Scan(&i.ID)
}

func (r *repo) Update(ctx context.Context, i *model.Item) error {
	_, err := r.db.Pool.Exec(ctx, `
		UPDATE items
		SET name = $2, description = $3, available = $4
		WHERE id = $1`,
		i.ID, i.Name, i.Description, i.Available,
	)
	return err
}

func (r *repo) GetByID(ctx context.Context, id int64) (*model.Item, error) {
	i := &model.Item{}
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, name, description, available, owner_id, request_id
		FROM items
		WHERE id = $1`,
		id,
	).Scan(&i.ID, &i.Name, &i.Description, &i.Available, &i.OwnerID, &i.RequestID)
	if err != nil {
		return nil, err
	}
	return i, nil
}

func (r *repo) ListByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]model.Item, error) {
	q := fmt.Sprintf(`
		SELECT id, name, description, available, owner_id, request_id
		FROM items
		WHERE owner_id = $1
		ORDER BY id
		LIMIT %d OFFSET %d`, limit, offset)
	return r.queryItems(ctx, q, ownerID)
}

func (r *repo) Search(ctx context.Context, text string, limit, offset int) ([]model.Item, error) {
	q := fmt.Sprintf(`
		SELECT id, name, description, available, owner_id, request_id
		FROM items
		WHERE available
		  AND (name ILIKE '%%' || $1 || '%%' OR description ILIKE '%%' || $1 || '%%')
		ORDER BY id
		LIMIT %d OFFSET %d`, limit, offset)
	return r.queryItems(ctx, q, text)
}

func (r *repo) ListByRequestIDs(ctx context.Context, requestIDs []int64) ([]model.Item, error) {
	const q = `
		SELECT id, name, description, available, owner_id, request_id
		FROM items
		WHERE request_id = ANY($1)
		ORDER BY id`
	return r.queryItems(ctx, q, requestIDs)
}

func (r *repo) queryItems(ctx context.Context, q string, args ...any) ([]model.Item, error) {
	rows, err := r.db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Item
	for rows.Next() {
		var i model.Item
		if err := rows.Scan(&i.ID, &i.Name, &i.Description, &i.Available, &i.OwnerID, &i.RequestID); err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

func (r *repo) InsertComment(ctx context.Context, c *model.Comment) error {
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO comments (text, item_id, author_id)
		VALUES ($1, $2, $3)
		RETURNING id, created`,
		c.Text, c.ItemID, c.AuthorID,
	).Scan(&c.ID, &c.Created)
}

func (r *repo) ListCommentsForItems(ctx context.Context, itemIDs []int64) ([]CommentRow, error) {
	const q = `
		SELECT c.id, c.text, c.item_id, u.name, c.created
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.item_id = ANY($1)
		ORDER BY c.created DESC, c.id DESC`
	rows, err := r.db.Pool.Query(ctx, q, itemIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CommentRow
	for rows.Next() {
		var c CommentRow
		if err := rows.Scan(&c.ID, &c.Text, &c.ItemID, &c.AuthorName, &c.Created); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
