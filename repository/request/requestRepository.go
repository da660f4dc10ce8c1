package requestrepo

import (
	"context"
	"fmt"

	"gearshare/model"
	"gearshare/util/database"
)

type Repo interface {
	Create(ctx context.Context, r *model.Request) error
	GetByID(ctx context.Context, id int64) (*model.Request, error)
	ListByRequestor(ctx context.Context, requestorID int64) ([]model.Request, error)
	ListOthers(ctx context.Context, requestorID int64, limit, offset int) ([]model.Request, error)
}

type repo struct{ db *database.DB }

func New(db *database.DB) Repo { return &repo{db} }

func (r *repo) Create(ctx context.Context, req *model.Request) error {
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO requests (description, requestor_id)
		VALUES ($1, $2)
		RETURNING id, created`,
		req.Description, req.RequestorID,
	).Scan(&req.ID, &req.Created)
}

func (r *repo) GetByID(ctx context.Context, id int64) (*model.Request, error) {
	req := &model.Request{}
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, description, requestor_id, created
		FROM requests
		WHERE id = $1`,
		id,
	).Scan(&req.ID, &req.Description, &req.RequestorID, &req.Created)
	if err != nil {
		return nil, err
	}
	return req, nil
}

func (r *repo) ListByRequestor(ctx context.Context, requestorID int64) ([]model.Request, error) {
	const q = `
		SELECT id, description, requestor_id, created
		FROM requests
		WHERE requestor_id = $1
		ORDER BY created DESC, id DESC`
	return r.query(ctx, q, requestorID)
}

func (r *repo) ListOthers(ctx context.Context, requestorID int64, limit, offset int) ([]model.Request, error) {
	q := fmt.Sprintf(`
		SELECT id, description, requestor_id, created
		FROM requests
		WHERE requestor_id <> $1
		ORDER BY created DESC, id DESC
		LIMIT %d OFFSET %d`, limit, offset)
	return r.query(ctx, q, requestorID)
}

func (r *repo) query(ctx context.Context, q string, args ...any) ([]model.Request, error) {
	rows, err := r.db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Request
	for rows.Next() {
		var req model.Request
		if err := rows.Scan(&req.ID, &req.Description, &req.RequestorID, &req.Created); err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}
