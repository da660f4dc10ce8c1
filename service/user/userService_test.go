package usersvc

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"gearshare/model"
)

type repoMock struct {
	createFn func(ctx context.Context, u *model.User) error
	updateFn func(ctx context.Context, u *model.User) error
	getFn    func(ctx context.Context, id int64) (*model.User, error)
	listFn   func(ctx context.Context) ([]model.User, error)
	deleteFn func(ctx context.Context, id int64) (bool, error)
}

var _ Repo = (*repoMock)(nil)

func (m *repoMock) Create(ctx context.Context, u *model.User) error { return m.createFn(ctx, u) }
func (m *repoMock) Update(ctx context.Context, u *model.User) error { return m.updateFn(ctx, u) }
func (m *repoMock) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return m.getFn(ctx, id)
}
func (m *repoMock) List(ctx context.Context) ([]model.User, error)  { return m.listFn(ctx) }
func (m *repoMock) Delete(ctx context.Context, id int64) (bool, error) {
	return m.deleteFn(ctx, id)
}

func uniqueViolation() error {
	return &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "users_email_key"}
}

func TestCreate_Success(t *testing.T) {
	m := &repoMock{createFn: func(ctx context.Context, u *model.User) error {
		u.ID = 42
		return nil
	}}
	svc := New(m)

	u, err := svc.Create(context.Background(), "Ann", "ann@example.com")
	require.NoError(t, err)
	require.Equal(t, int64(42), u.ID)
	require.Equal(t, "ann@example.com", u.Email)
}

func TestCreate_EmailTaken(t *testing.T) {
	m := &repoMock{createFn: func(ctx context.Context, u *model.User) error { return uniqueViolation() }}
	svc := New(m)

	_, err := svc.Create(context.Background(), "Ann", "taken@example.com")
	require.Equal(t, ErrEmailTaken, Code(err))
}

func TestUpdate_PartialFields(t *testing.T) {
	var saved *model.User
	m := &repoMock{
		getFn: func(ctx context.Context, id int64) (*model.User, error) {
			return &model.User{ID: id, Name: "Ann", Email: "ann@example.com"}, nil
		},
		updateFn: func(ctx context.Context, u *model.User) error { saved = u; return nil },
	}
	svc := New(m)

	u, err := svc.Update(context.Background(), 1, UpdateInput{Name: "  ", Email: "new@example.com"})
	require.NoError(t, err)
	require.Equal(t, "Ann", saved.Name)
	require.Equal(t, "new@example.com", saved.Email)
	require.Equal(t, u, saved)
}

func TestUpdate_NotFound(t *testing.T) {
	m := &repoMock{getFn: func(ctx context.Context, id int64) (*model.User, error) { return nil, pgx.ErrNoRows }}
	svc := New(m)

	_, err := svc.Update(context.Background(), 404, UpdateInput{Name: "x"})
	require.Equal(t, ErrNotFound, Code(err))
}

func TestUpdate_EmailTaken(t *testing.T) {
	m := &repoMock{
		getFn: func(ctx context.Context, id int64) (*model.User, error) {
			return &model.User{ID: id, Name: "Ann", Email: "ann@example.com"}, nil
		},
		updateFn: func(ctx context.Context, u *model.User) error { return uniqueViolation() },
	}
	svc := New(m)

	_, err := svc.Update(context.Background(), 1, UpdateInput{Email: "taken@example.com"})
	require.Equal(t, ErrEmailTaken, Code(err))
}

func TestGet_NotFound(t *testing.T) {
	m := &repoMock{getFn: func(ctx context.Context, id int64) (*model.User, error) { return nil, pgx.ErrNoRows }}
	svc := New(m)

	_, err := svc.Get(context.Background(), 404)
	require.Equal(t, ErrNotFound, Code(err))
}

func TestDelete(t *testing.T) {
	m := &repoMock{deleteFn: func(ctx context.Context, id int64) (bool, error) { return id == 1, nil }}
	svc := New(m)

	require.NoError(t, svc.Delete(context.Background(), 1))
	require.Equal(t, ErrNotFound, Code(svc.Delete(context.Background(), 2)))
}

func TestDelete_RepoError(t *testing.T) {
	m := &repoMock{deleteFn: func(ctx context.Context, id int64) (bool, error) {
		return false, errors.New("db down")
	}}
	svc := New(m)

	err := svc.Delete(context.Background(), 1)
	require.Error(t, err)
	require.Equal(t, ErrCode(""), Code(err))
}
