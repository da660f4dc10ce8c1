package requestsvc

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"gearshare/model"
)

type repoMock struct {
	createFn     func(ctx context.Context, r *model.Request) error
	getFn        func(ctx context.Context, id int64) (*model.Request, error)
	listOwnFn    func(ctx context.Context, requestorID int64) ([]model.Request, error)
	listOthersFn func(ctx context.Context, requestorID int64, limit, offset int) ([]model.Request, error)
}

var _ Repo = (*repoMock)(nil)

func (m *repoMock) Create(ctx context.Context, r *model.Request) error { return m.createFn(ctx, r) }
func (m *repoMock) GetByID(ctx context.Context, id int64) (*model.Request, error) {
	return m.getFn(ctx, id)
}
func (m *repoMock) ListByRequestor(ctx context.Context, requestorID int64) ([]model.Request, error) {
	return m.listOwnFn(ctx, requestorID)
}
func (m *repoMock) ListOthers(ctx context.Context, requestorID int64, limit, offset int) ([]model.Request, error) {
	return m.listOthersFn(ctx, requestorID, limit, offset)
}

type usersMock struct {
	getFn func(ctx context.Context, id int64) (*model.User, error)
}

func (m *usersMock) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return m.getFn(ctx, id)
}

type itemsMock struct {
	listFn func(ctx context.Context, requestIDs []int64) ([]model.Item, error)
}

func (m *itemsMock) ListByRequestIDs(ctx context.Context, requestIDs []int64) ([]model.Item, error) {
	if m.listFn == nil {
		return nil, nil
	}
	return m.listFn(ctx, requestIDs)
}

func knownUser(id int64) *usersMock {
	return &usersMock{getFn: func(ctx context.Context, got int64) (*model.User, error) {
		if got != id {
			return nil, pgx.ErrNoRows
		}
		return &model.User{ID: id}, nil
	}}
}

func TestCreate_Success(t *testing.T) {
	m := &repoMock{createFn: func(ctx context.Context, r *model.Request) error {
		r.ID = 3
		r.Created = time.Now()
		return nil
	}}
	svc := New(m, knownUser(1), &itemsMock{})

	req, err := svc.Create(context.Background(), 1, "need a ladder")
	require.NoError(t, err)
	require.Equal(t, int64(3), req.ID)
	require.Equal(t, int64(1), req.RequestorID)
}

func TestCreate_UserNotFound(t *testing.T) {
	svc := New(&repoMock{}, knownUser(1), &itemsMock{})
	_, err := svc.Create(context.Background(), 99, "need a ladder")
	require.Equal(t, ErrUserNotFound, Code(err))
}

func TestListOwn_AggregatesItems(t *testing.T) {
	rid := int64(3)
	m := &repoMock{listOwnFn: func(ctx context.Context, requestorID int64) ([]model.Request, error) {
		return []model.Request{{ID: 3, Description: "need a ladder", RequestorID: 1}}, nil
	}}
	items := &itemsMock{listFn: func(ctx context.Context, requestIDs []int64) ([]model.Item, error) {
		require.Equal(t, []int64{3}, requestIDs)
		return []model.Item{{ID: 8, Name: "ladder", RequestID: &rid}}, nil
	}}
	svc := New(m, knownUser(1), items)

	views, err := svc.ListOwn(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Len(t, views[0].Items, 1)
	require.Equal(t, "ladder", views[0].Items[0].Name)
}

func TestListOthers_Pagination(t *testing.T) {
	var gotLimit, gotOffset int
	m := &repoMock{listOthersFn: func(ctx context.Context, requestorID int64, limit, offset int) ([]model.Request, error) {
		gotLimit, gotOffset = limit, offset
		return nil, nil
	}}
	svc := New(m, knownUser(1), &itemsMock{})

	_, err := svc.ListOthers(context.Background(), 1, 5, 2)
	require.NoError(t, err)
	require.Equal(t, 2, gotLimit)
	require.Equal(t, 4, gotOffset) // from=5 size=2 snaps to page 2

	_, err = svc.ListOthers(context.Background(), 1, -1, 2)
	require.Equal(t, ErrInvalidPagination, Code(err))
}

func TestGet_NotFound(t *testing.T) {
	m := &repoMock{getFn: func(ctx context.Context, id int64) (*model.Request, error) { return nil, pgx.ErrNoRows }}
	svc := New(m, knownUser(1), &itemsMock{})

	_, err := svc.Get(context.Background(), 1, 404)
	require.Equal(t, ErrRequestNotFound, Code(err))
}

func TestGet_WithItems(t *testing.T) {
	rid := int64(3)
	m := &repoMock{getFn: func(ctx context.Context, id int64) (*model.Request, error) {
		return &model.Request{ID: 3, Description: "need a ladder", RequestorID: 2}, nil
	}}
	items := &itemsMock{listFn: func(ctx context.Context, requestIDs []int64) ([]model.Item, error) {
		return []model.Item{{ID: 8, Name: "ladder", RequestID: &rid}}, nil
	}}
	svc := New(m, knownUser(1), items)

	v, err := svc.Get(context.Background(), 1, 3)
	require.NoError(t, err)
	require.Equal(t, int64(3), v.Request.ID)
	require.Len(t, v.Items, 1)
}
