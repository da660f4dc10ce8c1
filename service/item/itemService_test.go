package itemsvc

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"gearshare/model"
	bookingsvc "gearshare/service/booking"
)

type repoMock struct {
	createFn       func(ctx context.Context, i *model.Item) error
	updateFn       func(ctx context.Context, i *model.Item) error
	getFn          func(ctx context.Context, id int64) (*model.Item, error)
	listByOwnerFn  func(ctx context.Context, ownerID int64, limit, offset int) ([]model.Item, error)
	searchFn       func(ctx context.Context, text string, limit, offset int) ([]model.Item, error)
	insertCommFn   func(ctx context.Context, c *model.Comment) error
	listCommentsFn func(ctx context.Context, itemIDs []int64) ([]CommentView, error)
}

var _ Repo = (*repoMock)(nil)

func (m *repoMock) Create(ctx context.Context, i *model.Item) error { return m.createFn(ctx, i) }
func (m *repoMock) Update(ctx context.Context, i *model.Item) error { return m.updateFn(ctx, i) }
func (m *repoMock) GetByID(ctx context.Context, id int64) (*model.Item, error) {
	return m.getFn(ctx, id)
}
func (m *repoMock) ListByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]model.Item, error) {
	return m.listByOwnerFn(ctx, ownerID, limit, offset)
}
func (m *repoMock) Search(ctx context.Context, text string, limit, offset int) ([]model.Item, error) {
	return m.searchFn(ctx, text, limit, offset)
}
func (m *repoMock) InsertComment(ctx context.Context, c *model.Comment) error {
	return m.insertCommFn(ctx, c)
}
func (m *repoMock) ListCommentsForItems(ctx context.Context, itemIDs []int64) ([]CommentView, error) {
	if m.listCommentsFn == nil {
		return nil, nil
	}
	return m.listCommentsFn(ctx, itemIDs)
}

type usersMock struct {
	getFn func(ctx context.Context, id int64) (*model.User, error)
}

func (m *usersMock) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return m.getFn(ctx, id)
}

type requestsMock struct {
	getFn func(ctx context.Context, id int64) (*model.Request, error)
}

func (m *requestsMock) GetByID(ctx context.Context, id int64) (*model.Request, error) {
	return m.getFn(ctx, id)
}

type bookingsMock struct {
	lastNextFn    func(ctx context.Context, itemIDs []int64) (map[int64]bookingsvc.Ref, map[int64]bookingsvc.Ref, error)
	hasFinishedFn func(ctx context.Context, itemID, bookerID int64) (bool, error)
}

func (m *bookingsMock) LastAndNext(ctx context.Context, itemIDs []int64) (map[int64]bookingsvc.Ref, map[int64]bookingsvc.Ref, error) {
	if m.lastNextFn == nil {
		return nil, nil, nil
	}
	return m.lastNextFn(ctx, itemIDs)
}
func (m *bookingsMock) HasFinished(ctx context.Context, itemID, bookerID int64) (bool, error) {
	return m.hasFinishedFn(ctx, itemID, bookerID)
}

func knownUser(id int64) *usersMock {
	return &usersMock{getFn: func(ctx context.Context, got int64) (*model.User, error) {
		if got != id {
			return nil, pgx.ErrNoRows
		}
		return &model.User{ID: id, Name: "owner"}, nil
	}}
}

func storedItem() *model.Item {
	return &model.Item{ID: 5, Name: "drill", Description: "cordless", Available: true, OwnerID: 1}
}

// --- Update ---

func TestUpdate_PartialFieldsOnly(t *testing.T) {
	var saved *model.Item
	r := &repoMock{
		getFn:    func(ctx context.Context, id int64) (*model.Item, error) { return storedItem(), nil },
		updateFn: func(ctx context.Context, i *model.Item) error { saved = i; return nil },
	}
	svc := New(r, knownUser(1), &requestsMock{}, &bookingsMock{})

	// blank name and nil available must not overwrite
	got, err := svc.Update(context.Background(), 1, 5, UpdateInput{Name: "  ", Description: "with charger"})
	require.NoError(t, err)
	require.Equal(t, "drill", saved.Name)
	require.Equal(t, "with charger", saved.Description)
	require.True(t, saved.Available)
	require.Equal(t, got, saved)
}

func TestUpdate_AvailabilityToggle(t *testing.T) {
	var saved *model.Item
	r := &repoMock{
		getFn:    func(ctx context.Context, id int64) (*model.Item, error) { return storedItem(), nil },
		updateFn: func(ctx context.Context, i *model.Item) error { saved = i; return nil },
	}
	svc := New(r, knownUser(1), &requestsMock{}, &bookingsMock{})

	off := false
	_, err := svc.Update(context.Background(), 1, 5, UpdateInput{Available: &off})
	require.NoError(t, err)
	require.False(t, saved.Available)
	require.Equal(t, "drill", saved.Name)
}

func TestUpdate_NotOwner(t *testing.T) {
	r := &repoMock{getFn: func(ctx context.Context, id int64) (*model.Item, error) { return storedItem(), nil }}
	svc := New(r, knownUser(2), &requestsMock{}, &bookingsMock{})

	_, err := svc.Update(context.Background(), 2, 5, UpdateInput{Name: "x"})
	require.Equal(t, ErrNotOwner, Code(err))
}

func TestUpdate_ItemNotFound(t *testing.T) {
	r := &repoMock{getFn: func(ctx context.Context, id int64) (*model.Item, error) { return nil, pgx.ErrNoRows }}
	svc := New(r, knownUser(1), &requestsMock{}, &bookingsMock{})

	_, err := svc.Update(context.Background(), 1, 404, UpdateInput{Name: "x"})
	require.Equal(t, ErrItemNotFound, Code(err))
}

// --- Create ---

func TestCreate_UnknownRequest(t *testing.T) {
	reqs := &requestsMock{getFn: func(ctx context.Context, id int64) (*model.Request, error) {
		return nil, pgx.ErrNoRows
	}}
	svc := New(&repoMock{}, knownUser(1), reqs, &bookingsMock{})

	rid := int64(9)
	_, err := svc.Create(context.Background(), 1, CreateInput{Name: "drill", Description: "d", Available: true, RequestID: &rid})
	require.Equal(t, ErrRequestNotFound, Code(err))
}

func TestCreate_UserNotFound(t *testing.T) {
	svc := New(&repoMock{}, knownUser(1), &requestsMock{}, &bookingsMock{})
	_, err := svc.Create(context.Background(), 99, CreateInput{Name: "drill"})
	require.Equal(t, ErrUserNotFound, Code(err))
}

// --- Get: owner sees last/next, others don't ---

func TestGet_OwnerSeesLastNext(t *testing.T) {
	last := bookingsvc.Ref{ID: 1, BookerID: 2, Start: time.Now().Add(-2 * time.Hour), End: time.Now().Add(-time.Hour)}
	next := bookingsvc.Ref{ID: 2, BookerID: 3, Start: time.Now().Add(time.Hour), End: time.Now().Add(2 * time.Hour)}

	r := &repoMock{getFn: func(ctx context.Context, id int64) (*model.Item, error) { return storedItem(), nil }}
	b := &bookingsMock{lastNextFn: func(ctx context.Context, itemIDs []int64) (map[int64]bookingsvc.Ref, map[int64]bookingsvc.Ref, error) {
		require.Equal(t, []int64{5}, itemIDs)
		return map[int64]bookingsvc.Ref{5: last}, map[int64]bookingsvc.Ref{5: next}, nil
	}}
	svc := New(r, knownUser(1), &requestsMock{}, b)

	v, err := svc.Get(context.Background(), 1, 5)
	require.NoError(t, err)
	require.NotNil(t, v.LastBooking)
	require.Equal(t, int64(1), v.LastBooking.ID)
	require.NotNil(t, v.NextBooking)
	require.Equal(t, int64(2), v.NextBooking.ID)
}

func TestGet_NonOwnerSeesNoBookings(t *testing.T) {
	r := &repoMock{getFn: func(ctx context.Context, id int64) (*model.Item, error) { return storedItem(), nil }}
	b := &bookingsMock{lastNextFn: func(ctx context.Context, itemIDs []int64) (map[int64]bookingsvc.Ref, map[int64]bookingsvc.Ref, error) {
		t.Fatal("derivation must not run for non-owners")
		return nil, nil, nil
	}}
	svc := New(r, knownUser(2), &requestsMock{}, b)

	v, err := svc.Get(context.Background(), 2, 5)
	require.NoError(t, err)
	require.Nil(t, v.LastBooking)
	require.Nil(t, v.NextBooking)
}

// --- Search ---

func TestSearch_BlankTextYieldsEmpty(t *testing.T) {
	r := &repoMock{searchFn: func(ctx context.Context, text string, limit, offset int) ([]model.Item, error) {
		t.Fatal("repo must not be queried for blank text")
		return nil, nil
	}}
	svc := New(r, knownUser(1), &requestsMock{}, &bookingsMock{})

	out, err := svc.Search(context.Background(), "   ", 0, 10)
	require.NoError(t, err)
	require.Empty(t, out)
}

// --- Comments ---

func TestAddComment_RequiresFinishedBooking(t *testing.T) {
	r := &repoMock{getFn: func(ctx context.Context, id int64) (*model.Item, error) { return storedItem(), nil }}
	b := &bookingsMock{hasFinishedFn: func(ctx context.Context, itemID, bookerID int64) (bool, error) {
		return false, nil
	}}
	svc := New(r, knownUser(2), &requestsMock{}, b)

	_, err := svc.AddComment(context.Background(), 2, 5, "great drill")
	require.Equal(t, ErrNoCompletedBooking, Code(err))
}

func TestAddComment_Success(t *testing.T) {
	r := &repoMock{
		getFn: func(ctx context.Context, id int64) (*model.Item, error) { return storedItem(), nil },
		insertCommFn: func(ctx context.Context, c *model.Comment) error {
			c.ID = 11
			c.Created = time.Now()
			return nil
		},
	}
	b := &bookingsMock{hasFinishedFn: func(ctx context.Context, itemID, bookerID int64) (bool, error) {
		return true, nil
	}}
	svc := New(r, knownUser(2), &requestsMock{}, b)

	c, err := svc.AddComment(context.Background(), 2, 5, "great drill")
	require.NoError(t, err)
	require.Equal(t, int64(11), c.ID)
	require.Equal(t, "owner", c.AuthorName)
	require.Equal(t, "great drill", c.Text)
}
