package itemsvc

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"gearshare/model"
	itemrepo "gearshare/repository/item"
	bookingsvc "gearshare/service/booking"
)

type ErrCode string

const (
	ErrUserNotFound       ErrCode = "USER_NOT_FOUND"
	ErrItemNotFound       ErrCode = "ITEM_NOT_FOUND"
	ErrRequestNotFound    ErrCode = "REQUEST_NOT_FOUND"
	ErrNotOwner           ErrCode = "NOT_OWNER"
	ErrNoCompletedBooking ErrCode = "NO_COMPLETED_BOOKING"
	ErrInvalidPagination  ErrCode = "INVALID_PAGINATION"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// views

type CommentView = itemrepo.CommentRow
type BookingRef = bookingsvc.Ref

// View is an item as seen by a viewer: comments always, last/next bookings
// only when the viewer owns the item.
type View struct {
	Item        model.Item
	LastBooking *BookingRef
	NextBooking *BookingRef
	Comments    []CommentView
}

type CreateInput struct {
	Name        string
	Description string
	Available   bool
	RequestID   *int64
}

// UpdateInput is a partial update: blank strings and nil pointers leave the
// stored value untouched.
type UpdateInput struct {
	Name        string
	Description string
	Available   *bool
}

type Repo interface {
	Create(ctx context.Context, i *model.Item) error
	Update(ctx context.Context, i *model.Item) error
	GetByID(ctx context.Context, id int64) (*model.Item, error)
	ListByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]model.Item, error)
	Search(ctx context.Context, text string, limit, offset int) ([]model.Item, error)
	InsertComment(ctx context.Context, c *model.Comment) error
	ListCommentsForItems(ctx context.Context, itemIDs []int64) ([]CommentView, error)
}

type Users interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

type Requests interface {
	GetByID(ctx context.Context, id int64) (*model.Request, error)
}

type Bookings interface {
	LastAndNext(ctx context.Context, itemIDs []int64) (last, next map[int64]bookingsvc.Ref, err error)
	HasFinished(ctx context.Context, itemID, bookerID int64) (bool, error)
}

type Service interface {
	Create(ctx context.Context, ownerID int64, in CreateInput) (*model.Item, error)
	Update(ctx context.Context, callerID, itemID int64, in UpdateInput) (*model.Item, error)
	Get(ctx context.Context, callerID, itemID int64) (*View, error)
	ListByOwner(ctx context.Context, ownerID int64, from, size int) ([]View, error)
	Search(ctx context.Context, text string, from, size int) ([]model.Item, error)
	AddComment(ctx context.Context, authorID, itemID int64, text string) (*CommentView, error)
}

type service struct {
	r        Repo
	users    Users
	requests Requests
	bookings Bookings
}

func New(r Repo, users Users, requests Requests, bookings Bookings) Service {
	return &service{r: r, users: users, requests: requests, bookings: bookings}
}

func (s *service) Create(ctx context.Context, ownerID int64, in CreateInput) (*model.Item, error) {
	if _, err := s.users.GetByID(ctx, ownerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, makeErr(ErrUserNotFound)
		}
		return nil, err
	}
	if in.RequestID != nil {
		if _, err := s.requests.GetByID(ctx, *in.RequestID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, makeErr(ErrRequestNotFound)
			}
			return nil, err
		}
	}

	item := &model.Item{
		Name:        in.Name,
		Description: in.Description,
		Available:   in.Available,
		OwnerID:     ownerID,
		RequestID:   in.RequestID,
	}
	if err := s.r.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *service) Update(ctx context.Context, callerID, itemID int64, in UpdateInput) (*model.Item, error) {
	item, err := s.r.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, makeErr(ErrItemNotFound)
		}
		return nil, err
	}
	if item.OwnerID != callerID {
		return nil, makeErr(ErrNotOwner)
	}

	// partial update: absent or blank fields are a no-op
	if strings.TrimSpace(in.Name) != "" {
		item.Name = in.Name
	}
	if strings.TrimSpace(in.Description) != "" {
		item.Description = in.Description
	}
	if in.Available != nil {
		item.Available = *in.Available
	}

	if err := s.r.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *service) Get(ctx context.Context, callerID, itemID int64) (*View, error) {
	item, err := s.r.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, makeErr(ErrItemNotFound)
		}
		return nil, err
	}

	comments, err := s.r.ListCommentsForItems(ctx, []int64{itemID})
	if err != nil {
		return nil, err
	}

	v := &View{Item: *item, Comments: comments}
	if item.OwnerID == callerID {
		last, next, err := s.bookings.LastAndNext(ctx, []int64{itemID})
		if err != nil {
			return nil, err
		}
		v.LastBooking = refFor(last, itemID)
		v.NextBooking = refFor(next, itemID)
	}
	return v, nil
}

func (s *service) ListByOwner(ctx context.Context, ownerID int64, from, size int) ([]View, error) {
	if _, err := s.users.GetByID(ctx, ownerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, makeErr(ErrUserNotFound)
		}
		return nil, err
	}
	if from < 0 || size < 1 {
		return nil, makeErr(ErrInvalidPagination)
	}

	page := from / size
	items, err := s.r.ListByOwner(ctx, ownerID, size, page*size)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []View{}, nil
	}

	ids := make([]int64, 0, len(items))
	for _, i := range items {
		ids = append(ids, i.ID)
	}

	last, next, err := s.bookings.LastAndNext(ctx, ids)
	if err != nil {
		return nil, err
	}
	comments, err := s.r.ListCommentsForItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	byItem := make(map[int64][]CommentView)
	for _, c := range comments {
		byItem[c.ItemID] = append(byItem[c.ItemID], c)
	}

	out := make([]View, 0, len(items))
	for _, i := range items {
		out = append(out, View{
			Item:        i,
			LastBooking: refFor(last, i.ID),
			NextBooking: refFor(next, i.ID),
			Comments:    byItem[i.ID],
		})
	}
	return out, nil
}

func (s *service) Search(ctx context.Context, text string, from, size int) ([]model.Item, error) {
	if strings.TrimSpace(text) == "" {
		return []model.Item{}, nil
	}
	if from < 0 || size < 1 {
		return nil, makeErr(ErrInvalidPagination)
	}
	page := from / size
	return s.r.Search(ctx, text, size, page*size)
}

func (s *service) AddComment(ctx context.Context, authorID, itemID int64, text string) (*CommentView, error) {
	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, makeErr(ErrUserNotFound)
		}
		return nil, err
	}
	if _, err := s.r.GetByID(ctx, itemID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, makeErr(ErrItemNotFound)
		}
		return nil, err
	}

	ok, err := s.bookings.HasFinished(ctx, itemID, authorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, makeErr(ErrNoCompletedBooking)
	}

	c := &model.Comment{Text: text, ItemID: itemID, AuthorID: authorID}
	if err := s.r.InsertComment(ctx, c); err != nil {
		return nil, err
	}
	return &CommentView{
		ID:         c.ID,
		Text:       c.Text,
		ItemID:     c.ItemID,
		AuthorName: author.Name,
		Created:    c.Created,
	}, nil
}

func refFor(m map[int64]BookingRef, itemID int64) *BookingRef {
	if r, ok := m[itemID]; ok {
		return &r
	}
	return nil
}
