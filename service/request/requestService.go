package requestsvc

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"gearshare/model"
)

type ErrCode string

const (
	ErrUserNotFound      ErrCode = "USER_NOT_FOUND"
	ErrRequestNotFound   ErrCode = "REQUEST_NOT_FOUND"
	ErrInvalidPagination ErrCode = "INVALID_PAGINATION"
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

// View is a request with the items offered in answer to it. The item list
// is derived at read time from items whose request_id points here.
type View struct {
	Request model.Request
	Items   []model.Item
}

type Repo interface {
	Create(ctx context.Context, r *model.Request) error
	GetByID(ctx context.Context, id int64) (*model.Request, error)
	ListByRequestor(ctx context.Context, requestorID int64) ([]model.Request, error)
	ListOthers(ctx context.Context, requestorID int64, limit, offset int) ([]model.Request, error)
}

type Users interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

type Items interface {
	ListByRequestIDs(ctx context.Context, requestIDs []int64) ([]model.Item, error)
}

type Service interface {
	Create(ctx context.Context, requestorID int64, description string) (*model.Request, error)
	ListOwn(ctx context.Context, requestorID int64) ([]View, error)
	ListOthers(ctx context.Context, requestorID int64, from, size int) ([]View, error)
	Get(ctx context.Context, callerID, requestID int64) (*View, error)
}

type service struct {
	r     Repo
	users Users
	items Items
}

func New(r Repo, users Users, items Items) Service {
	return &service{r: r, users: users, items: items}
}

func (s *service) Create(ctx context.Context, requestorID int64, description string) (*model.Request, error) {
	if err := s.checkUser(ctx, requestorID); err != nil {
		return nil, err
	}
	req := &model.Request{Description: description, RequestorID: requestorID}
	if err := s.r.Create(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *service) ListOwn(ctx context.Context, requestorID int64) ([]View, error) {
	if err := s.checkUser(ctx, requestorID); err != nil {
		return nil, err
	}
	reqs, err := s.r.ListByRequestor(ctx, requestorID)
	if err != nil {
		return nil, err
	}
	return s.attachItems(ctx, reqs)
}

func (s *service) ListOthers(ctx context.Context, requestorID int64, from, size int) ([]View, error) {
	if err := s.checkUser(ctx, requestorID); err != nil {
		return nil, err
	}
	if from < 0 || size < 1 {
		return nil, makeErr(ErrInvalidPagination)
	}
	page := from / size
	reqs, err := s.r.ListOthers(ctx, requestorID, size, page*size)
	if err != nil {
		return nil, err
	}
	return s.attachItems(ctx, reqs)
}

func (s *service) Get(ctx context.Context, callerID, requestID int64) (*View, error) {
	if err := s.checkUser(ctx, callerID); err != nil {
		return nil, err
	}
	req, err := s.r.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, makeErr(ErrRequestNotFound)
		}
		return nil, err
	}
	views, err := s.attachItems(ctx, []model.Request{*req})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *service) checkUser(ctx context.Context, id int64) error {
	if _, err := s.users.GetByID(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return makeErr(ErrUserNotFound)
		}
		return err
	}
	return nil
}

func (s *service) attachItems(ctx context.Context, reqs []model.Request) ([]View, error) {
	if len(reqs) == 0 {
		return []View{}, nil
	}

	ids := make([]int64, 0, len(reqs))
	for _, r := range reqs {
		ids = append(ids, r.ID)
	}
	items, err := s.items.ListByRequestIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byReq := make(map[int64][]model.Item)
	for _, i := range items {
		if i.RequestID != nil {
			byReq[*i.RequestID] = append(byReq[*i.RequestID], i)
		}
	}

	out := make([]View, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, View{Request: r, Items: byReq[r.ID]})
	}
	return out, nil
}
