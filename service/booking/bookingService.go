package bookingsvc

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"gearshare/model"
	bookingrepo "gearshare/repository/booking"
)

// errors used by controllers

type ErrCode string

const (
	ErrUserNotFound      ErrCode = "USER_NOT_FOUND"
	ErrItemNotFound      ErrCode = "ITEM_NOT_FOUND"
	ErrBookingNotFound   ErrCode = "BOOKING_NOT_FOUND"
	ErrNotItemHost       ErrCode = "NOT_ITEM_HOST"
	ErrNotAuthorized     ErrCode = "NOT_AUTHORIZED_FOR_BOOKING"
	ErrInvalidTimeRange  ErrCode = "INVALID_TIME_RANGE"
	ErrSelfBooking       ErrCode = "SELF_BOOKING_NOT_ALLOWED"
	ErrItemNotAvailable  ErrCode = "ITEM_NOT_AVAILABLE"
	ErrAlreadyDecided    ErrCode = "ALREADY_DECIDED"
	ErrUnsupportedState  ErrCode = "UNSUPPORTED_STATE"
	ErrInvalidPagination ErrCode = "INVALID_PAGINATION"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// views

type Row = bookingrepo.Row

type ItemRef struct {
	ID   int64
	Name string
}

type UserRef struct {
	ID int64
}

type Booking struct {
	ID     int64
	Start  time.Time
	End    time.Time
	Status model.BookingStatus
	Item   ItemRef
	Booker UserRef
}

// Ref is the reduced projection used for an item's last/next booking.
type Ref struct {
	ID       int64
	BookerID int64
	Start    time.Time
	End      time.Time
}

type CreateInput struct {
	ItemID int64
	Start  time.Time
	End    time.Time
}

type Repo interface {
	InsertIfAvailable(ctx context.Context, itemID, bookerID int64, start, end time.Time) (int64, error)
	GetByID(ctx context.Context, id int64) (*Row, error)
	UpdateStatusIfWaiting(ctx context.Context, id int64, status string) (bool, error)
	ListByBooker(ctx context.Context, bookerID int64, state string, now time.Time, limit, offset int) ([]Row, error)
	ListByOwner(ctx context.Context, ownerID int64, state string, now time.Time, limit, offset int) ([]Row, error)
	LastApprovedPerItem(ctx context.Context, itemIDs []int64, now time.Time) (map[int64]Row, error)
	NextApprovedPerItem(ctx context.Context, itemIDs []int64, now time.Time) (map[int64]Row, error)
	HasFinishedApproved(ctx context.Context, itemID, bookerID int64, now time.Time) (bool, error)
}

type Users interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

type Items interface {
	GetByID(ctx context.Context, id int64) (*model.Item, error)
}

type Service interface {
	// Create validates the time range, caller, and item, then persists a
	// WAITING booking.
	Create(ctx context.Context, bookerID int64, in CreateInput) (*Booking, error)

	// Decide moves a WAITING booking to APPROVED or REJECTED. Owner only.
	Decide(ctx context.Context, callerID, bookingID int64, approve bool) (*Booking, error)

	// Get returns a booking to its booker or the item's owner.
	Get(ctx context.Context, callerID, bookingID int64) (*Booking, error)

	// ListForBooker lists bookings made by the caller; ListForOwner lists
	// bookings on items the caller owns. Both filter by state and order by
	// start descending.
	ListForBooker(ctx context.Context, callerID int64, state string, from, size int) ([]Booking, error)
	ListForOwner(ctx context.Context, callerID int64, state string, from, size int) ([]Booking, error)

	// LastAndNext derives, per item, the latest-ending APPROVED booking
	// already started and the soonest-starting APPROVED booking yet to
	// start. Missing entries mean no such booking.
	LastAndNext(ctx context.Context, itemIDs []int64) (last, next map[int64]Ref, err error)

	// HasFinished reports whether the user has an APPROVED booking on the
	// item that already ended.
	HasFinished(ctx context.Context, itemID, bookerID int64) (bool, error)
}

// ----- Service implementation -----

type service struct {
	r     Repo
	users Users
	items Items
}

func New(r Repo, users Users, items Items) Service {
	return &service{r: r, users: users, items: items}
}

func (s *service) Create(ctx context.Context, bookerID int64, in CreateInput) (*Booking, error) {
	// pure input check, before any store access
	if !in.Start.Before(in.End) {
		return nil, makeErr(ErrInvalidTimeRange)
	}

	if _, err := s.users.GetByID(ctx, bookerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, makeErr(ErrUserNotFound)
		}
		return nil, err
	}

	item, err := s.items.GetByID(ctx, in.ItemID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, makeErr(ErrItemNotFound)
		}
		return nil, err
	}
	if item.OwnerID == bookerID {
		return nil, makeErr(ErrSelfBooking)
	}
	if !item.Available {
		return nil, makeErr(ErrItemNotAvailable)
	}

	id, err := s.r.InsertIfAvailable(ctx, in.ItemID, bookerID, in.Start, in.End)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// availability flipped between the read and the guarded insert
			return nil, makeErr(ErrItemNotAvailable)
		}
		return nil, err
	}

	return &Booking{
		ID:     id,
		Start:  in.Start,
		End:    in.End,
		Status: model.BookingWaiting,
		Item:   ItemRef{ID: item.ID, Name: item.Name},
		Booker: UserRef{ID: bookerID},
	}, nil
}

func (s *service) Decide(ctx context.Context, callerID, bookingID int64, approve bool) (*Booking, error) {
	row, err := s.r.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, makeErr(ErrBookingNotFound)
		}
		return nil, err
	}

	// The already-decided check runs before the host check: a non-owner
	// probing a decided booking gets the same answer the owner would.
	if row.Status != string(model.BookingWaiting) {
		return nil, makeErr(ErrAlreadyDecided)
	}
	if row.OwnerID != callerID {
		return nil, makeErr(ErrNotItemHost)
	}

	status := model.BookingApproved
	if !approve {
		status = model.BookingRejected
	}

	ok, err := s.r.UpdateStatusIfWaiting(ctx, bookingID, string(status))
	if err != nil {
		return nil, err
	}
	if !ok {
		// a concurrent decision won
		return nil, makeErr(ErrAlreadyDecided)
	}

	row.Status = string(status)
	return fromRow(row), nil
}

func (s *service) Get(ctx context.Context, callerID, bookingID int64) (*Booking, error) {
	if _, err := s.users.GetByID(ctx, callerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, makeErr(ErrUserNotFound)
		}
		return nil, err
	}

	row, err := s.r.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, makeErr(ErrBookingNotFound)
		}
		return nil, err
	}
	if row.BookerID != callerID && row.OwnerID != callerID {
		return nil, makeErr(ErrNotAuthorized)
	}
	return fromRow(row), nil
}

func (s *service) ListForBooker(ctx context.Context, callerID int64, state string, from, size int) ([]Booking, error) {
	return s.list(ctx, callerID, state, from, size, s.r.ListByBooker)
}

func (s *service) ListForOwner(ctx context.Context, callerID int64, state string, from, size int) ([]Booking, error) {
	return s.list(ctx, callerID, state, from, size, s.r.ListByOwner)
}

type listFn func(ctx context.Context, scopeID int64, state string, now time.Time, limit, offset int) ([]Row, error)

func (s *service) list(ctx context.Context, callerID int64, state string, from, size int, fn listFn) ([]Booking, error) {
	if _, err := s.users.GetByID(ctx, callerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, makeErr(ErrUserNotFound)
		}
		return nil, err
	}

	st, err := parseState(state)
	if err != nil {
		return nil, err
	}
	if from < 0 || size < 1 {
		return nil, makeErr(ErrInvalidPagination)
	}

	// the page index intentionally snaps: page = from / size, so an
	// offset mid-page resolves to that page's start
	page := from / size

	rows, err := fn(ctx, callerID, st, time.Now(), size, page*size)
	if err != nil {
		return nil, err
	}

	out := make([]Booking, 0, len(rows))
	for i := range rows {
		out = append(out, *fromRow(&rows[i]))
	}
	return out, nil
}

func parseState(state string) (string, error) {
	switch state {
	case bookingrepo.StateAll, bookingrepo.StateCurrent, bookingrepo.StatePast,
		bookingrepo.StateFuture, bookingrepo.StateWaiting, bookingrepo.StateRejected:
		return state, nil
	}
	return "", makeErr(ErrUnsupportedState)
}

func (s *service) LastAndNext(ctx context.Context, itemIDs []int64) (map[int64]Ref, map[int64]Ref, error) {
	if len(itemIDs) == 0 {
		return nil, nil, nil
	}
	now := time.Now()

	lastRows, err := s.r.LastApprovedPerItem(ctx, itemIDs, now)
	if err != nil {
		return nil, nil, err
	}
	nextRows, err := s.r.NextApprovedPerItem(ctx, itemIDs, now)
	if err != nil {
		return nil, nil, err
	}
	return toRefs(lastRows), toRefs(nextRows), nil
}

func (s *service) HasFinished(ctx context.Context, itemID, bookerID int64) (bool, error) {
	return s.r.HasFinishedApproved(ctx, itemID, bookerID, time.Now())
}

func fromRow(r *Row) *Booking {
	return &Booking{
		ID:     r.ID,
		Start:  r.Start,
		End:    r.End,
		Status: model.BookingStatus(r.Status),
		Item:   ItemRef{ID: r.ItemID, Name: r.ItemName},
		Booker: UserRef{ID: r.BookerID},
	}
}

func toRefs(rows map[int64]Row) map[int64]Ref {
	out := make(map[int64]Ref, len(rows))
	for itemID, r := range rows {
		out[itemID] = Ref{ID: r.ID, BookerID: r.BookerID, Start: r.Start, End: r.End}
	}
	return out
}
