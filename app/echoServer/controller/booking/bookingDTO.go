package booking

import (
	"time"

	bookingsvc "gearshare/service/booking"
)

type CreateBookingReq struct {
	ItemID int64      `json:"itemId" validate:"required,gt=0"`
	Start  *time.Time `json:"start" validate:"required"`
	End    *time.Time `json:"end" validate:"required"`
}

type ItemRefResp struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type UserRefResp struct {
	ID int64 `json:"id"`
}

type BookingResp struct {
	ID     int64       `json:"id"`
	Start  time.Time   `json:"start"`
	End    time.Time   `json:"end"`
	Status string      `json:"status"`
	Item   ItemRefResp `json:"item"`
	Booker UserRefResp `json:"booker"`
}

func toResp(b *bookingsvc.Booking) BookingResp {
	return BookingResp{
		ID:     b.ID,
		Start:  b.Start,
		End:    b.End,
		Status: string(b.Status),
		Item:   ItemRefResp{ID: b.Item.ID, Name: b.Item.Name},
		Booker: UserRefResp{ID: b.Booker.ID},
	}
}

func toResps(bs []bookingsvc.Booking) []BookingResp {
	out := make([]BookingResp, 0, len(bs))
	for i := range bs {
		out = append(out, toResp(&bs[i]))
	}
	return out
}
