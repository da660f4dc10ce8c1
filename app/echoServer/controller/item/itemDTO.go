package item

import (
	"time"

	"gearshare/model"
	itemsvc "gearshare/service/item"
)

type CreateItemReq struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
	Available   *bool  `json:"available" validate:"required"`
	RequestID   *int64 `json:"requestId" validate:"omitempty,gt=0"`
}

type UpdateItemReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   *bool  `json:"available"`
}

type CommentReq struct {
	Text string `json:"text" validate:"required"`
}

type ItemResp struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	RequestID   *int64 `json:"requestId,omitempty"`
}

type BookingRefResp struct {
	ID       int64     `json:"id"`
	BookerID int64     `json:"bookerId"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

type CommentResp struct {
	ID         int64     `json:"id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"authorName"`
	Created    time.Time `json:"created"`
}

type ItemViewResp struct {
	ItemResp
	LastBooking *BookingRefResp `json:"lastBooking"`
	NextBooking *BookingRefResp `json:"nextBooking"`
	Comments    []CommentResp   `json:"comments"`
}

func toResp(i *model.Item) ItemResp {
	return ItemResp{
		ID:          i.ID,
		Name:        i.Name,
		Description: i.Description,
		Available:   i.Available,
		RequestID:   i.RequestID,
	}
}

func toViewResp(v *itemsvc.View) ItemViewResp {
	out := ItemViewResp{
		ItemResp:    toResp(&v.Item),
		LastBooking: toRef(v.LastBooking),
		NextBooking: toRef(v.NextBooking),
		Comments:    make([]CommentResp, 0, len(v.Comments)),
	}
	for _, c := range v.Comments {
		out.Comments = append(out.Comments, CommentResp{
			ID:         c.ID,
			Text:       c.Text,
			AuthorName: c.AuthorName,
			Created:    c.Created,
		})
	}
	return out
}

func toRef(r *itemsvc.BookingRef) *BookingRefResp {
	if r == nil {
		return nil
	}
	return &BookingRefResp{ID: r.ID, BookerID: r.BookerID, Start: r.Start, End: r.End}
}
