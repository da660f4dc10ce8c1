package gateway

import "time"

// Request shapes checked at the edge. The core service applies the business
// rules; the gateway only rejects payloads that are structurally wrong.

type createUserReq struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

type updateUserReq struct {
	Name  string `json:"name"`
	Email string `json:"email" validate:"omitempty,email"`
}

type createItemReq struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
	Available   *bool  `json:"available" validate:"required"`
	RequestID   *int64 `json:"requestId" validate:"omitempty,gt=0"`
}

type commentReq struct {
	Text string `json:"text" validate:"required"`
}

type createBookingReq struct {
	ItemID int64      `json:"itemId" validate:"required,gt=0"`
	Start  *time.Time `json:"start" validate:"required"`
	End    *time.Time `json:"end" validate:"required"`
}

type createRequestReq struct {
	Description string `json:"description" validate:"required"`
}
