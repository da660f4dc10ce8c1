package request

import (
	"time"

	"gearshare/model"
	requestsvc "gearshare/service/request"
)

type CreateRequestReq struct {
	Description string `json:"description" validate:"required"`
}

type RequestItemResp struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	OwnerID     int64  `json:"ownerId"`
	RequestID   *int64 `json:"requestId"`
}

type RequestResp struct {
	ID          int64             `json:"id"`
	Description string            `json:"description"`
	Created     time.Time         `json:"created"`
	Items       []RequestItemResp `json:"items,omitempty"`
}

func toResp(r *model.Request) RequestResp {
	return RequestResp{ID: r.ID, Description: r.Description, Created: r.Created}
}

func toViewResp(v *requestsvc.View) RequestResp {
	out := toResp(&v.Request)
	out.Items = make([]RequestItemResp, 0, len(v.Items))
	for _, i := range v.Items {
		out.Items = append(out.Items, RequestItemResp{
			ID:          i.ID,
			Name:        i.Name,
			Description: i.Description,
			Available:   i.Available,
			OwnerID:     i.OwnerID,
			RequestID:   i.RequestID,
		})
	}
	return out
}
