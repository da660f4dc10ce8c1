package user

import "gearshare/model"

type CreateUserReq struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

type UpdateUserReq struct {
	Name  string `json:"name"`
	Email string `json:"email" validate:"omitempty,email"`
}

type UserResp struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func toResp(u *model.User) UserResp {
	return UserResp{ID: u.ID, Name: u.Name, Email: u.Email}
}
