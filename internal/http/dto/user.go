package dto

import "matrixadmin.app/panel/internal/model"

type UserResponse struct {
	AvatarURL *string `json:"avatar_url,omitempty"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	ID        int64   `json:"id,string"`
}

type MembershipResponse struct {
	MatrixOwner bool `json:"matrix_owner"`
	MemberOfAny bool `json:"member_of_any"`
}

func ToUserResponse(user *model.User) *UserResponse {
	return &UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		AvatarURL: user.AvatarURL,
	}
}
