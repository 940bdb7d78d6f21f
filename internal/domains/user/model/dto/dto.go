package dto

import (
	"hostly/internal/domains/user/model"
	"hostly/shared"
	"hostly/shared/constant"
	gDto "hostly/shared/dto"
	gModel "hostly/shared/model"
	"hostly/shared/timezone"

	"github.com/google/uuid"
)

type CreateUserRequest struct {
	Email    string `json:"email"     validate:"required,email,max=100"`
	Password string `json:"password"  validate:"required,min=8"`
	Level    string `json:"level"     validate:"omitempty,oneof=admin owner user"`
	FullName string `json:"full_name" validate:"required,max=100"`
}

func (r *CreateUserRequest) ToModel(username string, hashedPassword string) model.User {
	level := r.Level
	if level == constant.Empty {
		level = constant.RoleUser
	}

	return model.User{
		ID:       uuid.NewString(),
		Email:    r.Email,
		Password: hashedPassword,
		Level:    level,
		FullName: r.FullName,
		Active:   true,
		Metadata: gModel.NewMetadata(username, timezone.Now()),
	}
}

type UserResponse struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	Level     string  `json:"level"`
	FullName  string  `json:"full_name"`
	LastLogin *string `json:"last_login,omitempty"`
	Active    bool    `json:"active"`
	gDto.Metadata
}

func (r *UserResponse) FromModel(model model.User) {
	r.ID = model.ID
	r.Email = model.Email
	r.Level = model.Level
	r.FullName = model.FullName
	r.Active = model.Active
	r.LastLogin = nil

	if model.LastLogin != nil {
		lastLogin := timezone.Format(*model.LastLogin, constant.DateFormat)
		r.LastLogin = &lastLogin
	}

	r.Metadata.FromModel(model.Metadata)
}

type UpdateUserRequest struct {
	Level    string `db:"level"     json:"level"     validate:"omitempty,oneof=admin owner user"`
	FullName string `db:"full_name" json:"full_name" validate:"omitempty,max=100"`
	Active   *bool  `db:"active"    json:"active"`
}

// UpdateProfileRequest is what a user may change about their own account.
type UpdateProfileRequest struct {
	FullName string `json:"full_name" validate:"required,max=100"`
}

type GetUsersResponse struct {
	Users     []UserResponse `json:"users"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetUsersResponse) FromModels(models []model.User, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Users = make([]UserResponse, len(models))
	for i, mod := range models {
		r.Users[i].FromModel(mod)
	}
}
