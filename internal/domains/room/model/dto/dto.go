package dto

import (
	"hostly/internal/domains/room/model"
	"hostly/shared"
	gDto "hostly/shared/dto"
	gModel "hostly/shared/model"
	"hostly/shared/timezone"

	"github.com/google/uuid"
)

type CreateRoomRequest struct {
	PropertyID    string  `json:"property_id"     validate:"required"`
	Number        string  `json:"number"          validate:"required,max=20"`
	RoomType      string  `json:"room_type"       validate:"required,oneof=single double twin suite family"`
	PricePerNight float64 `json:"price_per_night" validate:"required,gt=0"`
}

func (c *CreateRoomRequest) ToModel(user string) model.Room {
	return model.Room{
		ID:            uuid.NewString(),
		PropertyID:    c.PropertyID,
		Number:        c.Number,
		RoomType:      c.RoomType,
		Status:        model.StatusAvailable,
		PricePerNight: shared.RoundMoney(c.PricePerNight),
		Metadata:      gModel.NewMetadata(user, timezone.Now()),
	}
}

type UpdateRoomRequest struct {
	Number        string  `db:"number"          json:"number"          validate:"omitempty,max=20"`
	RoomType      string  `db:"room_type"       json:"room_type"       validate:"omitempty,oneof=single double twin suite family"`
	PricePerNight float64 `db:"price_per_night" json:"price_per_night" validate:"omitempty,gt=0"`
}

type UpdateRoomStatusRequest struct {
	Status model.Status `json:"status" validate:"required,oneof=available occupied reserved maintenance"`
}

type RoomResponse struct {
	ID            string  `json:"id"`
	PropertyID    string  `json:"property_id"`
	Number        string  `json:"number"`
	RoomType      string  `json:"room_type"`
	Status        string  `json:"status"`
	PricePerNight float64 `json:"price_per_night"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(model model.Room) {
	r.ID = model.ID
	r.PropertyID = model.PropertyID
	r.Number = model.Number
	r.RoomType = model.RoomType
	r.Status = string(model.Status)
	r.PricePerNight = model.PricePerNight
	r.Metadata.FromModel(model.Metadata)
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}
