package model

import "hostly/shared/model"

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID            = "id"
	FieldPropertyID    = "property_id"
	FieldNumber        = "number"
	FieldRoomType      = "room_type"
	FieldStatus        = "status"
	FieldPricePerNight = "price_per_night"
)

type Status string

const (
	StatusAvailable   Status = "available"
	StatusOccupied    Status = "occupied"
	StatusReserved    Status = "reserved"
	StatusMaintenance Status = "maintenance"
)

type Room struct {
	ID            string  `db:"id"`
	PropertyID    string  `db:"property_id"`
	Number        string  `db:"number"`
	RoomType      string  `db:"room_type"`
	Status        Status  `db:"status"`
	PricePerNight float64 `db:"price_per_night"`
	model.Metadata
}
