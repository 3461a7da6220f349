package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Room statuses. Status mirrors whether a confirmed booking currently covers
// the room; maintenance is the only administrator-set value.
const (
	RoomStatusAvailable   = "available"
	RoomStatusOccupied    = "occupied"
	RoomStatusMaintenance = "maintenance"
)

// AllowedAmenities is the fixed amenity enumeration.
var AllowedAmenities = []string{
	"WiFi",
	"Pool",
	"Gym",
	"Breakfast",
	"Air Conditioning",
	"TV",
	"Workspace",
	"Kitchen",
	"Parking",
	"Balcony",
}

type Room struct {
	gorm.Model

	Name        string         `json:"name" gorm:"size:100;not null"`
	Description string         `json:"description" gorm:"type:text"`
	Price       float64        `json:"price" gorm:"not null"`
	Capacity    int            `json:"capacity" gorm:"not null;default:1"`
	Beds        int            `json:"beds" gorm:"not null;default:1"`
	Amenities   datatypes.JSON `json:"amenities"`
	RoomSize    string         `json:"roomSize" gorm:"column:room_size;size:50"`
	Images      datatypes.JSON `json:"images"`
	Status      string         `json:"status" gorm:"size:32;default:available;index"`
	IsFeatured  bool           `json:"isFeatured" gorm:"column:is_featured;default:false"`
	Discount    float64        `json:"discount" gorm:"default:0"`
	Rating      *float64       `json:"rating,omitempty"`
}
