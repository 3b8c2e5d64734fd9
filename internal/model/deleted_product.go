package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	DefaultDeletedBy    = "Admin"
	DefaultDeleteReason = "No reason provided"
	UnknownProductName  = "Unknown Product"
)

// DeletedProduct is the archive row written when a product leaves the live catalog.
// ProductData keeps the full row so a restore can reinsert it unchanged.
type DeletedProduct struct {
	BaseModel
	ProductID   uuid.UUID                   `gorm:"type:uuid;not null;index" json:"product_id"`
	ProductName string                      `gorm:"type:varchar(255)" json:"product_name"`
	ProductData datatypes.JSONType[Product] `json:"product_data"`
	DeletedBy   string                      `gorm:"type:varchar(255)" json:"deleted_by"`
	Reason      string                      `gorm:"type:text" json:"reason"`
	DeletedAt   time.Time                   `gorm:"index" json:"deleted_at"`
}
