package model

import "time"

// ExchangeQueueItem is a defective-item outbound batch awaiting its
// replacement delivery. Processing returns the quantity to the original
// source location(s) and flags the entry; reprocessing fails.
type ExchangeQueueItem struct {
	BaseModel
	ItemCode     string    `gorm:"type:varchar(100);index;not null" json:"item_code" validate:"required"`
	ItemName     string    `gorm:"type:varchar(255);not null" json:"item_name" validate:"required"`
	Quantity     int       `gorm:"not null" json:"quantity" validate:"required,gt=0"`
	OutboundDate time.Time `gorm:"not null" json:"outbound_date"`
	Processed    bool      `gorm:"default:false" json:"processed"`
}
