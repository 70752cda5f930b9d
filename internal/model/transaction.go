package model

import "github.com/google/uuid"

type TransactionType string

const (
	TxInbound    TransactionType = "inbound"
	TxOutbound   TransactionType = "outbound"
	TxMove       TransactionType = "move"
	TxAdjustment TransactionType = "adjustment"
)

// Outbound/inbound reasons that carry workflow semantics. The engine branches
// on these exact strings, so they are not translated.
const (
	ReasonLineSideMove      = "조립장 이동"        // deduct only, audit categorization
	ReasonOutboundReturn    = "출고 반환"         // return to last outbound source location
	ReasonDefectiveExchange = "불량품 교환 출고"    // deduct and enqueue for exchange
	ReasonExchangeInbound   = "불량품교환 새제품 입고" // compensating inbound after processing
)

// Transaction is an append-only ledger entry. Rows are never updated or
// deleted outside of a full system reset.
type Transaction struct {
	BaseModel
	Type         TransactionType `gorm:"type:varchar(20);not null" json:"type" validate:"required,oneof=inbound outbound move adjustment"`
	ItemCode     string          `gorm:"type:varchar(100);index;not null" json:"item_code" validate:"required"`
	ItemName     string          `gorm:"type:varchar(255);not null" json:"item_name" validate:"required"`
	Quantity     int             `gorm:"not null" json:"quantity" validate:"required,gt=0"`
	FromLocation string          `gorm:"type:varchar(255)" json:"from_location" validate:"omitempty,location_code"`
	ToLocation   string          `gorm:"type:varchar(255)" json:"to_location" validate:"omitempty,location_code"`
	Reason       string          `gorm:"type:varchar(255)" json:"reason"`
	Memo         string          `gorm:"type:text" json:"memo"`

	UserID *uuid.UUID `gorm:"type:uuid" json:"user_id,omitempty"`
	User   *User      `gorm:"foreignKey:UserID" json:"user,omitempty" validate:"-"`
}
