package model

// BomGuide is one component line of a named assembly guide
type BomGuide struct {
	BaseModel
	GuideName        string `gorm:"type:varchar(255);index;not null" json:"guide_name" validate:"required"`
	ItemCode         string `gorm:"type:varchar(100);not null" json:"item_code" validate:"required"`
	RequiredQuantity int    `gorm:"not null" json:"required_quantity" validate:"required,gt=0"`
}

// BomCheckResult reports availability of one component for a requested number
// of assembly sets
type BomCheckResult struct {
	ItemCode         string `json:"item_code"`
	RequiredQuantity int    `json:"required_quantity"`
	RequiredTotal    int    `json:"required_total"`
	AvailableStock   int    `json:"available_stock"`
	Shortage         int    `json:"shortage"`
	Sufficient       bool   `json:"sufficient"`
}
