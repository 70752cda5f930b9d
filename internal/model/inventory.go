package model

// InventoryItem is one product-code/location/stock row. The code is NOT
// unique: the same product exists as separate rows per physical location, and
// all stock math is done against those rows.
type InventoryItem struct {
	BaseModel
	Code         string `gorm:"type:varchar(100);index;not null" json:"code" validate:"required"`
	Name         string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Category     string `gorm:"type:varchar(100);not null" json:"category" validate:"required"`
	Manufacturer string `gorm:"type:varchar(255)" json:"manufacturer"`
	Stock        int    `gorm:"not null;default:0" json:"stock" validate:"gte=0"`
	MinStock     int    `gorm:"not null;default:0" json:"min_stock" validate:"gte=0"`
	Unit         string `gorm:"type:varchar(20);not null;default:'ea'" json:"unit"`
	Location     string `gorm:"type:varchar(50)" json:"location"`
	BoxSize      int    `gorm:"default:1" json:"box_size"`
}

// CloneAt copies the static product fields into a new row at a location.
// Used when a move or return lands stock where no row exists yet.
func (i *InventoryItem) CloneAt(location string, stock int) *InventoryItem {
	return &InventoryItem{
		Code:         i.Code,
		Name:         i.Name,
		Category:     i.Category,
		Manufacturer: i.Manufacturer,
		Stock:        stock,
		MinStock:     i.MinStock,
		Unit:         i.Unit,
		Location:     location,
		BoxSize:      i.BoxSize,
	}
}
