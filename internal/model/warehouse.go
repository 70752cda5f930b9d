package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// IntSlice stores a JSON array of ints in a single column
type IntSlice []int

func (s IntSlice) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *IntSlice) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	case nil:
		*s = nil
		return nil
	}
	return errors.New("unsupported type for IntSlice")
}

// WarehouseZone is one sub-zone of the warehouse layout with its floor list
type WarehouseZone struct {
	BaseModel
	ZoneName    string   `gorm:"type:varchar(100);not null" json:"zone_name" validate:"required"`
	SubZoneName string   `gorm:"type:varchar(100);not null" json:"sub_zone_name" validate:"required"`
	Floors      IntSlice `gorm:"type:text;not null" json:"floors" validate:"required"`
}
