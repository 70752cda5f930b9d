package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"go-warehouse-ws/internal/model"
	"go-warehouse-ws/internal/repository"
	"go-warehouse-ws/pkg/location"
	"go-warehouse-ws/pkg/validator"
)

var ErrZoneNotFound = errors.New("warehouse zone not found")

type WarehouseService interface {
	GetLayout() ([]model.WarehouseZone, error)
	CreateZone(req *ZoneRequest, user *model.User) (*model.WarehouseZone, error)
	UpdateZone(id uuid.UUID, req *ZoneRequest, user *model.User) (*model.WarehouseZone, error)
	DeleteZone(id uuid.UUID) error
	EnsureDefaultLayout() error
}

type ZoneRequest struct {
	ZoneName    string `json:"zone_name" validate:"required"`
	SubZoneName string `json:"sub_zone_name" validate:"required"`
	Floors      []int  `json:"floors" validate:"required,min=1"`
}

type warehouseService struct {
	warehouseRepo repository.WarehouseRepository
}

func NewWarehouseService(warehouseRepo repository.WarehouseRepository) WarehouseService {
	return &warehouseService{warehouseRepo: warehouseRepo}
}

func (s *warehouseService) GetLayout() ([]model.WarehouseZone, error) {
	return s.warehouseRepo.FindAll()
}

func (s *warehouseService) CreateZone(req *ZoneRequest, user *model.User) (*model.WarehouseZone, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	zone := &model.WarehouseZone{
		ZoneName:    req.ZoneName,
		SubZoneName: req.SubZoneName,
		Floors:      model.IntSlice(req.Floors),
	}
	zone.CreatedBy = user.Username
	zone.UpdatedBy = user.Username

	if err := s.warehouseRepo.Create(zone); err != nil {
		return nil, err
	}
	return zone, nil
}

func (s *warehouseService) UpdateZone(id uuid.UUID, req *ZoneRequest, user *model.User) (*model.WarehouseZone, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	zone, err := s.warehouseRepo.Update(id, map[string]interface{}{
		"zone_name":     req.ZoneName,
		"sub_zone_name": req.SubZoneName,
		"floors":        model.IntSlice(req.Floors),
		"updated_by":    user.Username,
	})
	if err != nil {
		return nil, ErrZoneNotFound
	}
	return zone, nil
}

func (s *warehouseService) DeleteZone(id uuid.UUID) error {
	if err := s.warehouseRepo.Delete(id); err != nil {
		return ErrZoneNotFound
	}
	return nil
}

// EnsureDefaultLayout seeds the standard zone grid once, at first boot.
func (s *warehouseService) EnsureDefaultLayout() error {
	count, err := s.warehouseRepo.Count()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, def := range location.DefaultLayout() {
		zone := &model.WarehouseZone{
			ZoneName:    def.ZoneName,
			SubZoneName: def.SubZoneName,
			Floors:      model.IntSlice(def.Floors),
		}
		zone.CreatedBy = "system"
		zone.UpdatedBy = "system"
		if err := s.warehouseRepo.Create(zone); err != nil {
			return err
		}
	}
	return nil
}
