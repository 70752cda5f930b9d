package service

import (
	"errors"
	"fmt"

	"go-warehouse-ws/internal/model"
	"go-warehouse-ws/internal/repository"
	"go-warehouse-ws/pkg/validator"
)

var ErrGuideNotFound = errors.New("assembly guide not found")

type BomService interface {
	GetAllGuides() (map[string][]model.BomGuide, error)
	GetGuide(guideName string) ([]model.BomGuide, error)
	AddGuideLine(req *BomLineRequest, user *model.User) (*model.BomGuide, error)
	DeleteGuide(guideName string) error
	CheckAvailability(guideName string, sets int) (*BomCheckResponse, error)
}

type BomLineRequest struct {
	GuideName        string `json:"guide_name" validate:"required"`
	ItemCode         string `json:"item_code" validate:"required"`
	RequiredQuantity int    `json:"required_quantity" validate:"required,gt=0"`
}

type BomCheckResponse struct {
	GuideName     string                 `json:"guide_name"`
	RequestedSets int                    `json:"requested_sets"`
	CanAssemble   bool                   `json:"can_assemble"`
	Components    []model.BomCheckResult `json:"components"`
}

type bomService struct {
	bomRepo  repository.BomRepository
	itemRepo repository.ItemRepository
}

func NewBomService(bomRepo repository.BomRepository, itemRepo repository.ItemRepository) BomService {
	return &bomService{bomRepo: bomRepo, itemRepo: itemRepo}
}

// GetAllGuides groups every BOM line by guide name.
func (s *bomService) GetAllGuides() (map[string][]model.BomGuide, error) {
	lines, err := s.bomRepo.FindAll()
	if err != nil {
		return nil, err
	}

	guides := make(map[string][]model.BomGuide)
	for _, line := range lines {
		guides[line.GuideName] = append(guides[line.GuideName], line)
	}
	return guides, nil
}

func (s *bomService) GetGuide(guideName string) ([]model.BomGuide, error) {
	lines, err := s.bomRepo.FindByGuideName(guideName)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrGuideNotFound
	}
	return lines, nil
}

func (s *bomService) AddGuideLine(req *BomLineRequest, user *model.User) (*model.BomGuide, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	line := &model.BomGuide{
		GuideName:        req.GuideName,
		ItemCode:         req.ItemCode,
		RequiredQuantity: req.RequiredQuantity,
	}
	line.CreatedBy = user.Username
	line.UpdatedBy = user.Username

	if err := s.bomRepo.Create(line); err != nil {
		return nil, err
	}
	return line, nil
}

func (s *bomService) DeleteGuide(guideName string) error {
	affected, err := s.bomRepo.DeleteByGuideName(guideName)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrGuideNotFound
	}
	return nil
}

// CheckAvailability compares aggregate stock per component against the
// quantity needed for the requested number of sets. Stock is summed across
// every location holding the component code.
func (s *bomService) CheckAvailability(guideName string, sets int) (*BomCheckResponse, error) {
	if sets <= 0 {
		sets = 1
	}

	lines, err := s.GetGuide(guideName)
	if err != nil {
		return nil, err
	}

	response := &BomCheckResponse{
		GuideName:     guideName,
		RequestedSets: sets,
		CanAssemble:   true,
		Components:    make([]model.BomCheckResult, 0, len(lines)),
	}

	for _, line := range lines {
		rows, err := s.itemRepo.FindAllByCode(nil, line.ItemCode)
		if err != nil {
			return nil, err
		}

		available := 0
		for _, row := range rows {
			available += row.Stock
		}

		requiredTotal := line.RequiredQuantity * sets
		result := model.BomCheckResult{
			ItemCode:         line.ItemCode,
			RequiredQuantity: line.RequiredQuantity,
			RequiredTotal:    requiredTotal,
			AvailableStock:   available,
			Sufficient:       available >= requiredTotal,
		}
		if !result.Sufficient {
			result.Shortage = requiredTotal - available
			response.CanAssemble = false
		}
		response.Components = append(response.Components, result)
	}

	return response, nil
}
