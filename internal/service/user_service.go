package service

import (
	"errors"
	"fmt"

	"go-warehouse-ws/internal/model"
	"go-warehouse-ws/internal/repository"
	"go-warehouse-ws/pkg/validator"

	"github.com/google/uuid"
)

var (
	ErrUsernameExists = errors.New("username already exists")
	ErrProtectedUser  = errors.New("the system administrator account cannot be deleted")
)

type UserService interface {
	CreateUser(req *CreateUserRequest, creator *model.User) (*model.User, error)
	UpdateUser(userID uuid.UUID, req *UpdateUserRequest, updater *model.User) (*model.User, error)
	DeleteUser(userID uuid.UUID) error
	UpdateUserPermissions(userID uuid.UUID, overrides map[string]bool, updater *model.User) (*model.User, error)
	GetAllUsers() ([]model.UserResponse, error)
	GetUserByID(id uuid.UUID) (*model.UserResponse, error)
}

type CreateUserRequest struct {
	Username   string `json:"username" validate:"required"`
	Password   string `json:"password" validate:"required,min=6"`
	Role       string `json:"role" validate:"required,oneof=super_admin admin manager user viewer"`
	Department string `json:"department"`
	Position   string `json:"position"`
	IsManager  bool   `json:"is_manager"`
}

type UpdateUserRequest struct {
	Password   *string `json:"password,omitempty" validate:"omitempty,min=6"` // Optional
	Role       string  `json:"role" validate:"required,oneof=super_admin admin manager user viewer"`
	Department string  `json:"department"`
	Position   string  `json:"position"`
	IsManager  *bool   `json:"is_manager"`
	IsActive   *bool   `json:"is_active"`
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) CreateUser(req *CreateUserRequest, creator *model.User) (*model.User, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	existing, _ := s.userRepo.FindByUsername(req.Username)
	if existing != nil {
		return nil, ErrUsernameExists
	}

	user := &model.User{
		Username:   req.Username,
		Role:       req.Role,
		Department: req.Department,
		Position:   req.Position,
		IsManager:  req.IsManager,
		IsActive:   true,
	}
	// New accounts start from their role's defaults as explicit values
	model.ApplyRolePermissions(user, req.Role)

	if err := user.SetPassword(req.Password); err != nil {
		return nil, errors.New("failed to hash password")
	}

	user.CreatedBy = creator.Username
	user.UpdatedBy = creator.Username

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) UpdateUser(userID uuid.UUID, req *UpdateUserRequest, updater *model.User) (*model.User, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	// Role change resets the permission set to the new role's defaults
	if req.Role != user.Role {
		model.ApplyRolePermissions(user, req.Role)
		user.Role = req.Role
	}

	user.Department = req.Department
	user.Position = req.Position
	if req.IsManager != nil {
		user.IsManager = *req.IsManager
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.Password != nil {
		if err := user.SetPassword(*req.Password); err != nil {
			return nil, errors.New("failed to hash password")
		}
	}

	user.UpdatedBy = updater.Username
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) DeleteUser(userID uuid.UUID) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return ErrUserNotFound
	}

	// The bootstrap super admin stays
	if user.Username == "admin" || user.Role == model.RoleSuperAdmin {
		return ErrProtectedUser
	}

	return s.userRepo.Delete(userID)
}

// UpdateUserPermissions records explicit per-flag overrides on the user
// record; keys not present keep their current value.
func (s *userService) UpdateUserPermissions(userID uuid.UUID, overrides map[string]bool, updater *model.User) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	for _, key := range model.AllPermissions {
		if value, ok := overrides[key]; ok {
			model.SetPermission(user, key, value)
		}
	}

	user.UpdatedBy = updater.Username
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) GetAllUsers() ([]model.UserResponse, error) {
	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, err
	}

	responses := make([]model.UserResponse, len(users))
	for i := range users {
		responses[i] = users[i].ToResponse()
	}
	return responses, nil
}

func (s *userService) GetUserByID(id uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	response := user.ToResponse()
	return &response, nil
}
