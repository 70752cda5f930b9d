package model

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Role tiers, highest first
const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
	RoleManager    = "manager"
	RoleUser       = "user"
	RoleViewer     = "viewer"
)

// User represents an authenticated user. Each permission column is tri-state:
// nil inherits the role default, true/false is an explicit per-user override.
type User struct {
	BaseModel
	Username    string `gorm:"type:varchar(100);uniqueIndex;not null" json:"username" validate:"required"`
	Password    string `gorm:"type:varchar(255);not null" json:"-"` // Hidden from JSON
	Role        string `gorm:"type:varchar(20);not null;default:'viewer'" json:"role" validate:"required,oneof=super_admin admin manager user viewer"`
	Department  string `gorm:"type:varchar(100)" json:"department"`
	Position    string `gorm:"type:varchar(100)" json:"position"`
	IsManager   bool   `gorm:"default:false" json:"is_manager"`
	IsActive    bool   `gorm:"default:true" json:"is_active"`

	// Excel management
	CanUploadBom             *bool `json:"canUploadBom,omitempty"`
	CanUploadMaster          *bool `json:"canUploadMaster,omitempty"`
	CanUploadInventoryAdd    *bool `json:"canUploadInventoryAdd,omitempty"`
	CanUploadInventorySync   *bool `json:"canUploadInventorySync,omitempty"`
	CanAccessExcelManagement *bool `json:"canAccessExcelManagement,omitempty"`

	// Data management
	CanBackupData        *bool `json:"canBackupData,omitempty"`
	CanRestoreData       *bool `json:"canRestoreData,omitempty"`
	CanResetData         *bool `json:"canResetData,omitempty"`
	CanManageUsers       *bool `json:"canManageUsers,omitempty"`
	CanManagePermissions *bool `json:"canManagePermissions,omitempty"`

	// Download
	CanDownloadInventory    *bool `json:"canDownloadInventory,omitempty"`
	CanDownloadTransactions *bool `json:"canDownloadTransactions,omitempty"`
	CanDownloadBom          *bool `json:"canDownloadBom,omitempty"`
	CanDownloadAll          *bool `json:"canDownloadAll,omitempty"`

	// Inventory management
	CanManageInventory     *bool `json:"canManageInventory,omitempty"`
	CanProcessTransactions *bool `json:"canProcessTransactions,omitempty"`
	CanManageBom           *bool `json:"canManageBom,omitempty"`
	CanManageWarehouse     *bool `json:"canManageWarehouse,omitempty"`
	CanProcessExchange     *bool `json:"canProcessExchange,omitempty"`
	CanManageLocation      *bool `json:"canManageLocation,omitempty"`

	// Work diary
	CanCreateDiary *bool `json:"canCreateDiary,omitempty"`
	CanEditDiary   *bool `json:"canEditDiary,omitempty"`
	CanDeleteDiary *bool `json:"canDeleteDiary,omitempty"`
	CanViewReports *bool `json:"canViewReports,omitempty"`

	TokenVersion string     `gorm:"type:varchar(255);default:''" json:"-"` // For single session enforcement
	LastSeenAt   *time.Time `json:"last_seen_at,omitempty"`                // For user presence
}

// SetPassword hashes and sets the user's password
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// UserResponse is used for API responses (without sensitive data)
type UserResponse struct {
	ID          uuid.UUID       `json:"id"`
	Username    string          `json:"username"`
	Role        string          `json:"role"`
	Department  string          `json:"department"`
	Position    string          `json:"position"`
	IsManager   bool            `json:"is_manager"`
	IsActive    bool            `json:"is_active"`
	LastSeenAt  *time.Time      `json:"last_seen_at,omitempty"`
	Permissions map[string]bool `json:"permissions"`
}

// ToResponse converts User to UserResponse with the resolved permission set
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Role:        u.Role,
		Department:  u.Department,
		Position:    u.Position,
		IsManager:   u.IsManager,
		IsActive:    u.IsActive,
		LastSeenAt:  u.LastSeenAt,
		Permissions: ResolvePermissions(u),
	}
}
