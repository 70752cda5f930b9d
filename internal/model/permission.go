package model

// Permission keys gate every mutating route. Role templates below carry the
// defaults; individual users may override any key (see User).
const (
	PermUploadBom             = "canUploadBom"
	PermUploadMaster          = "canUploadMaster"
	PermUploadInventoryAdd    = "canUploadInventoryAdd"
	PermUploadInventorySync   = "canUploadInventorySync"
	PermAccessExcelManagement = "canAccessExcelManagement"
	PermBackupData            = "canBackupData"
	PermRestoreData           = "canRestoreData"
	PermResetData             = "canResetData"
	PermManageUsers           = "canManageUsers"
	PermManagePermissions     = "canManagePermissions"
	PermDownloadInventory     = "canDownloadInventory"
	PermDownloadTransactions  = "canDownloadTransactions"
	PermDownloadBom           = "canDownloadBom"
	PermDownloadAll           = "canDownloadAll"
	PermManageInventory       = "canManageInventory"
	PermProcessTransactions   = "canProcessTransactions"
	PermManageBom             = "canManageBom"
	PermManageWarehouse       = "canManageWarehouse"
	PermProcessExchange       = "canProcessExchange"
	PermManageLocation        = "canManageLocation"
	PermCreateDiary           = "canCreateDiary"
	PermEditDiary             = "canEditDiary"
	PermDeleteDiary           = "canDeleteDiary"
	PermViewReports           = "canViewReports"
)

// AllPermissions lists every overridable key
var AllPermissions = []string{
	PermUploadBom, PermUploadMaster, PermUploadInventoryAdd, PermUploadInventorySync,
	PermAccessExcelManagement, PermBackupData, PermRestoreData, PermResetData,
	PermManageUsers, PermManagePermissions, PermDownloadInventory, PermDownloadTransactions,
	PermDownloadBom, PermDownloadAll, PermManageInventory, PermProcessTransactions,
	PermManageBom, PermManageWarehouse, PermProcessExchange, PermManageLocation,
	PermCreateDiary, PermEditDiary, PermDeleteDiary, PermViewReports,
}

// CriticalPermissions additionally require the super_admin role even when the
// resolved flag is true.
var CriticalPermissions = []string{
	PermResetData,
	PermUploadInventorySync,
	PermRestoreData,
	PermManagePermissions,
}

// RolePermissions holds the default permission template per role tier.
// Note: viewer keeps canManageInventory/canManageBom true; the read routes gate
// on these flags, so flipping them would lock viewers out of inventory and BOM
// screens entirely.
var RolePermissions = map[string]map[string]bool{
	RoleSuperAdmin: {
		PermResetData: true, PermRestoreData: true, PermManageUsers: true, PermManagePermissions: true,
		PermUploadBom: true, PermUploadMaster: true, PermUploadInventoryAdd: true, PermUploadInventorySync: true,
		PermAccessExcelManagement: true, PermBackupData: true,
		PermManageInventory: true, PermProcessTransactions: true, PermManageBom: true,
		PermManageWarehouse: true, PermProcessExchange: true, PermManageLocation: true,
		PermDownloadInventory: true, PermDownloadTransactions: true, PermDownloadBom: true, PermDownloadAll: true,
		PermCreateDiary: true, PermEditDiary: true, PermDeleteDiary: true, PermViewReports: true,
	},
	RoleAdmin: {
		PermResetData: false, PermRestoreData: true, PermManageUsers: true, PermManagePermissions: false,
		PermUploadBom: true, PermUploadMaster: true, PermUploadInventoryAdd: true, PermUploadInventorySync: true,
		PermAccessExcelManagement: true, PermBackupData: true,
		PermManageInventory: true, PermProcessTransactions: true, PermManageBom: true,
		PermManageWarehouse: true, PermProcessExchange: true, PermManageLocation: true,
		PermDownloadInventory: true, PermDownloadTransactions: true, PermDownloadBom: true, PermDownloadAll: true,
		PermCreateDiary: true, PermEditDiary: true, PermDeleteDiary: true, PermViewReports: true,
	},
	RoleManager: {
		PermResetData: false, PermRestoreData: false, PermManageUsers: false, PermManagePermissions: false,
		PermUploadBom: true, PermUploadMaster: true, PermUploadInventoryAdd: true, PermUploadInventorySync: false,
		PermAccessExcelManagement: true, PermBackupData: true,
		PermManageInventory: true, PermProcessTransactions: true, PermManageBom: true,
		PermManageWarehouse: true, PermProcessExchange: true, PermManageLocation: true,
		PermDownloadInventory: true, PermDownloadTransactions: true, PermDownloadBom: true, PermDownloadAll: false,
		PermCreateDiary: true, PermEditDiary: true, PermDeleteDiary: false, PermViewReports: true,
	},
	RoleUser: {
		PermResetData: false, PermRestoreData: false, PermManageUsers: false, PermManagePermissions: false,
		PermUploadBom: false, PermUploadMaster: false, PermUploadInventoryAdd: true, PermUploadInventorySync: false,
		PermAccessExcelManagement: true, PermBackupData: false,
		PermManageInventory: false, PermProcessTransactions: true, PermManageBom: false,
		PermManageWarehouse: false, PermProcessExchange: false, PermManageLocation: false,
		PermDownloadInventory: true, PermDownloadTransactions: false, PermDownloadBom: true, PermDownloadAll: false,
		PermCreateDiary: true, PermEditDiary: true, PermDeleteDiary: false, PermViewReports: true,
	},
	RoleViewer: {
		PermResetData: false, PermRestoreData: false, PermManageUsers: false, PermManagePermissions: false,
		PermUploadBom: false, PermUploadMaster: false, PermUploadInventoryAdd: false, PermUploadInventorySync: false,
		PermAccessExcelManagement: false, PermBackupData: false,
		PermManageInventory: true, PermProcessTransactions: false, PermManageBom: true,
		PermManageWarehouse: false, PermProcessExchange: false, PermManageLocation: false,
		PermDownloadInventory: false, PermDownloadTransactions: false, PermDownloadBom: false, PermDownloadAll: false,
		PermCreateDiary: false, PermEditDiary: false, PermDeleteDiary: false, PermViewReports: true,
	},
}

// permissionOverride returns the user's explicit value for a key, or nil when
// the role default should stand.
func permissionOverride(u *User, key string) *bool {
	switch key {
	case PermUploadBom:
		return u.CanUploadBom
	case PermUploadMaster:
		return u.CanUploadMaster
	case PermUploadInventoryAdd:
		return u.CanUploadInventoryAdd
	case PermUploadInventorySync:
		return u.CanUploadInventorySync
	case PermAccessExcelManagement:
		return u.CanAccessExcelManagement
	case PermBackupData:
		return u.CanBackupData
	case PermRestoreData:
		return u.CanRestoreData
	case PermResetData:
		return u.CanResetData
	case PermManageUsers:
		return u.CanManageUsers
	case PermManagePermissions:
		return u.CanManagePermissions
	case PermDownloadInventory:
		return u.CanDownloadInventory
	case PermDownloadTransactions:
		return u.CanDownloadTransactions
	case PermDownloadBom:
		return u.CanDownloadBom
	case PermDownloadAll:
		return u.CanDownloadAll
	case PermManageInventory:
		return u.CanManageInventory
	case PermProcessTransactions:
		return u.CanProcessTransactions
	case PermManageBom:
		return u.CanManageBom
	case PermManageWarehouse:
		return u.CanManageWarehouse
	case PermProcessExchange:
		return u.CanProcessExchange
	case PermManageLocation:
		return u.CanManageLocation
	case PermCreateDiary:
		return u.CanCreateDiary
	case PermEditDiary:
		return u.CanEditDiary
	case PermDeleteDiary:
		return u.CanDeleteDiary
	case PermViewReports:
		return u.CanViewReports
	}
	return nil
}

// setPermissionOverride writes an explicit value for a key onto the user record
func setPermissionOverride(u *User, key string, value bool) {
	v := value
	switch key {
	case PermUploadBom:
		u.CanUploadBom = &v
	case PermUploadMaster:
		u.CanUploadMaster = &v
	case PermUploadInventoryAdd:
		u.CanUploadInventoryAdd = &v
	case PermUploadInventorySync:
		u.CanUploadInventorySync = &v
	case PermAccessExcelManagement:
		u.CanAccessExcelManagement = &v
	case PermBackupData:
		u.CanBackupData = &v
	case PermRestoreData:
		u.CanRestoreData = &v
	case PermResetData:
		u.CanResetData = &v
	case PermManageUsers:
		u.CanManageUsers = &v
	case PermManagePermissions:
		u.CanManagePermissions = &v
	case PermDownloadInventory:
		u.CanDownloadInventory = &v
	case PermDownloadTransactions:
		u.CanDownloadTransactions = &v
	case PermDownloadBom:
		u.CanDownloadBom = &v
	case PermDownloadAll:
		u.CanDownloadAll = &v
	case PermManageInventory:
		u.CanManageInventory = &v
	case PermProcessTransactions:
		u.CanProcessTransactions = &v
	case PermManageBom:
		u.CanManageBom = &v
	case PermManageWarehouse:
		u.CanManageWarehouse = &v
	case PermProcessExchange:
		u.CanProcessExchange = &v
	case PermManageLocation:
		u.CanManageLocation = &v
	case PermCreateDiary:
		u.CanCreateDiary = &v
	case PermEditDiary:
		u.CanEditDiary = &v
	case PermDeleteDiary:
		u.CanDeleteDiary = &v
	case PermViewReports:
		u.CanViewReports = &v
	}
}

// ResolvePermissions merges the role template with the user's explicit
// overrides. Unknown roles fall back to the viewer template.
func ResolvePermissions(u *User) map[string]bool {
	template, ok := RolePermissions[u.Role]
	if !ok {
		template = RolePermissions[RoleViewer]
	}

	resolved := make(map[string]bool, len(AllPermissions))
	for _, key := range AllPermissions {
		resolved[key] = template[key]
		if override := permissionOverride(u, key); override != nil {
			resolved[key] = *override
		}
	}
	return resolved
}

// HasPermission reports the resolved value for a key, false for unknown keys
func (u *User) HasPermission(key string) bool {
	return ResolvePermissions(u)[key]
}

// HasCriticalPermission requires the resolved flag AND, for critical keys, the
// super_admin role. Both checks must pass so that a role-default or override
// mistake cannot grant destructive capability outside the top role.
func (u *User) HasCriticalPermission(key string) bool {
	if !u.HasPermission(key) {
		return false
	}
	for _, critical := range CriticalPermissions {
		if key == critical {
			return u.Role == RoleSuperAdmin
		}
	}
	return true
}

// ApplyRolePermissions stamps a role's defaults onto the user as explicit
// overrides. Used at account creation and on role change.
func ApplyRolePermissions(u *User, role string) {
	template, ok := RolePermissions[role]
	if !ok {
		template = RolePermissions[RoleViewer]
	}
	for _, key := range AllPermissions {
		setPermissionOverride(u, key, template[key])
	}
}

// SetPermission records a single explicit override on the user record
func SetPermission(u *User, key string, value bool) {
	setPermissionOverride(u, key, value)
}
