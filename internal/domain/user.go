package domain

import "time"

type RoleName string

const (
	RoleAdmin    RoleName = "ADMIN"
	RoleManager  RoleName = "MANAGER"
	RoleDriver   RoleName = "DRIVER"
	RoleOperator RoleName = "OPERATOR"
	RoleViewer   RoleName = "VIEWER"
)

// Permission keys stored in Role.Permissions.
const (
	PermManageUsers        = "can_manage_users"
	PermManageRoles        = "can_manage_roles"
	PermManageBins         = "can_manage_bins"
	PermManageTrucks       = "can_manage_trucks"
	PermManageDumpingSpots = "can_manage_dumping_spots"
	PermViewReports        = "can_view_reports"
	PermManageSystem       = "can_manage_system"
)

type Role struct {
	ID          int64
	Name        RoleName
	Description string
	Permissions map[string]bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (r *Role) Can(perm string) bool {
	return r != nil && r.Permissions[perm]
}

type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Role         RoleName
	IsActive     bool
	IsStaff      bool
	CreatedAt    time.Time
}

// A single login attempt kept in the audit log.
type LoginAttempt struct {
	Username  string    `json:"username"`
	IPAddress string    `json:"ip_address"`
	Success   bool      `json:"success"`
	Timestamp time.Time `json:"timestamp"`
}

// DefaultRoles returns the built-in roles and their permission sets.
func DefaultRoles() []Role {
	all := func(v bool) map[string]bool {
		return map[string]bool{
			PermManageUsers:        v,
			PermManageRoles:        v,
			PermManageBins:         v,
			PermManageTrucks:       v,
			PermManageDumpingSpots: v,
			PermViewReports:        true,
			PermManageSystem:       v,
		}
	}
	operations := func() map[string]bool {
		p := all(false)
		p[PermManageBins] = true
		p[PermManageTrucks] = true
		p[PermManageDumpingSpots] = true
		return p
	}

	return []Role{
		{Name: RoleAdmin, Description: "Full system administrator with all permissions", Permissions: all(true)},
		{Name: RoleManager, Description: "Manager with oversight permissions", Permissions: operations()},
		{Name: RoleDriver, Description: "Truck driver with limited permissions", Permissions: all(false)},
		{Name: RoleOperator, Description: "System operator with data management permissions", Permissions: operations()},
		{Name: RoleViewer, Description: "Read-only access to system data", Permissions: all(false)},
	}
}
