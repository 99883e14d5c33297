package constants

const (
	RoleDeveloper     = "developer"
	RoleAdministrador = "administrador"
	RoleStaff         = "staff"
)

func StaffRoles() []string {
	return []string{
		RoleDeveloper,
		RoleAdministrador,
		RoleStaff,
	}
}

func IsValidRole(role string) bool {
	for _, r := range StaffRoles() {
		if r == role {
			return true
		}
	}
	return false
}

// RoleRank orders roles by privilege, higher is stronger
func RoleRank(role string) int {
	switch role {
	case RoleDeveloper:
		return 3
	case RoleAdministrador:
		return 2
	case RoleStaff:
		return 1
	}
	return 0
}

// Outranks reports whether role a can administer role b
func Outranks(a, b string) bool {
	return RoleRank(a) > RoleRank(b)
}

// Permissions is the per-viewer gate set consulted before every operation
type Permissions struct {
	ManageStaff       bool `json:"manageStaff"`
	PublishGame       bool `json:"publishGame"`
	EditGame          bool `json:"editGame"`
	RemoveGame        bool `json:"removeGame"`
	ManageMaintenance bool `json:"manageMaintenance"`
}

func PermissionsForRole(role string) Permissions {
	switch role {
	case RoleDeveloper:
		return Permissions{
			ManageStaff:       true,
			PublishGame:       true,
			EditGame:          true,
			RemoveGame:        true,
			ManageMaintenance: true,
		}
	case RoleAdministrador:
		return Permissions{
			ManageStaff:       true,
			PublishGame:       true,
			EditGame:          true,
			RemoveGame:        true,
			ManageMaintenance: true,
		}
	case RoleStaff:
		return Permissions{
			EditGame:    true,
			PublishGame: true,
		}
	}
	return Permissions{}
}
