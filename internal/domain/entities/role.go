package entities

// Role representa o papel de um usuário no sistema
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Permission representa uma permissão específica
type Permission string

const (
	// Prediction permissions
	PermissionPredictionCreate Permission = "predictions.create"
	PermissionHistoryRead      Permission = "history.read"
	PermissionHistoryDelete    Permission = "history.delete"

	// Admin permissions
	PermissionUserManage         Permission = "users.manage"
	PermissionPredictionModerate Permission = "predictions.moderate"
	PermissionReportRead         Permission = "reports.read"
)

// RolePermissions mapeia roles para suas permissões
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionPredictionCreate,
		PermissionHistoryRead,
		PermissionHistoryDelete,
		PermissionUserManage,
		PermissionPredictionModerate,
		PermissionReportRead,
	},
	RoleUser: {
		PermissionPredictionCreate,
		PermissionHistoryRead,
		PermissionHistoryDelete,
	},
}

// ParseRole converte uma string em Role, retornando false para valores desconhecidos
func ParseRole(value string) (Role, bool) {
	switch Role(value) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleUser:
		return RoleUser, true
	}
	return "", false
}

// Toggled retorna o papel oposto (admin <-> user)
func (r Role) Toggled() Role {
	if r == RoleAdmin {
		return RoleUser
	}
	return RoleAdmin
}

// GetPermissions retorna permissões de um role
func (r Role) GetPermissions() []Permission {
	return RolePermissions[r]
}

// HasPermission verifica se role tem permissão
func (r Role) HasPermission(permission Permission) bool {
	permissions := RolePermissions[r]
	for _, p := range permissions {
		if p == permission {
			return true
		}
	}
	return false
}
