package rbac

const (
	RoleStudent = "STUDENT"
	RoleAdmin   = "ADMIN"
)

// RolePermissions is the default policy. Admins can do everything; students
// get the read-and-submit surface.
var RolePermissions = map[string][]string{
	RoleStudent: {
		"catalog:view",
		"activity:view",
		"activity:submit",
		"submission:view-own",
		"progress:view",
		"progress:save",
	},
	RoleAdmin: {
		"*",
	},
}

func ValidRole(role string) bool {
	_, ok := RolePermissions[role]
	return ok
}
