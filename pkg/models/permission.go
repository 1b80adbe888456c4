package models

// Permission tokens checked by the authorization gate. The catalog is closed:
// permissions are never composed at runtime.
const (
	PermViewProjects       = "view_projects"
	PermManageProjects     = "manage_projects"
	PermViewOrders         = "view_orders"
	PermManageOrders       = "manage_orders"
	PermViewTasks          = "view_tasks"
	PermManageTasks        = "manage_tasks"
	PermManageUsers        = "manage_users"
	PermViewAnalytics      = "view_analytics"
	PermViewReports        = "view_reports"
	PermApproveDeliverable = "approve_deliverable"
	PermUseAIAssist        = "use_ai_assist"
)

// rolePermissions is the single source of truth for the role → permission
// mapping. Per-user overrides are stored denormalized on the user record.
var rolePermissions = map[string][]string{
	RoleAdmin: {
		PermViewProjects,
		PermManageProjects,
		PermViewOrders,
		PermManageOrders,
		PermViewTasks,
		PermManageTasks,
		PermManageUsers,
		PermViewAnalytics,
		PermViewReports,
		PermApproveDeliverable,
		PermUseAIAssist,
	},
	RoleProjectManager: {
		PermViewProjects,
		PermManageProjects,
		PermViewOrders,
		PermManageOrders,
		PermViewTasks,
		PermManageTasks,
		PermViewReports,
		PermUseAIAssist,
	},
	RoleDesigner: {
		PermViewProjects,
		PermViewTasks,
		PermManageTasks,
		PermUseAIAssist,
	},
	RoleClient: {
		PermViewProjects,
		PermViewOrders,
		PermApproveDeliverable,
		PermUseAIAssist,
	},
}

// AllPermissions contains every token in the catalog.
var AllPermissions = []string{
	PermViewProjects,
	PermManageProjects,
	PermViewOrders,
	PermManageOrders,
	PermViewTasks,
	PermManageTasks,
	PermManageUsers,
	PermViewAnalytics,
	PermViewReports,
	PermApproveDeliverable,
	PermUseAIAssist,
}

// IsValidPermission checks if the token belongs to the catalog.
func IsValidPermission(p string) bool {
	for _, known := range AllPermissions {
		if known == p {
			return true
		}
	}
	return false
}

// PermissionsForRole returns the permission set granted to a role. The result
// is a copy; callers may mutate it freely. An unrecognized role yields an
// empty set so the gate fails closed instead of panicking.
func PermissionsForRole(role string) []string {
	perms, ok := rolePermissions[role]
	if !ok {
		return []string{}
	}
	out := make([]string, len(perms))
	copy(out, perms)
	return out
}

// HasPermission reports whether the permission set contains the given action.
func HasPermission(perms []string, action string) bool {
	for _, p := range perms {
		if p == action {
			return true
		}
	}
	return false
}

// Can is the capability check shared by the server-side gate and anything
// rendering available actions. When the caller has a denormalized permission
// set it is authoritative; otherwise the role catalog decides.
func Can(role string, perms []string, action string) bool {
	if len(perms) > 0 {
		return HasPermission(perms, action)
	}
	return HasPermission(PermissionsForRole(role), action)
}
