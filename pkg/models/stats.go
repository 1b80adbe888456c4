package models

// AdminStats aggregates roster and workload counts for the admin dashboard.
type AdminStats struct {
	UsersByRole      map[string]int `json:"users_by_role"`
	ProjectsByStatus map[string]int `json:"projects_by_status"`
	OpenOrders       int            `json:"open_orders"`
	TotalOrders      int            `json:"total_orders"`
}
