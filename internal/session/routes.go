package session

import "github.com/imaxretail/storefront/internal/models"

// Route is a navigation target in the view layer. The store decides where
// to go after auth transitions; rendering the route is the view's problem.
type Route string

const (
	RouteHome                Route = "/"
	RouteCustomerDashboard   Route = "/dashboard"
	RouteTechnicianDashboard Route = "/technician"
	RouteAdminDashboard      Route = "/admin"
)

// Navigator receives post-auth navigation requests.
type Navigator interface {
	Navigate(Route)
}

// RouteForRole maps a role to its dashboard. Unknown or empty roles land on
// the customer dashboard.
func RouteForRole(role string) Route {
	switch role {
	case models.RoleAdmin:
		return RouteAdminDashboard
	case models.RoleTechnician:
		return RouteTechnicianDashboard
	default:
		return RouteCustomerDashboard
	}
}
