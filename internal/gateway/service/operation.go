package service

// Operation names a gateway entry point for authentication and
// authorization decisions.
type Operation string

const (
	OpLogin        Operation = "login"
	OpUnauthorized Operation = "unauthorized"
	OpLivez        Operation = "livez"
	OpReadyz       Operation = "readyz"
	OpJWKS         Operation = "jwks"
	OpMetrics      Operation = "metrics"
	OpSwagger      Operation = "swagger"

	OpMe          Operation = "users.me"
	OpDashboard   Operation = "dashboard"
	OpTenantReset Operation = "admin.tenants.reset"
)

// publicOperations may run without an authenticated identity.
var publicOperations = map[Operation]struct{}{
	OpLogin:        {},
	OpUnauthorized: {},
	OpLivez:        {},
	OpReadyz:       {},
	OpJWKS:         {},
	OpMetrics:      {},
	OpSwagger:      {},
}

// IsPublic reports whether op bypasses authentication.
func IsPublic(op Operation) bool {
	_, ok := publicOperations[op]
	return ok
}
