package domain

// Role is the caller's role claim asserted by the external auth service.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleVendor   Role = "vendor"
	RoleAdmin    Role = "admin"
)

// User is the projected field set consumed from the identity collaborator.
// Registration, login and password management live outside this service.
type User struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company,omitempty"`
	GSTIN   string `json:"gstin,omitempty"`
	Role    Role   `json:"role"`
}
