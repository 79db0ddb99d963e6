package models

// Role classifies an authenticated actor for authorization checks.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleProvider Role = "provider"
	RoleAdmin    Role = "admin"
	RoleSystem   Role = "system" // internal trigger, e.g. the lifecycle sweep
)

// Actor is a resolved identity: who is calling, and what they own.
type Actor struct {
	ID         string `json:"id"`
	Role       Role   `json:"role"`
	ProviderID string `json:"providerId,omitempty"` // set when the actor owns a provider profile
}

// SystemActor is the identity used by internal time-based triggers.
var SystemActor = Actor{ID: "system", Role: RoleSystem}
