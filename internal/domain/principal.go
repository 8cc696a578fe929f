package domain

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Principal is the authenticated caller of an operation.
type Principal struct {
	ID   int64
	Role Role
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
