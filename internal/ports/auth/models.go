package auth

// Role define los tipos de cuenta soportados.
type Role string

const (
	RoleOwner     Role = "OWNER"
	RoleCaretaker Role = "CARETAKER"
	RoleAdmin     Role = "ADMIN"
)

// Claims representa la información extraída del token.
type Claims struct {
	UserID   string
	Username string
	Email    string
	Role     Role
}
