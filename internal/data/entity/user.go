package entity

// UserRole is the capability level of an account.
type UserRole string

const (
	RoleMember    UserRole = "member"
	RoleStaff     UserRole = "staff"
	RoleSuperuser UserRole = "superuser"
)

type User struct {
	Base
	Username     string   `db:"username"`
	Email        string   `db:"email"`
	PasswordHash string   `db:"password"`
	FirstName    string   `db:"first_name"`
	LastName     string   `db:"last_name"`
	Role         UserRole `db:"role"`
	IsActive     bool     `db:"is_active"`
}
