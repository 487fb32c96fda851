package models

type UserRole string

const (
	UserRoleCaptain   UserRole = "captain"
	UserRolePassenger UserRole = "passenger"
)

// User is the current session identity as supplied by the identity
// collaborator. Email is the join key between catalog, ledger and history.
type User struct {
	Email string   `json:"email" bson:"email"`
	Name  string   `json:"name" bson:"name"`
	Phone string   `json:"phone" bson:"phone"`
	Role  UserRole `json:"role" bson:"role"`
}

func (u *User) AsPassenger() Passenger {
	return Passenger{
		Email: u.Email,
		Name:  u.Name,
		Phone: u.Phone,
	}
}
