package entities

import "time"

// User - учетная запись покупателя. Заменяется целиком при входе.
type User struct {
	ID             string    `json:"id" validate:"required"`
	Email          string    `json:"email" validate:"required,email"`
	Mobile         string    `json:"mobile,omitempty" validate:"omitempty,e164"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	EmailVerified  bool      `json:"email_verified"`
	MobileVerified bool      `json:"mobile_verified"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// FullName склеивает имя и фамилию.
func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}
