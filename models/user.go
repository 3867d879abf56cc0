package models

type User struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

type Tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// AuthPayload is the `data` member returned by the auth service on login,
// registration and refresh.
type AuthPayload struct {
	Tokens Tokens `json:"tokens"`
	User   User   `json:"user"`
}

type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type RegisterRequest struct {
	FirstName string `json:"first_name" form:"first_name"`
	LastName  string `json:"last_name" form:"last_name"`
	Email     string `json:"email" form:"email" validate:"required"`
	Username  string `json:"username" form:"username"`
	Password  string `json:"password" form:"password" validate:"required"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh"`
}
