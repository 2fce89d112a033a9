package auth

// LoginQuery carries where to go after logging in.
type LoginQuery struct {
	Next string `query:"next"`
}

// LoginPayload is the submitted login form.
type LoginPayload struct {
	Username string `form:"username" mod:"trim" validate:"required"`
	Password string `form:"password" validate:"required"`
	Next     string `form:"next"`
}
