package handler

const (
	errInternalServer     = "Internal server error"
	errEmailTaken         = "Email already registered"
	errInvalidCredentials = "Invalid email or password"
	errTokenInvalid       = "Token is invalid or expired"
)
