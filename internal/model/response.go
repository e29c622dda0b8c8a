package model

// AuthPayload is the success body for register (201) and login (200).
type AuthPayload struct {
	Message string   `json:"message"`
	User    AuthUser `json:"user"`
	Token   string   `json:"token"`
}

// CurrentUserResponse is the success body for /me.
type CurrentUserResponse struct {
	User Profile `json:"user"`
}

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error string `json:"error"`
}
