package model

// AuthUser is the minimal identity returned by register and login.
type AuthUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Profile is the projection of the upstream profile record exposed by /me.
// Optional columns come back as null from the store and decode to zero values.
type Profile struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	AvatarURL  string `json:"avatar_url"`
	Bio        string `json:"bio"`
	Department string `json:"department"`
	Year       int    `json:"year"`
}
