package models

// User represents a registered account
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"` // Not serialized
}

// Identity is the verified caller attached to a request by the auth middleware
type Identity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}
