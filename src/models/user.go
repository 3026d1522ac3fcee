package models

// User is the identity the auth provider resolved. The UID doubles as the
// family id for everything the user owns.
type User struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}
