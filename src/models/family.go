package models

import "time"

// Family is the tenant root. One family per owning identity; the family id
// is the owner's UID.
type Family struct {
	ID        string    `json:"id"`
	OwnerUID  string    `json:"owner_uid"`
	OwnerName string    `json:"owner_name"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
