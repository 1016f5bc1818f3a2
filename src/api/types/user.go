package types

import "time"

type Role string

const (
	RoleAdmin      Role = "admin"
	RoleLeadership Role = "leadership"
	RoleMember     Role = "member"
)

// User mirrors the identity held by the external auth provider. Rows are
// upserted from token claims; only the role can be changed through the API.
type User struct {
	ID              string    `gorm:"primaryKey;size:64" json:"id"`
	Email           string    `gorm:"size:255;index" json:"email"`
	FirstName       string    `gorm:"size:128" json:"firstName"`
	LastName        string    `gorm:"size:128" json:"lastName"`
	Role            Role      `gorm:"size:16;not null" json:"role"`
	ProfileImageURL string    `gorm:"size:512" json:"profileImageUrl"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
