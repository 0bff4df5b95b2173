package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles
const (
	RoleAdmin     = "admin"
	RoleDesigner  = "designer"
	RoleDeveloper = "developer"
	RoleClient    = "client"
	RoleLegal     = "legal"
)

type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email          string             `bson:"email" json:"email"`
	HashedPassword string             `bson:"hashedPassword" json:"-"`
	DisplayName    string             `bson:"displayName" json:"display_name"`
	Role           string             `bson:"role" json:"role"`
	CreatedAt      time.Time          `bson:"createdAt" json:"created_at"`
}

// Session identifies the authenticated caller for a single request. It is
// passed explicitly into services that need role checks; there is no ambient
// auth context.
type Session struct {
	UserID string
	Role   string
}

func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}
