package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleOwner  Role = "Owner"
	RoleMember Role = "Member"
)

// ProjectMember grants a user access to a project. The pair
// (projectId, userId) is unique: a user joins a project at most once.
type ProjectMember struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProjectID primitive.ObjectID `bson:"projectId" json:"projectId"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Role      Role               `bson:"role" json:"role"`
	JoinedAt  time.Time          `bson:"joinedAt" json:"joinedAt"`
}

// MemberInfo is a member row enriched with the user's email for display.
type MemberInfo struct {
	ID       primitive.ObjectID `json:"id"`
	UserID   primitive.ObjectID `json:"userId"`
	Email    string             `json:"email"`
	Role     Role               `json:"role"`
	JoinedAt time.Time          `json:"joinedAt"`
}
