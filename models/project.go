package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Project struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	OwnerID   primitive.ObjectID `bson:"ownerId" json:"ownerId"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// ProjectSummary is what a user sees on their project list: the project
// together with the role they hold in it.
type ProjectSummary struct {
	ID        primitive.ObjectID `json:"id"`
	Name      string             `json:"name"`
	Role      Role               `json:"role"`
	CreatedAt time.Time          `json:"createdAt"`
}
