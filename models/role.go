package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name        string               `bson:"name" json:"name"`
	Permissions []primitive.ObjectID `bson:"permissions" json:"permissions"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
}

// ExpandedRole is the list-roles shape with permission references
// resolved to full records.
type ExpandedRole struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Permissions []Permission       `bson:"permissions" json:"permissions"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
