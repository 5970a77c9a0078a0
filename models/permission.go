package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Permission struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

func (p *Permission) Validate() error {
	if len(p.Name) < 3 || len(p.Name) > 50 {
		return fmt.Errorf("name must be between 3 and 50 characters")
	}
	if len(p.Description) < 3 || len(p.Description) > 255 {
		return fmt.Errorf("description must be between 3 and 255 characters")
	}
	return nil
}
