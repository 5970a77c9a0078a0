package models

import (
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleAdmin          = "Admin"
	RoleProjectManager = "ProjectManager"
	RoleTeamMember     = "TeamMember"
)

var emailPattern = regexp.MustCompile(`^\w+([\.-]?\w+)*@\w+([\.-]?\w+)*(\.\w{2,3})+$`)

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password" json:"-"`
	FullName  string             `bson:"fullname" json:"fullname"`
	Role      string             `bson:"role" json:"role"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// ValidRole reports whether role is one of the three supported roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleProjectManager, RoleTeamMember:
		return true
	}
	return false
}

// ValidEmail reports whether email matches the accepted address format.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// Validate checks the user fields that do not require a database lookup.
// The password is validated separately because update paths never carry one.
func (u *User) Validate() error {
	if !ValidEmail(u.Email) {
		return fmt.Errorf("email is invalid")
	}
	if len(u.FullName) < 3 || len(u.FullName) > 50 {
		return fmt.Errorf("fullname must be between 3 and 50 characters")
	}
	if u.Role == "" {
		u.Role = RoleTeamMember
	}
	if !ValidRole(u.Role) {
		return fmt.Errorf("invalid role specified")
	}
	return nil
}
