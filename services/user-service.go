package services

import (
	"context"
	"fmt"
	"html"
	"time"

	"github.com/manuelbmaa/management-system/logging"
	"github.com/manuelbmaa/management-system/models"
	"github.com/manuelbmaa/management-system/utils"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserService struct {
	UserCollection *mongo.Collection
	MailBreaker    *gobreaker.CircuitBreaker
}

func NewUserService(userCollection *mongo.Collection, mailBreaker *gobreaker.CircuitBreaker) *UserService {
	return &UserService{
		UserCollection: userCollection,
		MailBreaker:    mailBreaker,
	}
}

// ValidatePassword rejects passwords that are too short. It runs before
// any hashing or persistence.
func ValidatePassword(password string) error {
	if len(password) < 6 {
		return fmt.Errorf("password must be at least 6 characters long")
	}
	return nil
}

// CreateUser validates, hashes the password and stores a new user.
// The unique index on email backs up the duplicate pre-check.
func (s *UserService) CreateUser(ctx context.Context, user models.User, password string) (*models.User, error) {
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	user.Email = html.EscapeString(user.Email)
	user.FullName = html.EscapeString(user.FullName)

	if err := user.Validate(); err != nil {
		return nil, err
	}

	var existing models.User
	if err := s.UserCollection.FindOne(ctx, bson.M{"email": user.Email}).Decode(&existing); err == nil {
		return nil, fmt.Errorf("email already exists")
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user.ID = primitive.NewObjectID()
	user.Password = hashed
	user.CreatedAt = time.Now()

	if _, err := s.UserCollection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("email already exists")
		}
		return nil, fmt.Errorf("failed to save user: %v", err)
	}

	user.Password = ""
	return &user, nil
}

// GetAllUsers lists users, optionally excluding the calling user's id.
// Passwords are never included in the result.
func (s *UserService) GetAllUsers(ctx context.Context, excludeID string) ([]models.User, error) {
	filter := bson.M{}
	if excludeID != "" {
		objectID, err := primitive.ObjectIDFromHex(excludeID)
		if err != nil {
			return nil, fmt.Errorf("invalid user ID format")
		}
		filter["_id"] = bson.M{"$ne": objectID}
	}

	cursor, err := s.UserCollection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %v", err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %v", err)
	}

	for i := range users {
		users[i].Password = ""
	}
	return users, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format")
	}

	var user models.User
	if err := s.UserCollection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&user); err != nil {
		return nil, fmt.Errorf("user not found")
	}

	user.Password = ""
	return &user, nil
}

// UpdateUser patches fullname, email and role on an existing user.
func (s *UserService) UpdateUser(ctx context.Context, id, fullname, email, role string) (*models.User, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format")
	}

	patch := models.User{
		Email:    html.EscapeString(email),
		FullName: html.EscapeString(fullname),
		Role:     role,
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	// Another user may already own the new email.
	var conflict models.User
	err = s.UserCollection.FindOne(ctx, bson.M{"email": patch.Email, "_id": bson.M{"$ne": objectID}}).Decode(&conflict)
	if err == nil {
		return nil, fmt.Errorf("email already exists")
	}

	update := bson.M{"$set": bson.M{
		"fullname": patch.FullName,
		"email":    patch.Email,
		"role":     patch.Role,
	}}

	var updated models.User
	err = s.UserCollection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("user not found")
		}
		return nil, fmt.Errorf("failed to update user: %v", err)
	}

	updated.Password = ""
	return &updated, nil
}

// DeleteUser removes the user document. References to the user held by
// projects and roles are left in place, matching the original behavior.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid user ID format")
	}

	result, err := s.UserCollection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete user: %v", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("user not found")
	}
	return nil
}

// LoginUser verifies the credentials and issues a session token.
func (s *UserService) LoginUser(ctx context.Context, email, password string) (*models.User, string, error) {
	var user models.User
	if err := s.UserCollection.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		return nil, "", fmt.Errorf("user not found")
	}

	if err := utils.CheckPassword(user.Password, password); err != nil {
		return nil, "", fmt.Errorf("invalid password")
	}

	token, err := utils.GenerateToken(user.Email, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %v", err)
	}

	user.Password = ""
	return &user, token, nil
}

// ResetPassword generates a new random password, stores its hash and mails
// it to the user. The SMTP relay sits behind the circuit breaker.
func (s *UserService) ResetPassword(ctx context.Context, email string) error {
	var user models.User
	if err := s.UserCollection.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		return fmt.Errorf("user not found")
	}

	newPassword := utils.GenerateRandomPassword()
	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}

	_, err = s.UserCollection.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": bson.M{"password": hashed}})
	if err != nil {
		return fmt.Errorf("failed to update password: %v", err)
	}

	subject := "Your new password"
	body := fmt.Sprintf("Your new password is: %s", newPassword)

	_, err = s.MailBreaker.Execute(func() (interface{}, error) {
		return nil, utils.SendEmail(user.Email, subject, body)
	})
	if err != nil {
		logging.Logger.Errorf("Event ID: RESET_MAIL_FAILED, Description: Failed to send reset mail to %s: %v", user.Email, err)
		return fmt.Errorf("failed to send password reset email")
	}

	return nil
}
