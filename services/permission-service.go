package services

import (
	"context"
	"fmt"
	"time"

	"github.com/manuelbmaa/management-system/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PermissionService struct {
	PermissionCollection *mongo.Collection
}

func NewPermissionService(permissionCollection *mongo.Collection) *PermissionService {
	return &PermissionService{PermissionCollection: permissionCollection}
}

func (s *PermissionService) CreatePermission(ctx context.Context, permission models.Permission) (*models.Permission, error) {
	if err := permission.Validate(); err != nil {
		return nil, err
	}

	var existing models.Permission
	if err := s.PermissionCollection.FindOne(ctx, bson.M{"name": permission.Name}).Decode(&existing); err == nil {
		return nil, fmt.Errorf("permission already exists")
	}

	permission.ID = primitive.NewObjectID()
	permission.CreatedAt = time.Now()

	if _, err := s.PermissionCollection.InsertOne(ctx, permission); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("permission already exists")
		}
		return nil, fmt.Errorf("failed to save permission: %v", err)
	}

	return &permission, nil
}

func (s *PermissionService) GetAllPermissions(ctx context.Context) ([]models.Permission, error) {
	cursor, err := s.PermissionCollection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch permissions: %v", err)
	}
	defer cursor.Close(ctx)

	var permissions []models.Permission
	if err := cursor.All(ctx, &permissions); err != nil {
		return nil, fmt.Errorf("failed to decode permissions: %v", err)
	}
	return permissions, nil
}

func (s *PermissionService) GetPermissionByID(ctx context.Context, id string) (*models.Permission, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid permission ID format")
	}

	var permission models.Permission
	if err := s.PermissionCollection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&permission); err != nil {
		return nil, fmt.Errorf("permission not found")
	}
	return &permission, nil
}

func (s *PermissionService) UpdatePermission(ctx context.Context, id string, permission models.Permission) (*models.Permission, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid permission ID format")
	}

	if err := permission.Validate(); err != nil {
		return nil, err
	}

	update := bson.M{"$set": bson.M{
		"name":        permission.Name,
		"description": permission.Description,
	}}

	var updated models.Permission
	err = s.PermissionCollection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("permission not found")
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("permission already exists")
		}
		return nil, fmt.Errorf("failed to update permission: %v", err)
	}

	return &updated, nil
}

func (s *PermissionService) DeletePermission(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid permission ID format")
	}

	result, err := s.PermissionCollection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete permission: %v", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("permission not found")
	}
	return nil
}
