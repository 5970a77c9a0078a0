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

type RoleService struct {
	RoleCollection       *mongo.Collection
	PermissionCollection *mongo.Collection
}

func NewRoleService(roleCollection, permissionCollection *mongo.Collection) *RoleService {
	return &RoleService{
		RoleCollection:       roleCollection,
		PermissionCollection: permissionCollection,
	}
}

// validatePermissionIDs checks that every referenced permission exists.
// The whole operation is rejected when any id is unresolved.
func (s *RoleService) validatePermissionIDs(ctx context.Context, ids []primitive.ObjectID) error {
	if len(ids) == 0 {
		return fmt.Errorf("role permissions are required")
	}

	count, err := s.PermissionCollection.CountDocuments(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return fmt.Errorf("failed to verify permissions: %v", err)
	}
	if count != int64(len(uniqueObjectIDs(ids))) {
		return fmt.Errorf("invalid permissions")
	}
	return nil
}

func uniqueObjectIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func (s *RoleService) CreateRole(ctx context.Context, name string, permissionIDs []primitive.ObjectID) (*models.Role, error) {
	if name == "" {
		return nil, fmt.Errorf("role name is required")
	}
	if err := s.validatePermissionIDs(ctx, permissionIDs); err != nil {
		return nil, err
	}

	role := models.Role{
		ID:          primitive.NewObjectID(),
		Name:        name,
		Permissions: permissionIDs,
		CreatedAt:   time.Now(),
	}

	if _, err := s.RoleCollection.InsertOne(ctx, role); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("role already exists")
		}
		return nil, fmt.Errorf("failed to save role: %v", err)
	}

	return &role, nil
}

// GetAllRoles lists roles with their permission references expanded to
// full permission records, resolved in a single $in query.
func (s *RoleService) GetAllRoles(ctx context.Context) ([]models.ExpandedRole, error) {
	cursor, err := s.RoleCollection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch roles: %v", err)
	}
	defer cursor.Close(ctx)

	var roles []models.Role
	if err := cursor.All(ctx, &roles); err != nil {
		return nil, fmt.Errorf("failed to decode roles: %v", err)
	}

	var allIDs []primitive.ObjectID
	for _, role := range roles {
		allIDs = append(allIDs, role.Permissions...)
	}

	byID := make(map[primitive.ObjectID]models.Permission)
	if len(allIDs) > 0 {
		permCursor, err := s.PermissionCollection.Find(ctx, bson.M{"_id": bson.M{"$in": uniqueObjectIDs(allIDs)}})
		if err != nil {
			return nil, fmt.Errorf("failed to fetch permissions: %v", err)
		}
		defer permCursor.Close(ctx)

		var permissions []models.Permission
		if err := permCursor.All(ctx, &permissions); err != nil {
			return nil, fmt.Errorf("failed to decode permissions: %v", err)
		}
		for _, p := range permissions {
			byID[p.ID] = p
		}
	}

	expanded := make([]models.ExpandedRole, 0, len(roles))
	for _, role := range roles {
		er := models.ExpandedRole{
			ID:          role.ID,
			Name:        role.Name,
			Permissions: []models.Permission{},
			CreatedAt:   role.CreatedAt,
		}
		for _, pid := range role.Permissions {
			if p, ok := byID[pid]; ok {
				er.Permissions = append(er.Permissions, p)
			}
		}
		expanded = append(expanded, er)
	}

	return expanded, nil
}

func (s *RoleService) GetRoleByID(ctx context.Context, id string) (*models.Role, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid role ID format")
	}

	var role models.Role
	if err := s.RoleCollection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&role); err != nil {
		return nil, fmt.Errorf("role not found")
	}
	return &role, nil
}

func (s *RoleService) UpdateRole(ctx context.Context, id, name string, permissionIDs []primitive.ObjectID) (*models.Role, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid role ID format")
	}
	if name == "" {
		return nil, fmt.Errorf("role name is required")
	}
	if err := s.validatePermissionIDs(ctx, permissionIDs); err != nil {
		return nil, err
	}

	update := bson.M{"$set": bson.M{
		"name":        name,
		"permissions": permissionIDs,
	}}

	var updated models.Role
	err = s.RoleCollection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("role not found")
		}
		return nil, fmt.Errorf("failed to update role: %v", err)
	}

	return &updated, nil
}

func (s *RoleService) DeleteRole(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid role ID format")
	}

	result, err := s.RoleCollection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete role: %v", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("role not found")
	}
	return nil
}
