package services

import (
	"context"
	"testing"

	"github.com/manuelbmaa/management-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("123456"))
	assert.NoError(t, ValidatePassword("a-much-longer-password"))

	err := ValidatePassword("12345")
	require.Error(t, err)
	assert.Equal(t, "password must be at least 6 characters long", err.Error())

	assert.Error(t, ValidatePassword(""))
}

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	signup := models.User{
		Email:    "ana@example.com",
		FullName: "Ana Torres",
		Role:     models.RoleTeamMember,
	}

	mt.Run("existing record caught by the pre-check", func(mt *mtest.T) {
		svc := NewUserService(mt.Coll, nil)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "management-system.users", mtest.FirstBatch, bson.D{
			{Key: "email", Value: "ana@example.com"},
		}))

		_, err := svc.CreateUser(context.Background(), signup, "123456")
		require.Error(mt, err)
		assert.Equal(mt, "email already exists", err.Error())
	})

	mt.Run("duplicate key error from the unique index", func(mt *mtest.T) {
		// The pre-check sees nothing, a concurrent signup wins the insert.
		svc := NewUserService(mt.Coll, nil)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "management-system.users", mtest.FirstBatch),
			mtest.CreateWriteErrorsResponse(mtest.WriteError{
				Index:   0,
				Code:    11000,
				Message: "E11000 duplicate key error",
			}),
		)

		_, err := svc.CreateUser(context.Background(), signup, "123456")
		require.Error(mt, err)
		assert.Equal(mt, "email already exists", err.Error())
	})
}
