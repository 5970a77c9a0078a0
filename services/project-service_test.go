package services

import (
	"context"
	"testing"

	"github.com/manuelbmaa/management-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestAddTaskJoinsAssigneeToMemberSet(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("assignee joins through a set insert", func(mt *mtest.T) {
		projectID := primitive.NewObjectID()
		assigneeID := primitive.NewObjectID()
		svc := NewProjectService(mt.Coll, mt.Coll.Database().Collection("users"))

		mt.AddMockResponses(
			// Assignee lookup count, then the single-document update.
			mtest.CreateCursorResponse(0, "management-system.users", mtest.FirstBatch, bson.D{
				{Key: "n", Value: int32(1)},
			}),
			mtest.CreateSuccessResponse(
				bson.E{Key: "n", Value: 1},
				bson.E{Key: "nModified", Value: 1},
			),
		)

		created, err := svc.AddTask(context.Background(), projectID.Hex(), models.Task{
			Name:       "Deploy",
			AssignedTo: assigneeID.Hex(),
		})
		require.NoError(mt, err)
		assert.NotEmpty(mt, created.ID)
		assert.Equal(mt, models.TaskStatusPending, created.Status)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "aggregate", evt.CommandName)

		// Membership is written with $addToSet, so the assignee ends up in
		// the member set exactly once no matter how many tasks they hold.
		evt = mt.GetStartedEvent()
		require.NotNil(mt, evt)
		require.Equal(mt, "update", evt.CommandName)
		cmd := evt.Command.String()
		assert.Contains(mt, cmd, "$addToSet")
		assert.Contains(mt, cmd, assigneeID.Hex())
		assert.Contains(mt, cmd, "$push")
	})
}

func TestAddTaskRejectsUnknownAssignee(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("no matching user", func(mt *mtest.T) {
		projectID := primitive.NewObjectID()
		svc := NewProjectService(mt.Coll, mt.Coll.Database().Collection("users"))

		mt.AddMockResponses(mtest.CreateCursorResponse(0, "management-system.users", mtest.FirstBatch))

		_, err := svc.AddTask(context.Background(), projectID.Hex(), models.Task{
			Name:       "Deploy",
			AssignedTo: primitive.NewObjectID().Hex(),
		})
		require.Error(mt, err)
		assert.Equal(mt, "assigned user not found", err.Error())
	})
}

func TestDeleteTaskAtIndexRejectsConcurrentChange(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("task count guard misses", func(mt *mtest.T) {
		projectID := primitive.NewObjectID()
		svc := NewProjectService(mt.Coll, mt.Coll.Database().Collection("users"))

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "management-system.projects", mtest.FirstBatch, bson.D{
				{Key: "_id", Value: projectID},
				{Key: "name", Value: "Website"},
				{Key: "tasks", Value: bson.A{bson.D{
					{Key: "id", Value: "t1"},
					{Key: "name", Value: "Deploy"},
					{Key: "status", Value: models.TaskStatusPending},
				}}},
			}),
			// Another task was appended after the read, so the guarded
			// write matches nothing.
			mtest.CreateSuccessResponse(
				bson.E{Key: "n", Value: 0},
				bson.E{Key: "nModified", Value: 0},
			),
		)

		err := svc.DeleteTaskAtIndex(context.Background(), projectID.Hex(), 0)
		require.Error(mt, err)
		assert.Equal(mt, "project was modified concurrently", err.Error())

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "find", evt.CommandName)

		evt = mt.GetStartedEvent()
		require.NotNil(mt, evt)
		require.Equal(mt, "update", evt.CommandName)
		assert.Contains(mt, evt.Command.String(), "$size")
	})
}
