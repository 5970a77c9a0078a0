package services

import (
	"context"
	"fmt"
	"time"

	"github.com/manuelbmaa/management-system/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Keys with special meaning in the legacy multiplexed update body. They
// select an operation and must never leak into a generic field patch.
var reservedProjectKeys = []string{"id", "_id", "task", "comment", "updateTask", "deleteTaskIndex", "createdAt"}

type ProjectService struct {
	ProjectCollection *mongo.Collection
	UserCollection    *mongo.Collection
}

func NewProjectService(projectCollection, userCollection *mongo.Collection) *ProjectService {
	return &ProjectService{
		ProjectCollection: projectCollection,
		UserCollection:    userCollection,
	}
}

// CreateProject inserts a new project with the standard defaults.
func (s *ProjectService) CreateProject(ctx context.Context, name, description, status, creatorID string) (*models.Project, error) {
	if name == "" {
		return nil, fmt.Errorf("project name is required")
	}
	if status == "" {
		status = models.ProjectStatusStarted
	}

	project := models.Project{
		ID:          primitive.NewObjectID(),
		Name:        name,
		Description: description,
		Status:      status,
		ManagerID:   creatorID,
		Members:     []string{},
		Tasks:       []models.Task{},
		Comments:    []models.Comment{},
		CreatedAt:   time.Now(),
	}

	if _, err := s.ProjectCollection.InsertOne(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %v", err)
	}

	return &project, nil
}

func (s *ProjectService) GetAllProjects(ctx context.Context) ([]models.Project, error) {
	return s.findProjects(ctx, bson.M{})
}

// GetProjectsByMember lists the projects whose member set contains the user.
func (s *ProjectService) GetProjectsByMember(ctx context.Context, memberID string) ([]models.Project, error) {
	return s.findProjects(ctx, bson.M{"members": bson.M{"$in": []string{memberID}}})
}

// GetProjectsByManager lists the projects the user manages.
func (s *ProjectService) GetProjectsByManager(ctx context.Context, managerID string) ([]models.Project, error) {
	return s.findProjects(ctx, bson.M{"managerId": managerID})
}

func (s *ProjectService) findProjects(ctx context.Context, filter bson.M) ([]models.Project, error) {
	cursor, err := s.ProjectCollection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch projects: %v", err)
	}
	defer cursor.Close(ctx)

	var projects []models.Project
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, fmt.Errorf("failed to decode projects: %v", err)
	}
	return projects, nil
}

func (s *ProjectService) GetProjectByID(ctx context.Context, id string) (*models.Project, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid project ID format")
	}

	var project models.Project
	if err := s.ProjectCollection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&project); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("project not found")
		}
		return nil, fmt.Errorf("failed to fetch project: %v", err)
	}
	return &project, nil
}

func (s *ProjectService) DeleteProject(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid project ID format")
	}

	result, err := s.ProjectCollection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete project: %v", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("project not found")
	}
	return nil
}

// AddTask appends a task and joins its assignee to the member set in one
// atomic document update, so the assignee is present exactly once afterward.
// The task receives a stable id that later operations key on.
func (s *ProjectService) AddTask(ctx context.Context, projectID string, task models.Task) (*models.Task, error) {
	objectID, err := primitive.ObjectIDFromHex(projectID)
	if err != nil {
		return nil, fmt.Errorf("invalid project ID format")
	}

	status, err := models.NormalizeTaskStatus(task.Status)
	if err != nil {
		return nil, err
	}
	task.Status = status
	task.ID = uuid.New().String()

	// The assignee joins the member set, so it has to be a real user.
	if task.AssignedTo != "" {
		assigneeID, err := primitive.ObjectIDFromHex(task.AssignedTo)
		if err != nil {
			return nil, fmt.Errorf("invalid assignee ID format")
		}
		count, err := s.UserCollection.CountDocuments(ctx, bson.M{"_id": assigneeID})
		if err != nil {
			return nil, fmt.Errorf("failed to verify assignee: %v", err)
		}
		if count == 0 {
			return nil, fmt.Errorf("assigned user not found")
		}
	}

	update := bson.M{"$push": bson.M{"tasks": task}}
	if task.AssignedTo != "" {
		update["$addToSet"] = bson.M{"members": task.AssignedTo}
	}

	result, err := s.ProjectCollection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return nil, fmt.Errorf("failed to add task: %v", err)
	}
	if result.MatchedCount == 0 {
		return nil, fmt.Errorf("project not found")
	}

	return &task, nil
}

// UpdateTask replaces the task with the given id in place. Nothing else in
// the document is touched.
func (s *ProjectService) UpdateTask(ctx context.Context, projectID, taskID string, task models.Task) (*models.Task, error) {
	objectID, err := primitive.ObjectIDFromHex(projectID)
	if err != nil {
		return nil, fmt.Errorf("invalid project ID format")
	}

	status, err := models.NormalizeTaskStatus(task.Status)
	if err != nil {
		return nil, err
	}
	task.Status = status
	task.ID = taskID

	filter := bson.M{"_id": objectID, "tasks.id": taskID}
	update := bson.M{"$set": bson.M{"tasks.$": task}}

	result, err := s.ProjectCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %v", err)
	}
	if result.MatchedCount == 0 {
		if _, err := s.GetProjectByID(ctx, projectID); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("task not found")
	}

	return &task, nil
}

// DeleteTask removes the task with the given id.
func (s *ProjectService) DeleteTask(ctx context.Context, projectID, taskID string) error {
	objectID, err := primitive.ObjectIDFromHex(projectID)
	if err != nil {
		return fmt.Errorf("invalid project ID format")
	}

	filter := bson.M{"_id": objectID}
	update := bson.M{"$pull": bson.M{"tasks": bson.M{"id": taskID}}}

	result, err := s.ProjectCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to delete task: %v", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("project not found")
	}
	if result.ModifiedCount == 0 {
		return fmt.Errorf("task not found")
	}
	return nil
}

// AddComment appends a comment with a server-side timestamp. Comments are
// append-only.
func (s *ProjectService) AddComment(ctx context.Context, projectID string, comment models.Comment) (*models.Comment, error) {
	objectID, err := primitive.ObjectIDFromHex(projectID)
	if err != nil {
		return nil, fmt.Errorf("invalid project ID format")
	}

	comment.Timestamp = time.Now()

	result, err := s.ProjectCollection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$push": bson.M{"comments": comment}})
	if err != nil {
		return nil, fmt.Errorf("failed to add comment: %v", err)
	}
	if result.MatchedCount == 0 {
		return nil, fmt.Errorf("project not found")
	}

	return &comment, nil
}

// PatchProject shallow-merges the given fields into the project document,
// after stripping the reserved operation keys.
func (s *ProjectService) PatchProject(ctx context.Context, projectID string, fields map[string]interface{}) error {
	objectID, err := primitive.ObjectIDFromHex(projectID)
	if err != nil {
		return fmt.Errorf("invalid project ID format")
	}

	for _, key := range reservedProjectKeys {
		delete(fields, key)
	}
	if len(fields) == 0 {
		return fmt.Errorf("no fields to update")
	}

	result, err := s.ProjectCollection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": bson.M(fields)})
	if err != nil {
		return fmt.Errorf("failed to update project: %v", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("project not found")
	}
	return nil
}

// UpdateTaskAtIndex serves the legacy position-addressed task update. The
// index is checked against the current task list and rejected when out of
// range; the task at that position keeps its stable id.
func (s *ProjectService) UpdateTaskAtIndex(ctx context.Context, projectID string, index int, task models.Task) (*models.Task, error) {
	project, err := s.GetProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	status, err := models.NormalizeTaskStatus(task.Status)
	if err != nil {
		return nil, err
	}
	task.Status = status

	if index >= 0 && index < len(project.Tasks) {
		task.ID = project.Tasks[index].ID
	}
	tasks, err := models.ReplaceTaskAt(project.Tasks, index, task)
	if err != nil {
		return nil, err
	}

	// The task count seen at read time guards the whole-array write, so a
	// task appended in between is never clobbered.
	filter := bson.M{"_id": project.ID, "tasks": bson.M{"$size": len(project.Tasks)}}
	result, err := s.ProjectCollection.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"tasks": tasks}})
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %v", err)
	}
	if result.MatchedCount == 0 {
		return nil, fmt.Errorf("project was modified concurrently")
	}

	return &task, nil
}

// DeleteTaskAtIndex serves the legacy position-addressed task delete: the
// targeted element is filtered out and the rest shift down by one.
func (s *ProjectService) DeleteTaskAtIndex(ctx context.Context, projectID string, index int) error {
	project, err := s.GetProjectByID(ctx, projectID)
	if err != nil {
		return err
	}

	tasks, err := models.RemoveTaskAt(project.Tasks, index)
	if err != nil {
		return err
	}

	filter := bson.M{"_id": project.ID, "tasks": bson.M{"$size": len(project.Tasks)}}
	result, err := s.ProjectCollection.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"tasks": tasks}})
	if err != nil {
		return fmt.Errorf("failed to delete task: %v", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("project was modified concurrently")
	}
	return nil
}
