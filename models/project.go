package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ProjectStatusStarted    = "Iniciado"
	ProjectStatusInProgress = "En progreso"
	ProjectStatusCompleted  = "Completado"
)

const (
	TaskStatusPending    = "Pendiente"
	TaskStatusInProgress = "En progreso"
	TaskStatusCompleted  = "Completado"
)

type Task struct {
	ID          string `bson:"id" json:"id"`
	Name        string `bson:"name" json:"name"`
	Description string `bson:"description" json:"description"`
	AssignedTo  string `bson:"assignedTo" json:"assignedTo"`
	Status      string `bson:"status" json:"status"`
}

type Comment struct {
	UserID    string    `bson:"userId" json:"userId"`
	UserName  string    `bson:"userName" json:"userName"`
	Message   string    `bson:"message" json:"message"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

type Project struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Status      string             `bson:"status" json:"status"`
	ManagerID   string             `bson:"managerId" json:"managerId"`
	Members     []string           `bson:"members" json:"members"`
	Tasks       []Task             `bson:"tasks" json:"tasks"`
	Comments    []Comment          `bson:"comments" json:"comments"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

// NormalizeTaskStatus maps an inbound task status onto the canonical set.
// The legacy client sends both "Completa" and "Completado" for finished tasks.
func NormalizeTaskStatus(status string) (string, error) {
	switch status {
	case "":
		return TaskStatusPending, nil
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return status, nil
	case "Completa":
		return TaskStatusCompleted, nil
	}
	return "", fmt.Errorf("invalid task status: %s", status)
}

// ReplaceTaskAt returns a copy of tasks with the element at index replaced.
// The index must address an existing element.
func ReplaceTaskAt(tasks []Task, index int, task Task) ([]Task, error) {
	if index < 0 || index >= len(tasks) {
		return nil, fmt.Errorf("task index out of range")
	}
	out := make([]Task, len(tasks))
	copy(out, tasks)
	out[index] = task
	return out, nil
}

// RemoveTaskAt returns a copy of tasks with the element at index filtered
// out; the elements after it shift down by one.
func RemoveTaskAt(tasks []Task, index int) ([]Task, error) {
	if index < 0 || index >= len(tasks) {
		return nil, fmt.Errorf("task index out of range")
	}
	out := make([]Task, 0, len(tasks)-1)
	out = append(out, tasks[:index]...)
	out = append(out, tasks[index+1:]...)
	return out, nil
}
