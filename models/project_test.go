package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTasks() []Task {
	return []Task{
		{ID: "t0", Name: "Design schema", Status: TaskStatusPending},
		{ID: "t1", Name: "Build API", Status: TaskStatusInProgress},
		{ID: "t2", Name: "Write docs", Status: TaskStatusPending},
	}
}

func TestNormalizeTaskStatus(t *testing.T) {
	cases := []struct {
		in   string
		out  string
		fail bool
	}{
		{"", TaskStatusPending, false},
		{"Pendiente", TaskStatusPending, false},
		{"En progreso", TaskStatusInProgress, false},
		{"Completado", TaskStatusCompleted, false},
		{"Completa", TaskStatusCompleted, false},
		{"Done", "", true},
		{"pendiente", "", true},
	}

	for _, tc := range cases {
		got, err := NormalizeTaskStatus(tc.in)
		if tc.fail {
			require.Error(t, err, tc.in)
			assert.True(t, strings.HasPrefix(err.Error(), "invalid task status"))
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.out, got, tc.in)
	}
}

func TestReplaceTaskAtTouchesOnlyTargetPosition(t *testing.T) {
	tasks := sampleTasks()
	replacement := Task{ID: "t1", Name: "Build API v2", Status: TaskStatusCompleted}

	out, err := ReplaceTaskAt(tasks, 1, replacement)
	require.NoError(t, err)

	require.Len(t, out, 3)
	assert.Equal(t, tasks[0], out[0])
	assert.Equal(t, replacement, out[1])
	assert.Equal(t, tasks[2], out[2])

	// The input slice is left untouched.
	assert.Equal(t, "Build API", tasks[1].Name)
}

func TestReplaceTaskAtOutOfRange(t *testing.T) {
	tasks := sampleTasks()
	for _, index := range []int{-1, 3, 100} {
		_, err := ReplaceTaskAt(tasks, index, Task{})
		require.Error(t, err, index)
		assert.Equal(t, "task index out of range", err.Error())
	}
	assert.Len(t, tasks, 3)
}

func TestRemoveTaskAtShiftsFollowingTasks(t *testing.T) {
	tasks := sampleTasks()

	out, err := RemoveTaskAt(tasks, 1)
	require.NoError(t, err)

	require.Len(t, out, 2)
	assert.Equal(t, "t0", out[0].ID)
	assert.Equal(t, "t2", out[1].ID)

	assert.Len(t, tasks, 3)
}

func TestRemoveTaskAtBounds(t *testing.T) {
	tasks := sampleTasks()

	out, err := RemoveTaskAt(tasks, 0)
	require.NoError(t, err)
	assert.Equal(t, []Task{tasks[1], tasks[2]}, out)

	out, err = RemoveTaskAt(tasks, 2)
	require.NoError(t, err)
	assert.Equal(t, []Task{tasks[0], tasks[1]}, out)

	// Deleting index 5 from a 3-task list is rejected, list unchanged.
	_, err = RemoveTaskAt(tasks, 5)
	require.Error(t, err)
	assert.Equal(t, "task index out of range", err.Error())
	assert.Len(t, tasks, 3)
}
