package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evolution-of-todo/todo-system/internal/core/domain"
	"github.com/evolution-of-todo/todo-system/internal/core/service"
)

func run(t *testing.T, store TaskStore, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	NewMenu(store, strings.NewReader(strings.Join(lines, "\n")+"\n"), &out).Run()
	return out.String()
}

func TestMenu_AddViewExit(t *testing.T) {
	store := service.NewTaskService()
	out := run(t, store, "1", "Buy milk", "2", "7")

	assert.Contains(t, out, "Task added successfully! (ID: 1)")
	assert.Contains(t, out, "1  | [ ]       | Buy milk")
	assert.Contains(t, out, "1 tasks total (0 complete, 1 incomplete)")
	assert.NotContains(t, out, "Press Enter to continue...")
	assert.True(t, strings.HasSuffix(out, "Goodbye!\n"))
	require.Len(t, store.All(), 1)
}

func TestMenu_EmptyList(t *testing.T) {
	out := run(t, service.NewTaskService(), "2", "7")
	assert.Contains(t, out, "No tasks yet. Add your first task!")
	assert.NotContains(t, out, "tasks total")
}

func TestMenu_InvalidChoices(t *testing.T) {
	out := run(t, service.NewTaskService(), "abc", "0", "8", "7")
	assert.Equal(t, 1, strings.Count(out, "Error: Please enter a valid number."))
	assert.Equal(t, 2, strings.Count(out, "Invalid choice. Please enter a number 1-7."))
}

func TestMenu_ContentIsReasked(t *testing.T) {
	store := service.NewTaskService()
	out := run(t, store, "1", "", "   ", strings.Repeat("x", 1001), "  ok  ", "7")

	assert.Equal(t, 2, strings.Count(out, "Error: Task content cannot be empty."))
	assert.Contains(t, out, "Error: Task content must be 1000 characters or fewer.")
	tasks := store.All()
	require.Len(t, tasks, 1)
	assert.Equal(t, "ok", tasks[0].Content)
}

func TestMenu_IDIsReasked(t *testing.T) {
	store := service.NewTaskService()
	_, err := store.Add("first")
	require.NoError(t, err)

	out := run(t, store, "5", "x", "-1", "9", "1", "7")

	assert.Contains(t, out, "Error: Please enter a valid number.")
	assert.Contains(t, out, "Error: Task ID must be a positive number.")
	assert.Contains(t, out, "Error: Task with ID 9 not found.")
	assert.Contains(t, out, "Task marked as complete!")
	task, _ := store.Get(1)
	assert.True(t, task.Completed)
}

func TestMenu_UpdateDeleteIncomplete(t *testing.T) {
	store := service.NewTaskService()
	out := run(t, store,
		"1", "one",
		"1", "two",
		"3", "1", "uno",
		"5", "2",
		"6", "2",
		"4", "1",
		"1", "three",
		"7",
	)

	assert.Contains(t, out, "Current content: one")
	assert.Contains(t, out, "Task updated successfully!")
	assert.Contains(t, out, "Task marked as incomplete!")
	assert.Contains(t, out, "Task deleted successfully!")
	assert.Contains(t, out, "Task added successfully! (ID: 3)")

	tasks := store.All()
	require.Len(t, tasks, 2)
	assert.Equal(t, 2, tasks[0].ID)
	assert.False(t, tasks[0].Completed)
	assert.Equal(t, 3, tasks[1].ID)
}

func TestMenu_TruncatesLongContent(t *testing.T) {
	store := service.NewTaskService()
	_, err := store.Add(strings.Repeat("a", 40))
	require.NoError(t, err)

	out := run(t, store, "2", "7")
	assert.Contains(t, out, strings.Repeat("a", 27)+"...")
	assert.NotContains(t, out, strings.Repeat("a", 28))
}

func TestMenu_EOFSaysGoodbye(t *testing.T) {
	var out bytes.Buffer
	NewMenu(service.NewTaskService(), strings.NewReader("1\n"), &out).Run()
	assert.True(t, strings.HasSuffix(out.String(), "Goodbye!\n"))
	assert.Equal(t, 1, strings.Count(out.String(), "Goodbye!"))
}

func TestMenu_LastLineWithoutNewline(t *testing.T) {
	var out bytes.Buffer
	store := service.NewTaskService()
	NewMenu(store, strings.NewReader("1\nlast"), &out).Run()
	assert.Len(t, store.All(), 1)
	assert.Contains(t, out.String(), "Goodbye!")
}

func TestMenu_InteractivePause(t *testing.T) {
	var out bytes.Buffer
	NewMenu(service.NewTaskService(), strings.NewReader("2\n\n7\n"), &out, WithInteractive(true)).Run()
	assert.Contains(t, out.String(), "Press Enter to continue...")
	assert.True(t, strings.HasSuffix(out.String(), "Goodbye!\n"))
}

type panickyStore struct {
	*service.TaskService
}

func (panickyStore) All() []domain.Task { panic("boom") }

func TestMenu_RecoversFromPanics(t *testing.T) {
	out := run(t, panickyStore{service.NewTaskService()}, "2", "7")
	assert.Contains(t, out, "An unexpected error occurred: boom")
	assert.True(t, strings.HasSuffix(out, "Goodbye!\n"))
}
