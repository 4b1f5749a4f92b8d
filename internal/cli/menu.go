// Package cli implements the numbered console menu of the single-user todo
// app. Input is read line by line, so the menu can be driven by a terminal
// or by a script piped into stdin.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/evolution-of-todo/todo-system/internal/core/domain"
)

const (
	choiceAdd = iota + 1
	choiceView
	choiceUpdate
	choiceDelete
	choiceComplete
	choiceIncomplete
	choiceExit
)

const (
	rule         = "========================================"
	displayWidth = 30
)

// TaskStore is the task list the menu operates on.
type TaskStore interface {
	Add(content string) (domain.Task, error)
	All() []domain.Task
	Exists(id int) bool
	Get(id int) (domain.Task, error)
	Update(id int, content string) (domain.Task, error)
	Delete(id int) error
	MarkComplete(id int) (domain.Task, error)
	MarkIncomplete(id int) (domain.Task, error)
}

// errInputClosed ends the session when stdin reaches EOF mid-prompt.
var errInputClosed = errors.New("input closed")

type Menu struct {
	tasks       TaskStore
	in          *bufio.Reader
	out         io.Writer
	interactive bool
}

type Option func(*Menu)

// WithInteractive enables the "Press Enter to continue..." pause after
// listing tasks. It should only be set when stdin is a terminal.
func WithInteractive(on bool) Option {
	return func(m *Menu) { m.interactive = on }
}

func NewMenu(tasks TaskStore, in io.Reader, out io.Writer, opts ...Option) *Menu {
	m := &Menu{tasks: tasks, in: bufio.NewReader(in), out: out}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run shows the menu until the user exits or input ends.
func (m *Menu) Run() {
	for {
		m.displayMenu()
		choice, err := m.menuChoice()
		if err != nil || choice == choiceExit {
			m.println("Goodbye!")
			return
		}

		if err := m.dispatch(choice); err != nil {
			if errors.Is(err, errInputClosed) {
				m.println("Goodbye!")
				return
			}
			m.println(err.Error())
		}
	}
}

// dispatch runs one action. A panic inside it is reported and the loop goes on.
func (m *Menu) dispatch(choice int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			m.printf("An unexpected error occurred: %v\n", r)
			err = nil
		}
	}()

	switch choice {
	case choiceAdd:
		return m.addTask()
	case choiceView:
		m.displayTasks()
		if m.interactive {
			if _, err := m.prompt("Press Enter to continue..."); err != nil {
				return err
			}
		}
		return nil
	case choiceUpdate:
		return m.updateTask()
	case choiceDelete:
		return m.deleteTask()
	case choiceComplete:
		return m.markComplete()
	case choiceIncomplete:
		return m.markIncomplete()
	}
	return nil
}

// --- Display ---

func (m *Menu) displayMenu() {
	m.println()
	m.println(rule)
	m.println("         EVOLUTION OF TODO")
	m.println(rule)
	m.println()
	m.println("1. Add Task")
	m.println("2. View Tasks")
	m.println("3. Update Task")
	m.println("4. Delete Task")
	m.println("5. Mark Task Complete")
	m.println("6. Mark Task Incomplete")
	m.println("7. Exit")
	m.println()
	m.println(rule)
}

func (m *Menu) displayTasks() {
	tasks := m.tasks.All()
	m.println()
	m.println(rule)
	m.println("              TASK LIST")
	m.println(rule)
	m.println("ID | Status    | Content")
	m.println("---+-----------+--------------------------")

	complete := 0
	if len(tasks) == 0 {
		m.println("No tasks yet. Add your first task!")
	}
	for _, t := range tasks {
		status := "[ ]"
		if t.Completed {
			status = "[X]"
			complete++
		}
		m.printf("%-2d | %-9s | %s\n", t.ID, status, truncate(t.Content))
	}

	m.println(rule)
	if len(tasks) > 0 {
		m.printf("%d tasks total (%d complete, %d incomplete)\n", len(tasks), complete, len(tasks)-complete)
	}
	m.println()
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= displayWidth {
		return s
	}
	return string(r[:displayWidth-3]) + "..."
}

// --- Input ---

func (m *Menu) menuChoice() (int, error) {
	for {
		line, err := m.prompt("Enter your choice (1-7): ")
		if err != nil {
			return 0, err
		}
		n, convErr := strconv.Atoi(line)
		if convErr != nil {
			m.println("Error: Please enter a valid number.")
			continue
		}
		if n < choiceAdd || n > choiceExit {
			m.println("Invalid choice. Please enter a number 1-7.")
			continue
		}
		return n, nil
	}
}

func (m *Menu) taskContent(label string) (string, error) {
	for {
		line, err := m.prompt(label)
		if err != nil {
			return "", err
		}
		content, vErr := domain.NormalizeText("Task content", line, domain.MaxTaskContent)
		if vErr != nil {
			m.printf("Error: %s.\n", vErr)
			continue
		}
		return content, nil
	}
}

func (m *Menu) taskID(label string) (int, error) {
	for {
		line, err := m.prompt(label)
		if err != nil {
			return 0, err
		}
		id, convErr := strconv.Atoi(line)
		switch {
		case convErr != nil:
			m.println("Error: Please enter a valid number.")
		case id < 1:
			m.println("Error: Task ID must be a positive number.")
		case !m.tasks.Exists(id):
			m.printf("Error: Task with ID %d not found.\n", id)
		default:
			return id, nil
		}
	}
}

// prompt writes label and returns the next input line, trimmed. A final line
// without a newline is still returned; after it errInputClosed is reported.
func (m *Menu) prompt(label string) (string, error) {
	fmt.Fprint(m.out, label)
	line, err := m.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		m.println()
		return "", errInputClosed
	}
	return strings.TrimSpace(line), nil
}

// --- Actions ---

func (m *Menu) addTask() error {
	content, err := m.taskContent("Enter task content: ")
	if err != nil {
		return err
	}
	task, err := m.tasks.Add(content)
	if err != nil {
		return err
	}
	m.printf("Task added successfully! (ID: %d)\n", task.ID)
	return nil
}

func (m *Menu) updateTask() error {
	m.displayTasks()
	id, err := m.taskID("Enter task ID to update: ")
	if err != nil {
		return err
	}
	current, err := m.tasks.Get(id)
	if err != nil {
		return err
	}
	m.printf("Current content: %s\n", current.Content)
	content, err := m.taskContent("Enter new content: ")
	if err != nil {
		return err
	}
	if _, err := m.tasks.Update(id, content); err != nil {
		return err
	}
	m.println("Task updated successfully!")
	return nil
}

func (m *Menu) deleteTask() error {
	id, err := m.taskID("Enter task ID to delete: ")
	if err != nil {
		return err
	}
	if err := m.tasks.Delete(id); err != nil {
		return err
	}
	m.println("Task deleted successfully!")
	return nil
}

func (m *Menu) markComplete() error {
	id, err := m.taskID("Enter task ID to mark complete: ")
	if err != nil {
		return err
	}
	if _, err := m.tasks.MarkComplete(id); err != nil {
		return err
	}
	m.println("Task marked as complete!")
	return nil
}

func (m *Menu) markIncomplete() error {
	id, err := m.taskID("Enter task ID to mark incomplete: ")
	if err != nil {
		return err
	}
	if _, err := m.tasks.MarkIncomplete(id); err != nil {
		return err
	}
	m.println("Task marked as incomplete!")
	return nil
}

func (m *Menu) println(a ...any) {
	fmt.Fprintln(m.out, a...)
}

func (m *Menu) printf(format string, a ...any) {
	fmt.Fprintf(m.out, format, a...)
}
