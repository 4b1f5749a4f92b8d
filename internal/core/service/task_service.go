package service

import (
	"sort"

	"github.com/evolution-of-todo/todo-system/internal/core/domain"
)

// TaskService is the single-tenant in-memory task list behind the console
// app. IDs come from a monotonic counter and are never handed out twice,
// even after the task holding them is deleted. It is not safe for
// concurrent use.
type TaskService struct {
	tasks  map[int]*domain.Task
	nextID int
}

func NewTaskService() *TaskService {
	return &TaskService{tasks: make(map[int]*domain.Task), nextID: 1}
}

// Add stores a new incomplete task with the trimmed content.
func (s *TaskService) Add(content string) (domain.Task, error) {
	normalized, err := domain.NormalizeText("Task content", content, domain.MaxTaskContent)
	if err != nil {
		return domain.Task{}, err
	}
	task := &domain.Task{ID: s.nextID, Content: normalized}
	s.tasks[task.ID] = task
	s.nextID++
	return *task, nil
}

// All returns every task in ascending ID order.
func (s *TaskService) All() []domain.Task {
	out := make([]domain.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Exists reports whether a task with id is stored.
func (s *TaskService) Exists(id int) bool {
	_, ok := s.tasks[id]
	return ok
}

func (s *TaskService) Get(id int) (domain.Task, error) {
	t, ok := s.tasks[id]
	if !ok {
		return domain.Task{}, domain.ErrTaskNotFound
	}
	return *t, nil
}

// Update replaces the content of a task.
func (s *TaskService) Update(id int, content string) (domain.Task, error) {
	t, ok := s.tasks[id]
	if !ok {
		return domain.Task{}, domain.ErrTaskNotFound
	}
	normalized, err := domain.NormalizeText("Task content", content, domain.MaxTaskContent)
	if err != nil {
		return domain.Task{}, err
	}
	t.Content = normalized
	return *t, nil
}

// Delete removes a task. The counter is left alone.
func (s *TaskService) Delete(id int) error {
	if _, ok := s.tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(s.tasks, id)
	return nil
}

func (s *TaskService) MarkComplete(id int) (domain.Task, error) {
	return s.setCompleted(id, true)
}

func (s *TaskService) MarkIncomplete(id int) (domain.Task, error) {
	return s.setCompleted(id, false)
}

func (s *TaskService) setCompleted(id int, completed bool) (domain.Task, error) {
	t, ok := s.tasks[id]
	if !ok {
		return domain.Task{}, domain.ErrTaskNotFound
	}
	t.Completed = completed
	return *t, nil
}
