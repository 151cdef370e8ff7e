package todo

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithLogger sets the logger used to report persistence failures.
func WithLogger(logger *log.Logger) ControllerOption {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock overrides the time source used for ids and creation times.
func WithClock(now func() time.Time) ControllerOption {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// Controller holds the task list and derived view state.
type Controller struct {
	gw     Gateway
	logger *log.Logger
	now    func() time.Time

	tasks  []Task
	filter Filter
	lastID int64
	loaded bool

	editingID int64
	editing   bool
	editText  string
}

// NewController creates a controller backed by gw. The list starts empty
// until Load is called.
func NewController(gw Gateway, opts ...ControllerOption) *Controller {
	c := &Controller{
		gw:     gw,
		logger: log.New(io.Discard),
		now:    time.Now,
		filter: FilterAll,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load reads the full task list from the gateway. On failure the current
// list is kept.
func (c *Controller) Load(ctx context.Context) error {
	defer func() { c.loaded = true }()

	tasks, err := c.gw.All(ctx)
	if err != nil {
		c.logger.Error("Failed to load todos", "err", err)
		return err
	}
	c.tasks = tasks
	for _, t := range tasks {
		if t.ID > c.lastID {
			c.lastID = t.ID
		}
	}
	return nil
}

// Loaded reports whether Load has completed, successfully or not.
func (c *Controller) Loaded() bool {
	return c.loaded
}

// Add creates a task from text and prepends it to the list.
func (c *Controller) Add(ctx context.Context, text string) (Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Task{}, ErrEmptyText
	}

	// The store keeps millisecond precision.
	now := c.now().Truncate(time.Millisecond)
	task := Task{
		ID:        c.nextID(now),
		Text:      text,
		Completed: false,
		CreatedAt: now,
	}

	if err := c.gw.Add(ctx, task); err != nil {
		c.logger.Error("Failed to add todo", "err", err)
		return Task{}, err
	}

	c.lastID = task.ID
	c.tasks = append([]Task{task}, c.tasks...)
	return task, nil
}

func (c *Controller) nextID(now time.Time) int64 {
	id := now.UnixMilli()
	if id <= c.lastID {
		id = c.lastID + 1
	}
	return id
}

// Toggle flips the completed flag of the task with the given id.
func (c *Controller) Toggle(ctx context.Context, id int64) error {
	i := c.index(id)
	if i < 0 {
		return ErrNotFound
	}

	updated := c.tasks[i]
	updated.Completed = !updated.Completed
	if err := c.gw.Update(ctx, updated); err != nil {
		c.logger.Error("Failed to toggle todo", "id", id, "err", err)
		return err
	}

	c.replace(updated)
	return nil
}

// Delete removes the task with the given id.
func (c *Controller) Delete(ctx context.Context, id int64) error {
	if err := c.gw.Delete(ctx, id); err != nil {
		c.logger.Error("Failed to delete todo", "id", id, "err", err)
		return err
	}

	kept := c.tasks[:0:0]
	for _, t := range c.tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	c.tasks = kept
	return nil
}

// StartEdit enters edit mode for task.
func (c *Controller) StartEdit(task Task) {
	c.editingID = task.ID
	c.editing = true
	c.editText = task.Text
}

// SetEditText replaces the pending edit text.
func (c *Controller) SetEditText(text string) {
	c.editText = text
}

// Editing returns the id and text of the task being edited.
func (c *Controller) Editing() (id int64, text string, ok bool) {
	return c.editingID, c.editText, c.editing
}

// SaveEdit writes the pending edit text to the task with the given id.
// Blank text deletes the task. Edit mode is left in every case.
func (c *Controller) SaveEdit(ctx context.Context, id int64) error {
	defer c.CancelEdit()

	text := strings.TrimSpace(c.editText)
	if text == "" {
		return c.Delete(ctx, id)
	}

	i := c.index(id)
	if i < 0 {
		return ErrNotFound
	}

	updated := c.tasks[i]
	updated.Text = text
	if err := c.gw.Update(ctx, updated); err != nil {
		c.logger.Error("Failed to save edit", "id", id, "err", err)
		return err
	}

	c.replace(updated)
	return nil
}

// CancelEdit leaves edit mode without touching any task.
func (c *Controller) CancelEdit() {
	c.editingID = 0
	c.editing = false
	c.editText = ""
}

// SetFilter sets the view filter.
func (c *Controller) SetFilter(f Filter) {
	c.filter = f
}

// Filter returns the current view filter.
func (c *Controller) Filter() Filter {
	return c.filter
}

// ClearCompleted removes every completed task in one batch.
func (c *Controller) ClearCompleted(ctx context.Context) error {
	var ids []int64
	for _, t := range c.tasks {
		if t.Completed {
			ids = append(ids, t.ID)
		}
	}

	if err := c.gw.DeleteBatch(ctx, ids); err != nil {
		c.logger.Error("Failed to clear completed", "count", len(ids), "err", err)
		return err
	}

	c.tasks = c.filtered(FilterActive)
	return nil
}

// Tasks returns a copy of the full list, newest first.
func (c *Controller) Tasks() []Task {
	out := make([]Task, len(c.tasks))
	copy(out, c.tasks)
	return out
}

// Filtered returns the tasks visible under the current filter.
func (c *Controller) Filtered() []Task {
	return c.filtered(c.filter)
}

func (c *Controller) filtered(f Filter) []Task {
	out := make([]Task, 0, len(c.tasks))
	for _, t := range c.tasks {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

// ActiveCount returns the number of tasks not yet completed.
func (c *Controller) ActiveCount() int {
	return c.count(FilterActive)
}

// CompletedCount returns the number of completed tasks.
func (c *Controller) CompletedCount() int {
	return c.count(FilterCompleted)
}

func (c *Controller) count(f Filter) int {
	n := 0
	for _, t := range c.tasks {
		if f.Match(t) {
			n++
		}
	}
	return n
}

// Find returns the task with the given id.
func (c *Controller) Find(id int64) (Task, bool) {
	i := c.index(id)
	if i < 0 {
		return Task{}, false
	}
	return c.tasks[i], true
}

func (c *Controller) index(id int64) int {
	for i := range c.tasks {
		if c.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// replace swaps in a new copy of the slice so earlier Tasks results stay
// untouched.
func (c *Controller) replace(task Task) {
	next := make([]Task, len(c.tasks))
	for i, t := range c.tasks {
		if t.ID == task.ID {
			next[i] = task
			continue
		}
		next[i] = t
	}
	c.tasks = next
}
