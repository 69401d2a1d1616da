package timeline

import "context"

// Task tracks the background title request started by Submit.
type Task struct {
	GroupID int

	done  chan struct{}
	title string
}

func newTask(groupID int) *Task {
	return &Task{GroupID: groupID, done: make(chan struct{})}
}

// Done is closed once the title has been applied (or discarded).
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task is done or ctx ends.
func (t *Task) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Title is the resolved title. Only valid after Done.
func (t *Task) Title() string {
	return t.title
}

func (t *Task) finish(title string) {
	t.title = title
	close(t.done)
}
