package taskmgr

import (
	"errors"
	"sync"
)

// HandlerFunc runs one task.
type HandlerFunc[T any] func(task T) error

// TaskManager runs a fixed set of tasks with bounded concurrency. The
// first handler error latches a stop: tasks that have not started yet
// are skipped, so a failed run does no avoidable work.
type TaskManager[T any] struct {
	handler HandlerFunc[T]
	workers int

	mutex   sync.Mutex
	tasks   []T
	errs    []error
	stopped bool
}

func NewTaskManager[T any](workers int, handler HandlerFunc[T]) *TaskManager[T] {
	if workers < 1 {
		workers = 1
	}
	return &TaskManager[T]{
		handler: handler,
		workers: workers,
	}
}

func (t *TaskManager[T]) AddTask(task T) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.tasks = append(t.tasks, task)
}

func (t *TaskManager[T]) sendError(err error) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.errs = append(t.errs, err)
	t.stopped = true
}

func (t *TaskManager[T]) hasStopped() bool {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.stopped
}

// Run executes the tasks and blocks until every started task has
// finished. It returns the gathered errors.
func (t *TaskManager[T]) Run() error {
	queue := make(chan T)
	var wg sync.WaitGroup
	for i := 0; i < t.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range queue {
				if t.hasStopped() {
					continue
				}
				if err := t.handler(task); err != nil {
					t.sendError(err)
				}
			}
		}()
	}
	t.mutex.Lock()
	tasks := t.tasks
	t.mutex.Unlock()
	for _, task := range tasks {
		queue <- task
	}
	close(queue)
	wg.Wait()

	t.mutex.Lock()
	defer t.mutex.Unlock()
	return errors.Join(t.errs...)
}
