package tasks

import "github.com/hibiken/asynq"

// TaskEnqueuer is the enqueue side of the task queue. Implemented by
// asynq.Client, mocked in tests.
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}
