package workerpool

// Task is a unit of work for the pool. Fn must be safe to run concurrently;
// ResultC, when set, receives the outcome.
type Task struct {
	Fn      func() (any, error)
	ResultC chan Result
}

type Result struct {
	Value any
	Err   error
}

type WorkerPool struct {
	tasks chan Task
}

// NewWorkerPool starts workerCount workers over a queue of queueSize.
func NewWorkerPool(workerCount int, queueSize int) *WorkerPool {
	wp := &WorkerPool{
		tasks: make(chan Task, queueSize),
	}
	for i := 0; i < workerCount; i++ {
		go wp.worker()
	}
	return wp
}

func (wp *WorkerPool) worker() {
	for task := range wp.tasks {
		res, err := task.Fn()
		if task.ResultC != nil {
			task.ResultC <- Result{Value: res, Err: err}
		}
	}
}

// Submit queues a task; pass a channel in the task to get the result back.
// Submit must not be called after Close.
func (wp *WorkerPool) Submit(task Task) {
	wp.tasks <- task
}

// Close lets the workers drain the queue and exit.
func (wp *WorkerPool) Close() {
	close(wp.tasks)
}
