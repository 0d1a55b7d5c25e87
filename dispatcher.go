package ticketpal

import (
	"sync"

	"go.uber.org/zap"
)

type Dispatcher struct {
	WorkerPool chan chan WorkRequest
	maxWorkers int
	jobQueue   chan WorkRequest
	app        *App
	workers    []Worker
	stop       chan bool
	stopped    chan struct{}
	once       sync.Once
}

func NewDispatcher(maxWorkers int, jobQueueSize int, app *App) *Dispatcher {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	if jobQueueSize < 0 {
		jobQueueSize = 0
	}
	pool := make(chan chan WorkRequest, maxWorkers)
	return &Dispatcher{
		WorkerPool: pool,
		maxWorkers: maxWorkers,
		jobQueue:   make(chan WorkRequest, jobQueueSize),
		app:        app,
		stop:       make(chan bool),
		stopped:    make(chan struct{}),
	}
}

func (d *Dispatcher) Run() {
	for i := 0; i < d.maxWorkers; i++ {
		worker := NewWorker(i+1, d.WorkerPool, d.app)
		worker.Start()
		d.workers = append(d.workers, worker)
	}

	go d.dispatch()
}

// Submit queues job, blocking while the queue is full. It returns the context
// error if job.Ctx ends first.
func (d *Dispatcher) Submit(job WorkRequest) error {
	select {
	case d.jobQueue <- job:
		return nil
	case <-job.Ctx.Done():
		return job.Ctx.Err()
	}
}

func (d *Dispatcher) dispatch() {
	defer close(d.stopped)
	var wg sync.WaitGroup

	for {
		select {
		case job := <-d.jobQueue:
			wg.Add(1)
			go func(job WorkRequest) {
				defer wg.Done()
				select {
				case jobChannel := <-d.WorkerPool:
					select {
					case jobChannel <- job:
					case <-job.Ctx.Done():
						d.WorkerPool <- jobChannel
						d.drop(job, "Job context canceled before processing")
					}
				case <-job.Ctx.Done():
					d.drop(job, "Job context canceled while waiting for available worker")
				}
			}(job)

		case <-d.stop:
			wg.Wait()
			return
		}
	}
}

func (d *Dispatcher) drop(job WorkRequest, msg string) {
	d.app.logger.Warn(msg,
		zap.Error(job.Ctx.Err()),
		zap.String("reminder_id", job.Reminder.ID))
	job.finish()
}

// Stop waits for dispatched jobs to reach a worker, then stops every worker
// once its current job is done.
func (d *Dispatcher) Stop() {
	d.once.Do(func() {
		close(d.stop)
		<-d.stopped

		for _, worker := range d.workers {
			worker.Stop()
		}
		d.app.logger.Info("Reminder dispatcher stopped", zap.Int("workers", len(d.workers)))
	})
}
