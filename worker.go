package ticketpal

import (
	"context"

	"go.uber.org/zap"

	"goflare.io/ticketpal/models"
)

type Worker struct {
	ID         int
	WorkerPool chan chan WorkRequest
	JobChannel chan WorkRequest
	quit       chan bool
	app        *App
}

type WorkRequest struct {
	Reminder *models.Reminder
	Ctx      context.Context
	done     func()
}

func (r WorkRequest) finish() {
	if r.done != nil {
		r.done()
	}
}

func NewWorker(id int, workerPool chan chan WorkRequest, app *App) Worker {
	return Worker{
		ID:         id,
		WorkerPool: workerPool,
		JobChannel: make(chan WorkRequest),
		quit:       make(chan bool),
		app:        app,
	}
}

func (w Worker) Start() {
	go func() {
		for {
			w.WorkerPool <- w.JobChannel

			select {
			case job := <-w.JobChannel:
				w.app.logger.Debug("Delivering reminder",
					zap.Int("worker_id", w.ID),
					zap.String("reminder_id", job.Reminder.ID))

				if err := w.app.deliverReminder(job.Ctx, job.Reminder); err != nil {
					w.app.metrics.RemindersFailed.Inc()
					w.app.logger.Error("Failed to deliver reminder",
						zap.Error(err),
						zap.String("reminder_id", job.Reminder.ID),
						zap.String("ticket_id", job.Reminder.TicketID))
				}
				job.finish()

			case <-w.quit:
				return
			}
		}
	}()
}

func (w Worker) Stop() {
	close(w.quit)
}
