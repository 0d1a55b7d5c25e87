package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ticketpal"

// Metrics holds the service counters on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	TicketsCreated     prometheus.Counter
	RemindersScheduled prometheus.Counter
	RemindersPublished *prometheus.CounterVec
	RemindersFailed    prometheus.Counter
	WebhooksReceived   *prometheus.CounterVec
	ChallengesUpdated  *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		TicketsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tickets_created_total",
			Help:      "Tickets created.",
		}),
		RemindersScheduled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_scheduled_total",
			Help:      "Reminder rows created at ticket creation.",
		}),
		RemindersPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_published_total",
			Help:      "Due reminders handed to delivery, by notification type.",
		}, []string{"notification_type"}),
		RemindersFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_failed_total",
			Help:      "Due reminders that could not be published or marked sent.",
		}),
		WebhooksReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhooks_received_total",
			Help:      "Inbound webhooks, by source and outcome.",
		}, []string{"source", "outcome"}),
		ChallengesUpdated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "challenges_updated_total",
			Help:      "Worker status updates applied, by resulting status.",
		}, []string{"status"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.TicketsCreated,
		m.RemindersScheduled,
		m.RemindersPublished,
		m.RemindersFailed,
		m.WebhooksReceived,
		m.ChallengesUpdated,
	)

	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
