package enum

type EventSource string

const (
	EventSourceStripe     EventSource = "STRIPE"
	EventSourceRevenueCat EventSource = "REVENUECAT"
)
