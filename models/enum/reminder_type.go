package enum

type ReminderType string

const (
	ReminderTypeDiscountPeriod ReminderType = "DISCOUNT_PERIOD"
	ReminderTypeFullCharge     ReminderType = "FULL_CHARGE"
)

type NotificationType string

const (
	NotificationTypeEmail NotificationType = "EMAIL"
	NotificationTypeSMS   NotificationType = "SMS"
	NotificationTypePush  NotificationType = "PUSH"
)

// NotificationTypes lists every channel a reminder is fanned out to.
var NotificationTypes = []NotificationType{
	NotificationTypeEmail,
	NotificationTypeSMS,
	NotificationTypePush,
}
