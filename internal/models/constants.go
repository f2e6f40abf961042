package models

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
	StatusActive    = "active"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// DateLayout is the wire format for booking dates. Bookings are calendar
// dates with no time component.
const DateLayout = "2006-01-02"

const (
	// IdentityCacheTTL default lifetime of cached token verifications.
	IdentityCacheTTL = 5 * 60 // seconds

	// NotifyQueueSize bounds the notification worker queue.
	NotifyQueueSize = 256
)

// CancellableStatuses are the states a booking may be cancelled from.
var CancellableStatuses = map[string]bool{
	StatusPending:   true,
	StatusConfirmed: true,
}
