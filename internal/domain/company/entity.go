package company

import "time"

// SubscriptionStatus mirrors the external billing provider's status enum.
type SubscriptionStatus string

const (
	StatusActive   SubscriptionStatus = "active"
	StatusTrialing SubscriptionStatus = "trialing"
	StatusPastDue  SubscriptionStatus = "past_due"
	StatusCanceled SubscriptionStatus = "canceled"
	StatusNone     SubscriptionStatus = "none"
)

// Company is the tenant boundary. Every tenant-owned row carries its id.
type Company struct {
	ID                    string
	Name                  string
	PurchasedManagerSeats int
	PurchasedTechSeats    int
	// UsedLicenses is a cached display counter recomputed after every
	// membership change. The authoritative count is always a live query over
	// users; admission decisions never read this field.
	UsedLicenses          int
	BillingSubscriptionID *string
	SubscriptionStatus    SubscriptionStatus
	BillingContactID      *string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// SeatsHonorable reports whether the stored purchased-seat numbers are
// currently backed by the subscription. A lapsed subscription has its seats
// zeroed by the reconciliation job; this only guards direct reads in between.
func (c *Company) SeatsHonorable() bool {
	switch c.SubscriptionStatus {
	case StatusActive, StatusTrialing, StatusPastDue:
		return true
	default:
		return false
	}
}
