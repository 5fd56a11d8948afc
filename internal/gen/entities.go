package gen

import "time"

// Plan is an account's pricing tier. Each tier carries a fixed monthly
// recurring revenue and a seat capacity range.
type Plan string

const (
	PlanStarter    Plan = "Starter"
	PlanGrowth     Plan = "Growth"
	PlanEnterprise Plan = "Enterprise"
)

// MRR returns the fixed monthly recurring revenue for the plan.
func (p Plan) MRR() int {
	switch p {
	case PlanStarter:
		return 400
	case PlanGrowth:
		return 1500
	case PlanEnterprise:
		return 4500
	}
	return 0
}

// SeatRange returns the inclusive bounds for the number of seats an account
// on this plan may hold.
func (p Plan) SeatRange() (lo, hi int) {
	switch p {
	case PlanStarter:
		return 5, 15
	case PlanGrowth:
		return 15, 40
	case PlanEnterprise:
		return 40, 80
	}
	return 1, 1
}

// Status is a subscription period's billing status.
type Status string

const (
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
)

// PaymentStatus is an invoice's settlement state.
type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "paid"
	PaymentOverdue PaymentStatus = "overdue"
)

// Account is a paying customer. Immutable once created.
type Account struct {
	ID         int
	Name       string
	Industry   string
	Plan       Plan
	ACV        int
	SignupDate time.Time
	Region     string
}

// User is a seat belonging to an account.
type User struct {
	ID         int
	AccountID  int
	Role       string
	IsAdmin    bool
	LastActive time.Time
}

// Subscription is one fixed-length billing period for an account.
type Subscription struct {
	ID          int
	AccountID   int
	PeriodStart time.Time
	PeriodEnd   time.Time
	Status      Status
	MRR         int
}

// Invoice bills one subscription period.
type Invoice struct {
	ID             int
	SubscriptionID int
	IssuedDate     time.Time
	Amount         int
	Currency       string
	PaymentStatus  PaymentStatus
}

// FeatureEvent records feature usage by a user on a given day.
type FeatureEvent struct {
	ID        int
	UserID    int
	Feature   string
	UsageDate time.Time
	Count     int
}
