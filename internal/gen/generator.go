// Package gen produces the synthetic SaaS dataset: accounts, their users,
// subscription history, invoices, and feature usage events. Every foreign
// key resolves to an entity generated earlier in the same run, and output is
// deterministic for a fixed seed and reference time.
package gen

import (
	"fmt"
	"time"
)

// Vocabulary for the categorical fields.
var (
	Regions    = []string{"NA", "EMEA", "APAC", "LATAM"}
	Industries = []string{"Fintech", "Healthcare", "Retail", "Manufacturing", "Media"}
	Roles      = []string{"admin", "manager", "analyst", "engineer"}
	Features   = []string{"dashboards", "automation", "reporting", "api", "collaboration"}
)

var (
	planCatalog = []Plan{PlanStarter, PlanGrowth, PlanEnterprise}
	planWeights = []float64{0.4, 0.4, 0.2}
)

const (
	// cancelProbability is the per-period chance that a still-active account
	// churns; overdueProbability applies to invoices of cancelled periods.
	cancelProbability  = 0.08
	overdueProbability = 0.30

	signupLookbackDays = 900
	activeLookbackDays = 60
	usageLookbackDays  = 90

	periodLengthDays = 29
	acvJitter        = 500

	eventsPerUserMin = 3
	eventsPerUserMax = 12
	eventCountMin    = 1
	eventCountMax    = 25

	// Currency is the fixed invoice currency code.
	Currency = "USD"
)

// Config controls one generation run.
type Config struct {
	// Accounts is the number of accounts to generate. Zero is valid and
	// yields empty downstream collections.
	Accounts int

	// Months is the number of fixed-length billing periods per account.
	Months int

	// Seed makes the run reproducible.
	Seed uint64

	// Now anchors all generated dates. Zero means time.Now(). Injected in
	// tests so a seed reproduces byte-identical fixtures.
	Now time.Time
}

// Generator builds the five entity collections for one run.
type Generator struct {
	cfg Config
	src *Source
	now time.Time
}

// New creates a Generator. The reference time is truncated to a UTC date so
// every generated date is day-granular.
func New(cfg Config) *Generator {
	now := cfg.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return &Generator{cfg: cfg, src: NewSource(cfg.Seed), now: now}
}

// Dataset holds one complete generation run, parents before children.
type Dataset struct {
	Accounts      []Account
	Users         []User
	Subscriptions []Subscription
	Invoices      []Invoice
	FeatureEvents []FeatureEvent
}

// Generate runs the five builders in dependency order.
func (g *Generator) Generate() *Dataset {
	accounts := g.Accounts()
	users := g.Users(accounts)
	subscriptions := g.Subscriptions(accounts)
	return &Dataset{
		Accounts:      accounts,
		Users:         users,
		Subscriptions: subscriptions,
		Invoices:      g.Invoices(subscriptions),
		FeatureEvents: g.FeatureEvents(users),
	}
}

// Accounts generates the configured number of accounts with IDs from 1.
func (g *Generator) Accounts() []Account {
	accounts := make([]Account, 0, g.cfg.Accounts)
	for id := 1; id <= g.cfg.Accounts; id++ {
		plan := planCatalog[g.src.WeightedIndex(planWeights)]
		accounts = append(accounts, Account{
			ID:         id,
			Name:       fmt.Sprintf("Account %03d", id),
			Industry:   g.src.Pick(Industries),
			Plan:       plan,
			ACV:        plan.MRR()*12 + g.src.IntBetween(-acvJitter, acvJitter),
			SignupDate: g.src.DateWithin(g.now, signupLookbackDays),
			Region:     g.src.Pick(Regions),
		})
	}
	return accounts
}

// Users generates one user per seat for each account. Every account gets at
// least one admin: max(1, seats/10) seat indexes are sampled without
// replacement and flagged.
func (g *Generator) Users(accounts []Account) []User {
	var users []User
	nextID := 1
	for _, acct := range accounts {
		lo, hi := acct.Plan.SeatRange()
		seats := g.src.IntBetween(lo, hi)
		admins := g.src.SampleIndexes(seats, max(1, seats/10))
		for idx := 0; idx < seats; idx++ {
			users = append(users, User{
				ID:         nextID,
				AccountID:  acct.ID,
				Role:       g.src.Pick(Roles),
				IsAdmin:    admins[idx],
				LastActive: g.src.DateWithin(g.now, activeLookbackDays),
			})
			nextID++
		}
	}
	return users
}

// churn is the per-account subscription lifecycle: a one-way state machine
// that starts active and, once cancelled, never reports active again.
type churn struct {
	cancelled bool
}

// advance moves the lifecycle one period forward. The cancel roll only has
// effect while the account is still active; cancelled is terminal.
func (c *churn) advance(cancel bool) Status {
	if c.cancelled {
		return StatusCancelled
	}
	if cancel {
		c.cancelled = true
		return StatusCancelled
	}
	return StatusActive
}

// Subscriptions generates Months fixed-length periods per account, walking
// oldest to newest. Period starts are anchored to the first of the reference
// month, stepping back 30 days per offset.
func (g *Generator) Subscriptions(accounts []Account) []Subscription {
	var subscriptions []Subscription
	nextID := 1
	monthStart := time.Date(g.now.Year(), g.now.Month(), 1, 0, 0, 0, 0, time.UTC)
	for _, acct := range accounts {
		mrr := acct.Plan.MRR()
		var state churn
		for offset := g.cfg.Months; offset >= 1; offset-- {
			start := monthStart.AddDate(0, 0, -30*offset)
			cancel := false
			if !state.cancelled {
				cancel = g.src.Chance(cancelProbability)
			}
			subscriptions = append(subscriptions, Subscription{
				ID:          nextID,
				AccountID:   acct.ID,
				PeriodStart: start,
				PeriodEnd:   start.AddDate(0, 0, periodLengthDays),
				Status:      state.advance(cancel),
				MRR:         mrr,
			})
			nextID++
		}
	}
	return subscriptions
}

// Invoices generates one invoice per subscription period. Active periods are
// always paid; cancelled periods go overdue with a fixed probability.
func (g *Generator) Invoices(subscriptions []Subscription) []Invoice {
	invoices := make([]Invoice, 0, len(subscriptions))
	for _, sub := range subscriptions {
		status := PaymentPaid
		if sub.Status == StatusCancelled && g.src.Chance(overdueProbability) {
			status = PaymentOverdue
		}
		invoices = append(invoices, Invoice{
			ID:             len(invoices) + 1,
			SubscriptionID: sub.ID,
			IssuedDate:     sub.PeriodEnd.AddDate(0, 0, 1),
			Amount:         sub.MRR,
			Currency:       Currency,
			PaymentStatus:  status,
		})
	}
	return invoices
}

// FeatureEvents generates a random number of recent usage events per user.
func (g *Generator) FeatureEvents(users []User) []FeatureEvent {
	var events []FeatureEvent
	nextID := 1
	for _, user := range users {
		sessions := g.src.IntBetween(eventsPerUserMin, eventsPerUserMax)
		for i := 0; i < sessions; i++ {
			events = append(events, FeatureEvent{
				ID:        nextID,
				UserID:    user.ID,
				Feature:   g.src.Pick(Features),
				UsageDate: g.src.DateWithin(g.now, usageLookbackDays),
				Count:     g.src.IntBetween(eventCountMin, eventCountMax),
			})
			nextID++
		}
	}
	return events
}
