package gen

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedNow keeps generated dates stable across test runs.
var fixedNow = time.Date(2024, time.June, 15, 10, 30, 0, 0, time.UTC)

func testConfig() Config {
	return Config{Accounts: 25, Months: 6, Seed: 42, Now: fixedNow}
}

func TestGenerateReferentialIntegrity(t *testing.T) {
	ds := New(testConfig()).Generate()

	accountIDs := make(map[int]bool)
	for _, a := range ds.Accounts {
		accountIDs[a.ID] = true
	}
	userIDs := make(map[int]bool)
	for _, u := range ds.Users {
		assert.True(t, accountIDs[u.AccountID], "user %d references missing account %d", u.ID, u.AccountID)
		userIDs[u.ID] = true
	}
	subIDs := make(map[int]bool)
	for _, s := range ds.Subscriptions {
		assert.True(t, accountIDs[s.AccountID], "subscription %d references missing account %d", s.ID, s.AccountID)
		subIDs[s.ID] = true
	}
	for _, inv := range ds.Invoices {
		assert.True(t, subIDs[inv.SubscriptionID], "invoice %d references missing subscription %d", inv.ID, inv.SubscriptionID)
	}
	for _, ev := range ds.FeatureEvents {
		assert.True(t, userIDs[ev.UserID], "event %d references missing user %d", ev.ID, ev.UserID)
	}
}

func TestGenerateMonotonicIDs(t *testing.T) {
	ds := New(testConfig()).Generate()

	for i, a := range ds.Accounts {
		assert.Equal(t, i+1, a.ID)
	}
	for i, u := range ds.Users {
		assert.Equal(t, i+1, u.ID)
	}
	for i, s := range ds.Subscriptions {
		assert.Equal(t, i+1, s.ID)
	}
	for i, inv := range ds.Invoices {
		assert.Equal(t, i+1, inv.ID)
	}
	for i, ev := range ds.FeatureEvents {
		assert.Equal(t, i+1, ev.ID)
	}
}

func TestSubscriptionsMonotonicCancellation(t *testing.T) {
	// Enough accounts that cancellations actually occur at 8% per period.
	cfg := Config{Accounts: 200, Months: 12, Seed: 7, Now: fixedNow}
	g := New(cfg)
	accounts := g.Accounts()
	subs := g.Subscriptions(accounts)

	cancelledSeen := 0
	byAccount := make(map[int][]Subscription)
	for _, s := range subs {
		byAccount[s.AccountID] = append(byAccount[s.AccountID], s)
	}
	for accountID, periods := range byAccount {
		require.Len(t, periods, cfg.Months)
		cancelled := false
		for i, s := range periods {
			if i > 0 {
				assert.True(t, s.PeriodStart.After(periods[i-1].PeriodStart),
					"account %d periods out of chronological order", accountID)
			}
			switch s.Status {
			case StatusCancelled:
				cancelled = true
				cancelledSeen++
			case StatusActive:
				assert.False(t, cancelled, "account %d reactivated after cancellation", accountID)
			}
		}
	}
	assert.Positive(t, cancelledSeen, "expected some cancellations across 200 accounts x 12 periods")
}

func TestInvoiceConsistency(t *testing.T) {
	g := New(testConfig())
	accounts := g.Accounts()
	subs := g.Subscriptions(accounts)
	invoices := g.Invoices(subs)

	require.Len(t, invoices, len(subs))
	for i, inv := range invoices {
		sub := subs[i]
		assert.Equal(t, sub.ID, inv.SubscriptionID)
		assert.Equal(t, sub.PeriodEnd.AddDate(0, 0, 1), inv.IssuedDate)
		assert.Equal(t, sub.MRR, inv.Amount)
		assert.Equal(t, Currency, inv.Currency)
		if sub.Status == StatusActive {
			assert.Equal(t, PaymentPaid, inv.PaymentStatus,
				"invoice %d for active period must be paid", inv.ID)
		}
	}
}

func TestUsersAdminCoverage(t *testing.T) {
	g := New(testConfig())
	accounts := g.Accounts()
	users := g.Users(accounts)

	admins := make(map[int]int)
	seats := make(map[int]int)
	for _, u := range users {
		seats[u.AccountID]++
		if u.IsAdmin {
			admins[u.AccountID]++
		}
	}
	for _, acct := range accounts {
		assert.GreaterOrEqual(t, admins[acct.ID], 1, "account %d has no admin", acct.ID)
		assert.Equal(t, max(1, seats[acct.ID]/10), admins[acct.ID])
		lo, hi := acct.Plan.SeatRange()
		assert.GreaterOrEqual(t, seats[acct.ID], lo)
		assert.LessOrEqual(t, seats[acct.ID], hi)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	cfg := testConfig()
	first := New(cfg).Generate()
	second := New(cfg).Generate()

	assert.Equal(t, first, second, "same seed and reference time must reproduce the dataset")

	cfg.Seed = 43
	assert.NotEqual(t, first, New(cfg).Generate(), "a different seed should change the dataset")
}

func TestGenerateZeroAccounts(t *testing.T) {
	ds := New(Config{Accounts: 0, Months: 6, Seed: 1, Now: fixedNow}).Generate()

	assert.Empty(t, ds.Accounts)
	assert.Empty(t, ds.Users)
	assert.Empty(t, ds.Subscriptions)
	assert.Empty(t, ds.Invoices)
	assert.Empty(t, ds.FeatureEvents)
}

func TestStarterHistoryScenario(t *testing.T) {
	// A single account with six months of history yields exactly six
	// subscription periods and six invoices, all at the Starter MRR.
	var seed uint64
	var g *Generator
	var accounts []Account
	for seed = 1; ; seed++ {
		g = New(Config{Accounts: 1, Months: 6, Seed: seed, Now: fixedNow})
		accounts = g.Accounts()
		require.Len(t, accounts, 1)
		if accounts[0].Plan == PlanStarter {
			break
		}
		require.Less(t, seed, uint64(100), "no seed under 100 produced a Starter account")
	}

	subs := g.Subscriptions(accounts)
	require.Len(t, subs, 6)
	for _, s := range subs {
		assert.Equal(t, accounts[0].ID, s.AccountID)
		assert.Equal(t, 400, s.MRR)
		assert.Equal(t, s.PeriodStart.AddDate(0, 0, 29), s.PeriodEnd)
	}

	invoices := g.Invoices(subs)
	require.Len(t, invoices, 6)
	for i, inv := range invoices {
		assert.Equal(t, subs[i].ID, inv.SubscriptionID)
		assert.Equal(t, 400, inv.Amount)
	}
}

func TestAccountFields(t *testing.T) {
	g := New(testConfig())
	for _, a := range g.Accounts() {
		assert.Contains(t, Regions, a.Region)
		assert.Contains(t, Industries, a.Industry)
		assert.Contains(t, planCatalog, a.Plan)

		base := a.Plan.MRR() * 12
		assert.GreaterOrEqual(t, a.ACV, base-acvJitter)
		assert.LessOrEqual(t, a.ACV, base+acvJitter)

		assert.False(t, a.SignupDate.After(fixedNow))
		assert.False(t, a.SignupDate.Before(fixedNow.AddDate(0, 0, -signupLookbackDays)))
	}
}

func TestChurnIsTerminal(t *testing.T) {
	var c churn
	assert.Equal(t, StatusActive, c.advance(false))
	assert.Equal(t, StatusCancelled, c.advance(true))
	// Once cancelled, the roll no longer matters.
	assert.Equal(t, StatusCancelled, c.advance(false))
	assert.Equal(t, StatusCancelled, c.advance(true))
}
