package report

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fathomdata/saasforge/internal/loader"
	"github.com/fathomdata/saasforge/internal/store"
)

func openTestStore(t *testing.T) *sql.DB {
	t.Helper()
	db, err := store.Open(store.Config{Path: store.Memory})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func resetSchema(t *testing.T, db *sql.DB) {
	t.Helper()
	require.NoError(t, loader.New(db, "", nil).Reset(context.Background()))
}

func TestRunUnpopulatedStore(t *testing.T) {
	db := openTestStore(t)

	_, err := Run(context.Background(), db)
	assert.ErrorIs(t, err, ErrStoreNotReady)
}

func TestRunEmptyPopulatedStore(t *testing.T) {
	db := openTestStore(t)
	resetSchema(t, db)

	res, err := Run(context.Background(), db)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Empty(t, res.Rows, "empty store yields an empty result, not an error")
}

func TestRunSegmentsByMonthPlanRegion(t *testing.T) {
	db := openTestStore(t)
	resetSchema(t, db)

	exec := func(q string, args ...any) {
		t.Helper()
		_, err := db.Exec(q, args...)
		require.NoError(t, err)
	}
	exec(`INSERT INTO accounts (account_id, name, industry, plan, acv, signup_date, region)
		VALUES (1, 'Account 001', 'Fintech', 'Starter', 4800, '2024-01-01', 'NA'),
		       (2, 'Account 002', 'Retail', 'Growth', 18000, '2024-01-05', 'EMEA')`)
	exec(`INSERT INTO subscriptions (subscription_id, account_id, period_start, period_end, status, mrr)
		VALUES (1, 1, '2024-04-02', '2024-05-01', 'active', 400),
		       (2, 1, '2024-05-02', '2024-05-31', 'active', 400),
		       (3, 2, '2024-04-02', '2024-05-01', 'active', 1500),
		       (4, 2, '2024-05-02', '2024-05-31', 'cancelled', 1500)`)

	res, err := Run(context.Background(), db)
	require.NoError(t, err)

	assert.Equal(t, []string{"month", "plan", "region", "periods", "active_mrr", "churned_periods"}, res.Columns)
	require.Len(t, res.Rows, 4)

	// Ordered by month, then plan, then region.
	assert.Equal(t, "2024-04", res.Rows[0]["month"])
	assert.Equal(t, "Growth", res.Rows[0]["plan"])
	assert.Equal(t, "EMEA", res.Rows[0]["region"])
	assert.EqualValues(t, 1500, res.Rows[0]["active_mrr"])
	assert.EqualValues(t, 0, res.Rows[0]["churned_periods"])

	assert.Equal(t, "2024-04", res.Rows[1]["month"])
	assert.Equal(t, "Starter", res.Rows[1]["plan"])
	assert.EqualValues(t, 400, res.Rows[1]["active_mrr"])

	// The Growth account churned in May; its MRR drops out of the segment.
	assert.Equal(t, "2024-05", res.Rows[2]["month"])
	assert.Equal(t, "Growth", res.Rows[2]["plan"])
	assert.EqualValues(t, 0, res.Rows[2]["active_mrr"])
	assert.EqualValues(t, 1, res.Rows[2]["churned_periods"])

	assert.Equal(t, "2024-05", res.Rows[3]["month"])
	assert.Equal(t, "Starter", res.Rows[3]["plan"])
	assert.EqualValues(t, 400, res.Rows[3]["active_mrr"])
}

func TestQueryMaterializesRows(t *testing.T) {
	db := openTestStore(t)
	resetSchema(t, db)

	_, err := db.Exec(`INSERT INTO accounts (account_id, name, industry, plan, acv, signup_date, region)
		VALUES (1, 'Account 001', 'Media', 'Enterprise', 54000, '2023-11-20', 'APAC')`)
	require.NoError(t, err)

	res, err := Query(context.Background(), db, "SELECT account_id, name, region FROM accounts")
	require.NoError(t, err)

	assert.Equal(t, []string{"account_id", "name", "region"}, res.Columns)
	require.Len(t, res.Rows, 1)
	assert.EqualValues(t, 1, res.Rows[0]["account_id"])
	assert.Equal(t, "Account 001", res.Rows[0]["name"])
	assert.Equal(t, "APAC", res.Rows[0]["region"])
}

func TestQueryInvalidSQL(t *testing.T) {
	db := openTestStore(t)

	_, err := Query(context.Background(), db, "SELECT * FROM nowhere")
	assert.ErrorContains(t, err, "query failed")
}
