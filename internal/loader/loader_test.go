package loader

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fathomdata/saasforge/internal/dataset"
	"github.com/fathomdata/saasforge/internal/gen"
	"github.com/fathomdata/saasforge/internal/schema"
	"github.com/fathomdata/saasforge/internal/store"
)

func openTestStore(t *testing.T) *sql.DB {
	t.Helper()
	db, err := store.Open(store.Config{Path: store.Memory})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func generateArtifacts(t *testing.T, dir string) map[string]int {
	t.Helper()
	ds := gen.New(gen.Config{
		Accounts: 8,
		Months:   4,
		Seed:     42,
		Now:      time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC),
	}).Generate()
	counts, err := dataset.WriteAll(dir, ds)
	require.NoError(t, err)
	return counts
}

func tableCounts(t *testing.T, db *sql.DB) map[string]int {
	t.Helper()
	counts := make(map[string]int, len(schema.Tables))
	for _, tbl := range schema.Tables {
		var n int
		require.NoError(t, db.QueryRow("SELECT count(*) FROM "+tbl.Name).Scan(&n))
		counts[tbl.Name] = n
	}
	return counts
}

func TestRunLoadsAllTables(t *testing.T) {
	dir := t.TempDir()
	written := generateArtifacts(t, dir)
	db := openTestStore(t)

	loaded, err := New(db, dir, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, written, loaded)
	assert.Equal(t, written, tableCounts(t, db))
}

func TestRunIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	generateArtifacts(t, dir)
	db := openTestStore(t)
	l := New(db, dir, nil)

	first, err := l.Run(context.Background())
	require.NoError(t, err)
	second, err := l.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, first, tableCounts(t, db))
}

func TestRunMissingArtifactFailsBeforeReset(t *testing.T) {
	dir := t.TempDir()
	generateArtifacts(t, dir)
	db := openTestStore(t)
	l := New(db, dir, nil)

	_, err := l.Run(context.Background())
	require.NoError(t, err)
	before := tableCounts(t, db)

	require.NoError(t, os.Remove(filepath.Join(dir, "invoices.csv")))
	_, err = l.Run(context.Background())
	require.ErrorIs(t, err, ErrMissingSource)

	// The previously loaded store must survive a failed preflight.
	assert.Equal(t, before, tableCounts(t, db))
}

func TestLoadMissingFile(t *testing.T) {
	db := openTestStore(t)
	l := New(db, t.TempDir(), nil)
	require.NoError(t, l.Reset(context.Background()))

	tbl, ok := schema.ByName("accounts")
	require.True(t, ok)
	_, err := l.Load(context.Background(), tbl)
	assert.ErrorIs(t, err, ErrMissingSource)
}

func TestLoadHeaderMismatch(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "accounts.csv"),
		[]byte("account_id,unexpected\n1,x\n"), 0644))

	db := openTestStore(t)
	l := New(db, dir, nil)
	require.NoError(t, l.Reset(context.Background()))

	tbl, ok := schema.ByName("accounts")
	require.True(t, ok)
	_, err := l.Load(context.Background(), tbl)
	assert.ErrorContains(t, err, "does not match columns")
}

func TestLoadDanglingReference(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, "accounts.csv",
		"account_id,name,industry,plan,acv,signup_date,region\n"+
			"1,Account 001,Fintech,Starter,4800,2024-01-01,NA\n")
	writeArtifact(t, dir, "users.csv",
		"user_id,account_id,role,is_admin,last_active\n"+
			"1,999,analyst,1,2024-06-01\n")
	writeArtifact(t, dir, "subscriptions.csv",
		"subscription_id,account_id,period_start,period_end,status,mrr\n")
	writeArtifact(t, dir, "invoices.csv",
		"invoice_id,subscription_id,issued_date,amount,currency,payment_status\n")
	writeArtifact(t, dir, "feature_events.csv",
		"event_id,user_id,feature,usage_date,events_count\n")

	db := openTestStore(t)
	_, err := New(db, dir, nil).Run(context.Background())
	require.ErrorIs(t, err, ErrConstraintViolation)

	// The failed table must be fully rolled back.
	var n int
	require.NoError(t, db.QueryRow("SELECT count(*) FROM users").Scan(&n))
	assert.Zero(t, n)
}

func TestLoadRollsBackOnInsertFailure(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, "accounts.csv",
		"account_id,name,industry,plan,acv,signup_date,region\n"+
			"1,Account 001,Fintech,Starter,4800,2024-01-01,NA\n")

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	prep := mock.ExpectPrepare("INSERT INTO accounts")
	prep.ExpectExec().WillReturnError(errors.New("FOREIGN KEY constraint failed"))
	mock.ExpectRollback()

	tbl, ok := schema.ByName("accounts")
	require.True(t, ok)
	_, err = New(db, dir, nil).Load(context.Background(), tbl)
	require.ErrorIs(t, err, ErrConstraintViolation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsConstraintError(t *testing.T) {
	assert.True(t, isConstraintError(errors.New("FOREIGN KEY constraint failed")))
	assert.True(t, isConstraintError(errors.New("UNIQUE constraint failed: accounts.account_id")))
	assert.False(t, isConstraintError(errors.New("disk I/O error")))
	assert.False(t, isConstraintError(nil))
}

func writeArtifact(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}
