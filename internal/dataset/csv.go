// Package dataset owns the CSV exchange format between the generator and
// the loader: one UTF-8 artifact per entity type with a header row, dates as
// YYYY-MM-DD, booleans as 0/1. It also records each generation run in a
// manifest next to the artifacts.
package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/fathomdata/saasforge/internal/gen"
	"github.com/fathomdata/saasforge/internal/schema"
)

// DateFormat is the wire format for all dates.
const DateFormat = "2006-01-02"

// WriteAll writes the five CSV artifacts for a dataset into dir, creating it
// if needed. Returns row counts keyed by table name.
func WriteAll(dir string, ds *gen.Dataset) (map[string]int, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	artifacts := []struct {
		table string
		rows  [][]string
	}{
		{"accounts", accountRows(ds.Accounts)},
		{"users", userRows(ds.Users)},
		{"subscriptions", subscriptionRows(ds.Subscriptions)},
		{"invoices", invoiceRows(ds.Invoices)},
		{"feature_events", featureEventRows(ds.FeatureEvents)},
	}

	counts := make(map[string]int, len(artifacts))
	for _, a := range artifacts {
		tbl, ok := schema.ByName(a.table)
		if !ok {
			return nil, fmt.Errorf("no schema for table %q", a.table)
		}
		if err := writeFile(filepath.Join(dir, tbl.CSVFile()), tbl.Columns, a.rows); err != nil {
			return nil, err
		}
		counts[a.table] = len(a.rows)
	}
	return counts, nil
}

func writeFile(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			_ = f.Close()
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return f.Close()
}

func formatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func accountRows(accounts []gen.Account) [][]string {
	rows := make([][]string, 0, len(accounts))
	for _, a := range accounts {
		rows = append(rows, []string{
			strconv.Itoa(a.ID),
			a.Name,
			a.Industry,
			string(a.Plan),
			strconv.Itoa(a.ACV),
			a.SignupDate.Format(DateFormat),
			a.Region,
		})
	}
	return rows
}

func userRows(users []gen.User) [][]string {
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{
			strconv.Itoa(u.ID),
			strconv.Itoa(u.AccountID),
			u.Role,
			formatBool(u.IsAdmin),
			u.LastActive.Format(DateFormat),
		})
	}
	return rows
}

func subscriptionRows(subs []gen.Subscription) [][]string {
	rows := make([][]string, 0, len(subs))
	for _, s := range subs {
		rows = append(rows, []string{
			strconv.Itoa(s.ID),
			strconv.Itoa(s.AccountID),
			s.PeriodStart.Format(DateFormat),
			s.PeriodEnd.Format(DateFormat),
			string(s.Status),
			strconv.Itoa(s.MRR),
		})
	}
	return rows
}

func invoiceRows(invoices []gen.Invoice) [][]string {
	rows := make([][]string, 0, len(invoices))
	for _, inv := range invoices {
		rows = append(rows, []string{
			strconv.Itoa(inv.ID),
			strconv.Itoa(inv.SubscriptionID),
			inv.IssuedDate.Format(DateFormat),
			strconv.Itoa(inv.Amount),
			inv.Currency,
			string(inv.PaymentStatus),
		})
	}
	return rows
}

func featureEventRows(events []gen.FeatureEvent) [][]string {
	rows := make([][]string, 0, len(events))
	for _, ev := range events {
		rows = append(rows, []string{
			strconv.Itoa(ev.ID),
			strconv.Itoa(ev.UserID),
			ev.Feature,
			ev.UsageDate.Format(DateFormat),
			strconv.Itoa(ev.Count),
		})
	}
	return rows
}
