// Package schema declares the five relational tables backing the synthetic
// SaaS dataset. Create and drop ordering is derived from the declared
// dependencies so it is never maintained by hand in two places.
package schema

import (
	"fmt"
	"strings"
)

// Table describes one relational table and its position in the dependency
// graph. Columns are listed in CSV artifact order.
type Table struct {
	Name      string
	Columns   []string
	DDL       string
	DependsOn []string
}

// CSVFile returns the name of the table's CSV exchange artifact.
func (t Table) CSVFile() string {
	return t.Name + ".csv"
}

// InsertSQL returns the parameterized bulk-insert statement for the table.
func (t Table) InsertSQL() string {
	placeholders := make([]string, len(t.Columns))
	for i := range placeholders {
		placeholders[i] = "?"
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		t.Name, strings.Join(t.Columns, ", "), strings.Join(placeholders, ", "))
}

// Tables lists the dataset tables in declaration order.
var Tables = []Table{
	{
		Name:    "accounts",
		Columns: []string{"account_id", "name", "industry", "plan", "acv", "signup_date", "region"},
		DDL: `CREATE TABLE accounts (
	account_id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	industry TEXT NOT NULL,
	plan TEXT NOT NULL,
	acv INTEGER NOT NULL,
	signup_date TEXT NOT NULL,
	region TEXT NOT NULL
)`,
	},
	{
		Name:    "users",
		Columns: []string{"user_id", "account_id", "role", "is_admin", "last_active"},
		DDL: `CREATE TABLE users (
	user_id INTEGER PRIMARY KEY,
	account_id INTEGER NOT NULL REFERENCES accounts(account_id),
	role TEXT NOT NULL,
	is_admin INTEGER NOT NULL,
	last_active TEXT NOT NULL
)`,
		DependsOn: []string{"accounts"},
	},
	{
		Name:    "subscriptions",
		Columns: []string{"subscription_id", "account_id", "period_start", "period_end", "status", "mrr"},
		DDL: `CREATE TABLE subscriptions (
	subscription_id INTEGER PRIMARY KEY,
	account_id INTEGER NOT NULL REFERENCES accounts(account_id),
	period_start TEXT NOT NULL,
	period_end TEXT NOT NULL,
	status TEXT NOT NULL,
	mrr REAL NOT NULL
)`,
		DependsOn: []string{"accounts"},
	},
	{
		Name:    "invoices",
		Columns: []string{"invoice_id", "subscription_id", "issued_date", "amount", "currency", "payment_status"},
		DDL: `CREATE TABLE invoices (
	invoice_id INTEGER PRIMARY KEY,
	subscription_id INTEGER NOT NULL REFERENCES subscriptions(subscription_id),
	issued_date TEXT NOT NULL,
	amount REAL NOT NULL,
	currency TEXT NOT NULL,
	payment_status TEXT NOT NULL
)`,
		DependsOn: []string{"subscriptions"},
	},
	{
		Name:    "feature_events",
		Columns: []string{"event_id", "user_id", "feature", "usage_date", "events_count"},
		DDL: `CREATE TABLE feature_events (
	event_id INTEGER PRIMARY KEY,
	user_id INTEGER NOT NULL REFERENCES users(user_id),
	feature TEXT NOT NULL,
	usage_date TEXT NOT NULL,
	events_count INTEGER NOT NULL
)`,
		DependsOn: []string{"users"},
	},
}

// ByName returns the table with the given name.
func ByName(name string) (Table, bool) {
	for _, t := range Tables {
		if t.Name == name {
			return t, true
		}
	}
	return Table{}, false
}

// CreateOrder returns the tables parents-first, derived by a topological
// sort over the declared dependencies. The order is deterministic for a
// fixed Tables declaration.
func CreateOrder() ([]Table, error) {
	byName := make(map[string]Table, len(Tables))
	for _, t := range Tables {
		byName[t.Name] = t
	}

	visited := make(map[string]bool)
	inStack := make(map[string]bool)
	var order []Table

	var visit func(name string) error
	visit = func(name string) error {
		if visited[name] {
			return nil
		}
		if inStack[name] {
			return fmt.Errorf("dependency cycle through table %q", name)
		}
		t, ok := byName[name]
		if !ok {
			return fmt.Errorf("unknown table dependency %q", name)
		}
		inStack[name] = true
		for _, dep := range t.DependsOn {
			if err := visit(dep); err != nil {
				return err
			}
		}
		inStack[name] = false
		visited[name] = true
		order = append(order, t)
		return nil
	}

	for _, t := range Tables {
		if err := visit(t.Name); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// DropOrder returns the tables children-first, so drops never break a
// foreign key of a surviving table.
func DropOrder() ([]Table, error) {
	order, err := CreateOrder()
	if err != nil {
		return nil, err
	}
	reversed := make([]Table, len(order))
	for i, t := range order {
		reversed[len(order)-1-i] = t
	}
	return reversed, nil
}
