package config

// Defaults for configuration values.
const (
	DefaultDataDir  = "data"
	DefaultDatabase = "data/saas.db"
	DefaultDriver   = "sqlite"
	DefaultAccounts = 120
	DefaultMonths   = 6
	DefaultSeed     = 42
	DefaultFormat   = "table"
)

// Config holds the resolved configuration for a command invocation.
// Precedence (highest to lowest): flags > env vars > config file > defaults.
type Config struct {
	// DataDir is where CSV artifacts and the run manifest are written.
	DataDir string `koanf:"data_dir"`

	// Database is the store path, or ":memory:" for an ephemeral store.
	Database string `koanf:"database"`

	// Driver selects the store backend ("sqlite" or "duckdb").
	Driver string `koanf:"driver"`

	// Accounts is the number of accounts to generate.
	Accounts int `koanf:"accounts"`

	// Months is the number of subscription periods per account.
	Months int `koanf:"months"`

	// Seed drives all random choices; the same seed reproduces the
	// same dataset byte for byte.
	Seed uint64 `koanf:"seed"`

	// Verbose enables debug logging to stderr.
	Verbose bool `koanf:"verbose"`

	// Format selects the report output format (table|json|csv|md).
	Format string `koanf:"format"`
}
