// Package fixtures provides shared test data constants for the WallFrame
// Core SDK test suite.
//
// Using common constants for test identities prevents magic strings in
// tests and ensures consistency across packages.
package fixtures

// Standard user identity values used across auth and store tests.
const (
	// UserID is the default user ID for unit tests.
	UserID = "7b8e1f7a-2c43-4f0a-9c1d-5e6f7a8b9c0d"

	// Username is the default username for unit tests.
	Username = "ada"

	// Email is the default email for unit tests.
	Email = "ada@wallframe.test"

	// Role is the default role for unit tests.
	Role = "user"

	// AdminUserID is a second user ID for tests requiring an
	// administrator account.
	AdminUserID = "0a1b2c3d-4e5f-6a7b-8c9d-0e1f2a3b4c5d"

	// AdminUsername is the username of the administrator account.
	AdminUsername = "grace"

	// AdminEmail is the email of the administrator account.
	AdminEmail = "grace@wallframe.test"

	// AdminRole is the role of the administrator account.
	AdminRole = "admin"
)

// Standard token values used in verifier and middleware tests.
const (
	// SigningKey is a 32-byte HMAC signing key for unit tests. This is a
	// deliberately weak value suitable only for tests.
	SigningKey = "0123456789abcdef0123456789abcdef"

	// AltSigningKey is a second 32-byte key for wrong-key signature tests.
	AltSigningKey = "fedcba9876543210fedcba9876543210"

	// MalformedToken is a string that is not a structurally valid JWT.
	MalformedToken = "not-a-jwt"
)

// Standard client identity values used in rate-limit and attempt-tracker
// tests.
const (
	// ClientIP is the default client address for unit tests.
	ClientIP = "203.0.113.9"

	// AltClientIP is a second client address for tests requiring two
	// independent clients.
	AltClientIP = "203.0.113.27"
)

// Standard configuration values used in config loader tests.
const (
	// TestEnvPrefix is the default environment variable prefix for config tests.
	TestEnvPrefix = "TESTAPP"

	// TestConfigYAML is a minimal valid YAML configuration for tests.
	TestConfigYAML = `host: localhost
port: 8080
database: testdb
`

	// TestConfigJSON is a minimal valid JSON configuration for tests.
	TestConfigJSON = `{
  "host": "localhost",
  "port": 8080,
  "database": "testdb"
}`
)

// Standard database configuration values used in postgres client tests.
const (
	// TestDBHost is the default database host for test configurations.
	TestDBHost = "localhost"

	// TestDBPort is the default database port for test configurations.
	TestDBPort = 5432

	// TestDBName is the default database name for test configurations.
	TestDBName = "testdb"

	// TestDBUser is the default database user for test configurations.
	TestDBUser = "testuser"

	// TestDBPassword is the default database password for test configurations.
	// This is a deliberately weak value suitable only for unit tests.
	TestDBPassword = "testpass"
)
