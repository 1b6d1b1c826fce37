package config

const (
	// DefaultDatabasePath is the default path for the sqlite database
	DefaultDatabasePath = "./academia.db"

	// DefaultPort is the HTTP port used when PORT is unset
	DefaultPort = 8188

	// DefaultEnvFile is read on startup when present
	DefaultEnvFile = ".env"
)
