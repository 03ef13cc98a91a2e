package profile

// DefaultPath is the store file created when no path is configured.
const DefaultPath = "vectordesk.db"

// Config holds settings for the profile store.
type Config struct {
	// Path is the bbolt database file. The file is created on first open.
	Path string `yaml:"path" env:"PROFILE_DB_PATH"`
}

// DefaultConfig provides sensible defaults for most use cases.
func DefaultConfig() Config {
	return Config{
		Path: DefaultPath,
	}
}
