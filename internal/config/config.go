package config

import "os"

// Config holds the service settings, all sourced from the environment with
// local-development defaults.
type Config struct {
	ServerPort string
	DBPath     string
	RulesPath  string
}

// Load reads configuration from the environment. Missing values fall back to
// defaults; an empty RulesPath means the embedded category rules.
func Load() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("BUDGETGLASS_DB")
	if dbPath == "" {
		dbPath = "data/budgetglass.db"
	}

	return Config{
		ServerPort: ":" + port,
		DBPath:     dbPath,
		RulesPath:  os.Getenv("BUDGETGLASS_RULES"),
	}
}
