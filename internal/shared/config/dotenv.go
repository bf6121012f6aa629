package config

import "github.com/joho/godotenv"

// loadEnvFiles merges the given dotenv files into the process environment.
// Missing files are skipped and already exported variables are kept.
func loadEnvFiles(paths ...string) {
	for _, path := range paths {
		_ = godotenv.Load(path)
	}
}
