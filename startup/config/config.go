package config

import "os"

type Config struct {
	Port             string
	RentalDBHost     string
	RentalDBPort     string
	CatalogCacheHost string
	CatalogCachePort string
	JaegerAddress    string
	LogPath          string
	SeedDB           bool
	AdminName        string
	AdminEmail       string
	AdminPassword    string
}

func NewConfig() *Config {
	return &Config{
		Port:             os.Getenv("RENTAL_SERVICE_PORT"),
		RentalDBHost:     os.Getenv("RENTAL_DB_HOST"),
		RentalDBPort:     os.Getenv("RENTAL_DB_PORT"),
		CatalogCacheHost: os.Getenv("CATALOG_CACHE_HOST"),
		CatalogCachePort: os.Getenv("CATALOG_CACHE_PORT"),
		JaegerAddress:    os.Getenv("JAEGER_ADDRESS"),
		LogPath:          os.Getenv("LOG_PATH"),
		SeedDB:           os.Getenv("SEED_DB") == "true",
		AdminName:        os.Getenv("ADMIN_NAME"),
		AdminEmail:       os.Getenv("ADMIN_EMAIL"),
		AdminPassword:    os.Getenv("ADMIN_PASSWORD"),
	}
}
