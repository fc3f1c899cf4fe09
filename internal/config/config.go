package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr   string
	BackendURL string

	// RedisAddr empty means in-memory sessions.
	RedisAddr string

	Currency           string
	PaymentScriptURL   string
	PaymentRedirectURL string

	ServiceName    string
	ServiceVersion string
}

// Load reads configuration from the environment, with an optional .env file
// for local development.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		HTTPAddr:           getenv("HTTP_ADDR", ":8080"),
		BackendURL:         getenv("BACKEND_URL", "http://localhost:8081"),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		Currency:           getenv("CURRENCY", "COP"),
		PaymentScriptURL:   getenv("PAYMENT_SCRIPT_URL", "https://checkout.bold.co/library/boldPaymentButton.js"),
		PaymentRedirectURL: getenv("PAYMENT_REDIRECT_URL", "http://localhost:8080/purchase-records"),
		ServiceName:        getenv("SERVICE_NAME", "storefront"),
		ServiceVersion:     getenv("SERVICE_VERSION", "0.1.0"),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
