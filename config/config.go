package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// This function will Load the ENVIRONMENT VARIABLES from .env if GO_ENV variable is not set
func LoadENV() error {
	goEnv := os.Getenv("GO_ENV")

	if goEnv == "" || goEnv == "development" {
		err := godotenv.Load()
		if err != nil {
			return err
		}
	}

	return nil
}

type EnvironmentVariable struct {
	// All variables
	GO_ENV       string
	DB_USER_NAME string
	DB_PASSWORD  string
	DB_NAME      string
	DB_HOST      string
	DB_PORT      string
	DB_SSL_MODE  string
	PORT         int
	// JWT Configuration
	JWT_SECRET           string
	JWT_ISSUER           string
	JWT_EXPIRY           time.Duration
	REFRESH_TOKEN_EXPIRY time.Duration
	// Login security
	MAX_LOGIN_ATTEMPTS int
	LOCKOUT_DURATION   time.Duration
	BCRYPT_COST        int
	// Redis Configuration
	REDIS_URL string
	// HTTP
	ALLOWED_ORIGINS string
	// Bootstrap
	SUPERADMIN_EMAIL    string
	SUPERADMIN_PASSWORD string
}

func Get() (*EnvironmentVariable, error) {

	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil {
		port = 8080
	}

	// Database defaults
	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		dbHost = "localhost"
	}

	dbPort := os.Getenv("DB_PORT")
	if dbPort == "" {
		dbPort = "5432"
	}

	jwtIssuer := os.Getenv("JWT_ISSUER")
	if jwtIssuer == "" {
		jwtIssuer = "databridge-consult"
	}

	// Wildcard origins are rejected for credentialed CORS, so default to
	// the local frontend.
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000"
	}

	envVariables := &EnvironmentVariable{
		GO_ENV:       os.Getenv("GO_ENV"),
		DB_USER_NAME: os.Getenv("DB_USER_NAME"),
		DB_PASSWORD:  os.Getenv("DB_PASSWORD"),
		DB_NAME:      os.Getenv("DB_NAME"),
		DB_HOST:      dbHost,
		DB_PORT:      dbPort,
		DB_SSL_MODE:  os.Getenv("DB_SSL_MODE"),
		PORT:         port,
		// JWT
		JWT_SECRET:           os.Getenv("JWT_SECRET"),
		JWT_ISSUER:           jwtIssuer,
		JWT_EXPIRY:           durationFromSeconds("JWT_EXPIRY", 3600),
		REFRESH_TOKEN_EXPIRY: durationFromSeconds("REFRESH_TOKEN_EXPIRY", 7*24*3600),
		// Login security
		MAX_LOGIN_ATTEMPTS: intFromEnv("MAX_LOGIN_ATTEMPTS", 5),
		LOCKOUT_DURATION:   durationFromSeconds("LOCKOUT_DURATION", 15*60),
		BCRYPT_COST:        intFromEnv("BCRYPT_COST", 10),
		// Redis
		REDIS_URL: os.Getenv("REDIS_URL"),
		// HTTP
		ALLOWED_ORIGINS: allowedOrigins,
		// Bootstrap
		SUPERADMIN_EMAIL:    os.Getenv("SUPERADMIN_EMAIL"),
		SUPERADMIN_PASSWORD: os.Getenv("SUPERADMIN_PASSWORD"),
	}

	return envVariables, nil
}

// intFromEnv reads an integer env var, falling back when unset or invalid
func intFromEnv(key string, fallback int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

// durationFromSeconds reads an env var expressed in seconds
func durationFromSeconds(key string, fallbackSeconds int) time.Duration {
	return time.Duration(intFromEnv(key, fallbackSeconds)) * time.Second
}

// IsProduction reports whether the app runs in a production deployment
func (e *EnvironmentVariable) IsProduction() bool {
	return e.GO_ENV == "production"
}
