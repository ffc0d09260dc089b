package config

import (
	"context"
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aadeshp/coursehub/internal/identity"
)

type Config struct {
	Env   string
	Port  int
	Debug bool

	MongoURI string
	MongoDB  string

	// JWTSecret has no development fallback on purpose: an unset secret
	// fails startup instead of silently signing with a known value.
	JWTSecret string
	JWTTTL    time.Duration

	Firebase identity.FirebaseCredentials

	AllowedOrigins []string
	OTLPEndpoint   string

	// optional instructor account seeded at startup
	SeedInstructorEmail    string
	SeedInstructorPassword string
	SeedInstructorName     string
	SeedInstructorPhone    string
}

func Load() (Config, error) {
	secret := os.Getenv("JWT_SECRET")

	if secret == "" {
		return Config{}, errors.New("JWT_SECRET must be set")
	}

	env := getEnv("APP_ENV", "dev")

	cfg := Config{
		Env:       env,
		Port:      getEnvInt("PORT", 5000),
		Debug:     env == "dev",
		MongoURI:  getEnv("MONGO_URI", "mongodb://127.0.0.1:27017"),
		MongoDB:   getEnv("MONGO_DB", "coursehub"),
		JWTSecret: secret,
		JWTTTL:    time.Duration(getEnvInt("JWT_TTL_HOURS", 24)) * time.Hour,
		Firebase: identity.FirebaseCredentials{
			ProjectID:   os.Getenv("FIREBASE_PROJECT_ID"),
			ClientEmail: os.Getenv("FIREBASE_CLIENT_EMAIL"),
			PrivateKey:  os.Getenv("FIREBASE_PRIVATE_KEY"),
		},
		AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173")),
		OTLPEndpoint:   os.Getenv("OTEL_EXPORTER_ENDPOINT"),

		SeedInstructorEmail:    os.Getenv("SEED_INSTRUCTOR_EMAIL"),
		SeedInstructorPassword: os.Getenv("SEED_INSTRUCTOR_PASSWORD"),
		SeedInstructorName:     getEnv("SEED_INSTRUCTOR_NAME", "Instructor"),
		SeedInstructorPhone:    os.Getenv("SEED_INSTRUCTOR_PHONE"),
	}

	return cfg, nil
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)

		if p != "" {
			out = append(out, p)
		}
	}

	return out
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			return fallback
		}

		return num
	}
	return fallback
}
