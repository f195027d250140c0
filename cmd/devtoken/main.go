// Command devtoken mints a bearer token for local testing, signed with
// JWT_SECRET from the environment or .env.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/mockprep/backend/internal/auth"
)

func main() {
	email := flag.String("email", "dev@example.com", "email claim")
	name := flag.String("name", "Dev User", "name claim")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	_ = godotenv.Load()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		logger.Error("JWT_SECRET is not set")
		os.Exit(1)
	}

	tok, err := auth.NewTokens(secret).Sign(auth.Identity{Email: *email, Name: *name}, *ttl)
	if err != nil {
		logger.Error("failed to sign token", "error", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
