// cmd/devtoken/main.go: mints identity-provider style tokens for local
// development, signed with IDP_JWT_SECRET.
// Usage: go run ./cmd/devtoken -sub "demo|client" [-role client] [-ttl 24h]
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"bclick/internal/config"
	"bclick/internal/middleware"

	"github.com/golang-jwt/jwt/v5"
)

func main() {
	sub := flag.String("sub", "", "identity provider subject")
	role := flag.String("role", "", "optional role claim (client, supplier, admin)")
	email := flag.String("email", "", "optional email claim")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	if *sub == "" {
		fmt.Fprintln(os.Stderr, "-sub is required")
		os.Exit(2)
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	now := time.Now()
	claims := middleware.IdentityClaims{
		Role:  *role,
		Email: *email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   *sub,
			Issuer:    cfg.IdPIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(*ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.IdPJWTSecret))
	if err != nil {
		fmt.Fprintln(os.Stderr, "sign:", err)
		os.Exit(1)
	}
	fmt.Println(signed)
}
