// seed inserts demo users into the local dev database.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/Camille-Li-1022/demo-user-register-login/internal/infrastructure/postgres"
	"github.com/Camille-Li-1022/demo-user-register-login/internal/usecase"
	"golang.org/x/crypto/bcrypt"
)

type userSpec struct {
	email    string
	password string
}

var users = []userSpec{
	{"alice@test.local", "alice-password"},
	{"bob@test.local", "bob-password"},
	{"carol@test.local", "carol-password"},
}

func main() {
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set — run: direnv allow")
	}

	pool, err := postgres.NewPool(ctx, dbURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	var inserted, skipped int
	for _, spec := range users {
		hash, err := bcrypt.GenerateFromPassword([]byte(spec.password), usecase.BcryptCost)
		if err != nil {
			log.Fatalf("hash password for %s: %v", spec.email, err)
		}

		tag, err := pool.Exec(ctx, `
			INSERT INTO users (email, password_hash)
			VALUES ($1, $2)
			ON CONFLICT (email) DO NOTHING`,
			spec.email, string(hash),
		)
		if err != nil {
			log.Fatalf("insert user %s: %v", spec.email, err)
		}
		if tag.RowsAffected() == 0 {
			skipped++
		} else {
			inserted++
		}
	}

	fmt.Println("Seed complete")
	fmt.Println()
	fmt.Printf("  Users created: %d  (skipped %d already existing)\n", inserted, skipped)
	fmt.Println()
	fmt.Println("How to test:")
	fmt.Println()
	fmt.Println("  Step 1 — log in:")
	fmt.Println()
	fmt.Printf("    curl -s -X POST http://localhost:8080/user/login \\\n")
	fmt.Printf("      -H 'Content-Type: application/json' \\\n")
	fmt.Printf("      -d '{\"email\":\"%s\",\"password\":\"%s\"}'\n", users[0].email, users[0].password)
	fmt.Println("    # → {\"token\":\"eyJ...\"}")
	fmt.Println()
	fmt.Println("  Step 2 — validate the token:")
	fmt.Println()
	fmt.Println("    export JWT=eyJ...")
	fmt.Println("    curl -s http://localhost:8080/user/validate -H \"Authorization: Bearer $JWT\"")
	fmt.Println()
	fmt.Println("  Step 3 — log out and watch the same token stop validating:")
	fmt.Println()
	fmt.Println("    curl -s -X POST http://localhost:8080/user/logout -H \"Authorization: Bearer $JWT\"")
	fmt.Println("    curl -s http://localhost:8080/user/validate -H \"Authorization: Bearer $JWT\"")
	fmt.Println("    # → 401 Invalid token")
}
