// CLI tool to create a login user together with an empty profile row.
// Biometrics are filled in later through PATCH /api/profile.
// Usage: go run ./cmd/create-user (from the repo root)
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

type newUser struct {
	username, email, password, timezone string
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fail("load .env", err)
	}

	in := bufio.NewReader(os.Stdin)
	u := newUser{
		username: prompt(in, "Username"),
		email:    prompt(in, "Email"),
		password: prompt(in, "Password"),
		timezone: prompt(in, "Timezone (IANA, blank for UTC)"),
	}
	if u.timezone == "" {
		u.timezone = "UTC"
	}
	if _, err := time.LoadLocation(u.timezone); err != nil {
		fail("timezone "+u.timezone, err)
	}
	if u.username == "" || u.password == "" {
		fail("input", fmt.Errorf("username and password are required"))
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, os.Getenv("DB_URL"))
	if err != nil {
		fail("connect", err)
	}
	defer conn.Close(ctx)

	id, token, err := createUser(ctx, conn, u)
	if err != nil {
		fail("create user", err)
	}

	fmt.Printf("\nUser created.\n")
	fmt.Printf("  ID:         %d\n", id)
	fmt.Printf("  Username:   %s\n", u.username)
	fmt.Printf("  Timezone:   %s\n", u.timezone)
	fmt.Printf("  Auth Token: %s\n", token)
}

// createUser inserts the users and profiles rows in one transaction.
func createUser(ctx context.Context, conn *pgx.Conn, u newUser) (int, string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
	if err != nil {
		return 0, "", fmt.Errorf("hash password: %w", err)
	}
	token := uuid.New().String()

	var id int
	err = pgx.BeginFunc(ctx, conn, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx,
			`INSERT INTO users (username, email, password, auth_token)
			 VALUES ($1, $2, $3, $4) RETURNING id`,
			u.username, u.email, string(hash), token).Scan(&id); err != nil {
			return fmt.Errorf("insert user: %w", err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO profiles (user_id, timezone) VALUES ($1, $2)`, id, u.timezone); err != nil {
			return fmt.Errorf("insert profile: %w", err)
		}
		return nil
	})
	return id, token, err
}

func prompt(in *bufio.Reader, label string) string {
	fmt.Print(label + ": ")
	line, _ := in.ReadString('\n')
	return strings.TrimSpace(line)
}

func fail(step string, err error) {
	fmt.Fprintf(os.Stderr, "Error (%s): %v\n", step, err)
	os.Exit(1)
}
