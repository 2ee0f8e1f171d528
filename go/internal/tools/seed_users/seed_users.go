package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/mcdev12/stakes/go/internal/dbconfig"
	"github.com/mcdev12/stakes/go/internal/models"
)

// User mirrors the JSON snapshot layout
type User struct {
	ID       uuid.UUID       `json:"id"`
	Username string          `json:"username"`
	Balance  decimal.Decimal `json:"balance"`
}

func main() {
	ctx := context.Background()

	path := "go/internal/assets/users.json"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	// 1) Load the JSON snapshot
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read JSON: %v\n", err)
		os.Exit(1)
	}
	var users []User
	if err := json.Unmarshal(data, &users); err != nil {
		fmt.Fprintf(os.Stderr, "unmarshal JSON: %v\n", err)
		os.Exit(1)
	}

	// 2) Connect using shared dbconfig
	cfg := dbconfig.NewConfigFromEnv()
	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	// 3) Insert each user with its opening deposit, skipping existing usernames
	var (
		total    = len(users)
		inserted int
		skipped  int
		errs     int
	)

	for _, u := range users {
		if u.Balance.IsNegative() || !models.IsWholeCents(u.Balance) {
			fmt.Fprintf(os.Stderr, "invalid balance for %s: %s\n", u.Username, u.Balance)
			errs++
			continue
		}

		created, err := seedUser(ctx, pool, u)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error inserting user %s: %v\n", u.Username, err)
			errs++
			continue
		}
		if created {
			inserted++
		} else {
			skipped++
		}
	}

	// 4) Print summary
	fmt.Printf(
		"Users seed complete: %d total, %d inserted, %d skipped, %d errors\n",
		total, inserted, skipped, errs,
	)
}

func seedUser(ctx context.Context, pool *pgxpool.Pool, u User) (bool, error) {
	created := false
	err := pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
            INSERT INTO users (id, username, balance)
            VALUES ($1, $2, $3)
            ON CONFLICT DO NOTHING
        `, u.ID, u.Username, u.Balance.StringFixed(2))
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return nil
		}
		created = true

		if !u.Balance.IsPositive() {
			return nil
		}
		_, err = tx.Exec(ctx, `
            INSERT INTO ledger_entries (id, user_id, kind, amount)
            VALUES ($1, $2, $3, $4)
        `, uuid.New(), u.ID, string(models.LedgerKindDeposit), u.Balance.StringFixed(2))
		return err
	})
	return created, err
}
