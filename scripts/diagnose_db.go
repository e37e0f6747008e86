// Command diagnose_db reports on the health of the vidbrief database:
// row counts, credit distribution, index presence, and orphaned rows.
// Run manually against a live database:
//
//	DATABASE_URL=postgres://... go run scripts/diagnose_db.go
package main

import (
	"database/sql"
	"encoding/json"
	"log"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Report is the full diagnostic output, printed as JSON.
type Report struct {
	GeneratedAt      string       `json:"generated_at"`
	Accounts         int64        `json:"accounts"`
	Summaries        int64        `json:"summaries"`
	AccountsNoCredit int64        `json:"accounts_without_credits"`
	OrphanSummaries  int64        `json:"orphan_summaries"`
	MissingIndexes   []string     `json:"missing_indexes,omitempty"`
	TopAccounts      []TopAccount `json:"top_accounts_by_summaries"`
}

// TopAccount is one row of the per-account summary leaderboard.
type TopAccount struct {
	AccountID int64 `json:"account_id"`
	Summaries int64 `json:"summaries"`
	Credits   int   `json:"credits"`
}

var requiredIndexes = []string{
	"idx_summaries_user_video",
	"idx_summaries_user_created",
	"idx_users_refresh_token",
}

func main() {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL must be set")
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Failed to close database: %v", err)
		}
	}()

	report := Report{GeneratedAt: time.Now().UTC().Format(time.RFC3339)}

	counts := map[string]*int64{
		"SELECT COUNT(*) FROM users":                     &report.Accounts,
		"SELECT COUNT(*) FROM summaries":                 &report.Summaries,
		"SELECT COUNT(*) FROM users WHERE credits <= 0":  &report.AccountsNoCredit,
		"SELECT COUNT(*) FROM summaries s LEFT JOIN users u ON u.id = s.user_id WHERE u.id IS NULL": &report.OrphanSummaries,
	}
	for query, dst := range counts {
		if err := db.QueryRow(query).Scan(dst); err != nil {
			log.Fatalf("Query failed (%s): %v", query, err)
		}
	}

	report.MissingIndexes = missingIndexes(db)
	report.TopAccounts = topAccounts(db)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		log.Fatalf("Failed to encode report: %v", err)
	}

	if report.OrphanSummaries > 0 {
		log.Printf("WARNING: %d summaries reference missing accounts", report.OrphanSummaries)
	}
	if len(report.MissingIndexes) > 0 {
		log.Printf("WARNING: missing indexes: %v (run the api binary to apply migrations)", report.MissingIndexes)
	}
}

func missingIndexes(db *sql.DB) []string {
	var missing []string
	for _, name := range requiredIndexes {
		var exists bool
		err := db.QueryRow("SELECT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = $1)", name).Scan(&exists)
		if err != nil {
			log.Fatalf("Index check failed (%s): %v", name, err)
		}
		if !exists {
			missing = append(missing, name)
		}
	}
	return missing
}

func topAccounts(db *sql.DB) []TopAccount {
	rows, err := db.Query(`
SELECT u.id, COUNT(s.id), u.credits
FROM users u
LEFT JOIN summaries s ON s.user_id = u.id
GROUP BY u.id, u.credits
ORDER BY COUNT(s.id) DESC
LIMIT 10`)
	if err != nil {
		log.Fatalf("Top accounts query failed: %v", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Printf("Failed to close rows: %v", err)
		}
	}()

	var top []TopAccount
	for rows.Next() {
		var a TopAccount
		if err := rows.Scan(&a.AccountID, &a.Summaries, &a.Credits); err != nil {
			log.Fatalf("Scan failed: %v", err)
		}
		top = append(top, a)
	}
	if err := rows.Err(); err != nil {
		log.Fatalf("Rows iteration failed: %v", err)
	}
	return top
}
