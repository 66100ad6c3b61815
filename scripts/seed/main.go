package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"mailflow/internal/config"
)

// ANSI color codes for terminal output
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

// Command-line flags
var (
	recipientsCount = flag.Int("recipients", 12, "Number of recipients to create per user")
	mailingsCount   = flag.Int("mailings", 3, "Number of mailings to create per user")
	clearData       = flag.Bool("clear", false, "Clear existing seed data before inserting")
	showHelp        = flag.Bool("help", false, "Show usage information")
)

func main() {
	flag.Parse()

	if *showHelp {
		printUsage()
		os.Exit(0)
	}

	// Load .env file (ignore error if not present)
	_ = godotenv.Load()

	printInfo("=== Mailflow Database Seeder ===\n")

	cfg, err := config.Load()
	if err != nil {
		printError(fmt.Sprintf("Failed to load configuration: %v", err))
		os.Exit(1)
	}

	printInfo("Connecting to database...")
	db, err := sql.Open("postgres", cfg.GetDatabaseDSN())
	if err != nil {
		printError(fmt.Sprintf("Failed to open database connection: %v", err))
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		printError(fmt.Sprintf("Failed to ping database: %v", err))
		os.Exit(1)
	}
	printSuccess("✓ Connected to database\n")

	if *clearData {
		if err := clearSeedData(db); err != nil {
			printError(fmt.Sprintf("Failed to clear seed data: %v", err))
			os.Exit(1)
		}
	}

	userIDs, err := seedUsers(db)
	if err != nil {
		printError(fmt.Sprintf("Failed to seed users: %v", err))
		os.Exit(1)
	}

	recipientsCreated, messagesCreated, mailingsCreated := 0, 0, 0
	for _, userID := range userIDs {
		rc, err := seedRecipients(db, userID, *recipientsCount)
		if err != nil {
			printError(fmt.Sprintf("Failed to seed recipients: %v", err))
			os.Exit(1)
		}
		recipientsCreated += rc

		mc, msgIDs, err := seedMessages(db, userID)
		if err != nil {
			printError(fmt.Sprintf("Failed to seed messages: %v", err))
			os.Exit(1)
		}
		messagesCreated += mc

		mlc, err := seedMailings(db, userID, msgIDs, *mailingsCount)
		if err != nil {
			printError(fmt.Sprintf("Failed to seed mailings: %v", err))
			os.Exit(1)
		}
		mailingsCreated += mlc
	}

	printInfo("\n=== Seeding Summary ===")
	printSuccess(fmt.Sprintf("✓ Users created: %d", len(userIDs)))
	printSuccess(fmt.Sprintf("✓ Recipients created: %d", recipientsCreated))
	printSuccess(fmt.Sprintf("✓ Messages created: %d", messagesCreated))
	printSuccess(fmt.Sprintf("✓ Mailings created: %d", mailingsCreated))
	printInfo("\nSeeding completed successfully!")
}

// clearSeedData removes rows created by a previous seeder run
func clearSeedData(db *sql.DB) error {
	printWarning("Clearing existing seed data...")

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Cascades take the seeded recipients' mailing links and attempts
	if _, err := tx.Exec("DELETE FROM recipients WHERE email LIKE '%@seed.mailflow.local'"); err != nil {
		return fmt.Errorf("failed to delete recipients: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM users WHERE email LIKE '%@demo.mailflow.local'"); err != nil {
		return fmt.Errorf("failed to delete users: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	printSuccess("✓ Seed data cleared\n")
	return nil
}

// seedUsers creates the demo accounts: two plain owners, one manager and
// one staff member. All share the password "password123".
func seedUsers(db *sql.DB) ([]int, error) {
	printInfo("Seeding demo users...")

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash seed password: %w", err)
	}

	users := []struct {
		email      string
		username   string
		isStaff    bool
		isManager  bool
		canDisable bool
	}{
		{"alice@demo.mailflow.local", "alice", false, false, false},
		{"bob@demo.mailflow.local", "bob", false, false, false},
		{"manager@demo.mailflow.local", "manager", false, true, true},
		{"staff@demo.mailflow.local", "staff", true, false, true},
	}

	var ownerIDs []int
	for _, u := range users {
		var id int
		err := db.QueryRow(`
			INSERT INTO users (email, username, password_hash, is_staff, is_manager, can_disable_mailing)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (email) DO UPDATE SET username = EXCLUDED.username
			RETURNING id`,
			u.email, u.username, string(hash), u.isStaff, u.isManager, u.canDisable,
		).Scan(&id)
		if err != nil {
			return nil, fmt.Errorf("failed to insert user %s: %w", u.email, err)
		}

		// Only plain owners get sample content
		if !u.isStaff && !u.isManager {
			ownerIDs = append(ownerIDs, id)
		}
	}

	printSuccess(fmt.Sprintf("  ✓ %d users ready", len(users)))
	return ownerIDs, nil
}

// seedRecipients generates recipients for one owner
func seedRecipients(db *sql.DB, ownerID, count int) (int, error) {
	printInfo(fmt.Sprintf("Seeding %d recipients for user %d...", count, ownerID))

	firstNames := []string{"Michael", "Sophia", "James", "Olivia", "Daniel", "Emma", "Benjamin", "Ava", "Lucas", "Mia", "Noah", "Isabella"}
	lastNames := []string{"Anderson", "Brooks", "Carter", "Dawson", "Ellis", "Foster", "Graham", "Hughes", "Irwin", "Jensen", "Klein", "Lawson"}

	created := 0
	for i := 1; i <= count; i++ {
		name := fmt.Sprintf("%s %s", firstNames[i%len(firstNames)], lastNames[(i*3)%len(lastNames)])
		email := fmt.Sprintf("u%d.recipient%02d@seed.mailflow.local", ownerID, i)

		comment := ""
		if i%4 == 0 {
			comment = "imported from newsletter signup"
		}

		_, err := db.Exec(`
			INSERT INTO recipients (email, full_name, comment, owner_id)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (owner_id, email) DO NOTHING`,
			email, name, comment, ownerID,
		)
		if err != nil {
			return created, fmt.Errorf("failed to insert recipient %s: %w", email, err)
		}
		created++
	}

	printSuccess(fmt.Sprintf("  ✓ %d recipients created", created))
	return created, nil
}

// seedMessages creates a few message templates for one owner
func seedMessages(db *sql.DB, ownerID int) (int, []int, error) {
	printInfo(fmt.Sprintf("Seeding messages for user %d...", ownerID))

	templates := []struct {
		subject string
		body    string
	}{
		{"Weekly digest", "Here is what happened this week.\n\nThanks for reading!"},
		{"Product update", "We shipped a new release with fixes you asked for."},
		{"We miss you", "It has been a while. Come check out what is new."},
	}

	var ids []int
	for _, t := range templates {
		var id int
		err := db.QueryRow(`
			INSERT INTO messages (subject, body, owner_id)
			VALUES ($1, $2, $3)
			RETURNING id`,
			t.subject, t.body, ownerID,
		).Scan(&id)
		if err != nil {
			return len(ids), nil, fmt.Errorf("failed to insert message %q: %w", t.subject, err)
		}
		ids = append(ids, id)
	}

	printSuccess(fmt.Sprintf("  ✓ %d messages created", len(ids)))
	return len(ids), ids, nil
}

// seedMailings creates mailings in mixed lifecycle states: one upcoming,
// one currently running, the rest already finished
func seedMailings(db *sql.DB, ownerID int, messageIDs []int, count int) (int, error) {
	printInfo(fmt.Sprintf("Seeding %d mailings for user %d...", count, ownerID))

	now := time.Now()
	created := 0
	for i := 0; i < count && len(messageIDs) > 0; i++ {
		var start, end time.Time
		var status string

		switch i % 3 {
		case 0: // upcoming
			start, end, status = now.Add(24*time.Hour), now.Add(48*time.Hour), "created"
		case 1: // running
			start, end, status = now.Add(-1*time.Hour), now.Add(6*time.Hour), "running"
		default: // finished
			start, end, status = now.Add(-72*time.Hour), now.Add(-48*time.Hour), "finished"
		}

		var mailingID int
		err := db.QueryRow(`
			INSERT INTO mailings (start_time, end_time, status, message_id, owner_id)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id`,
			start, end, status, messageIDs[i%len(messageIDs)], ownerID,
		).Scan(&mailingID)
		if err != nil {
			return created, fmt.Errorf("failed to insert mailing: %w", err)
		}

		// Attach every recipient the owner has
		_, err = db.Exec(`
			INSERT INTO mailing_recipients (mailing_id, recipient_id)
			SELECT $1, id FROM recipients WHERE owner_id = $2`,
			mailingID, ownerID,
		)
		if err != nil {
			return created, fmt.Errorf("failed to link recipients: %w", err)
		}
		created++
	}

	printSuccess(fmt.Sprintf("  ✓ %d mailings created", created))
	return created, nil
}

// Helper functions for colored output

func printSuccess(msg string) {
	fmt.Printf("%s%s%s\n", colorGreen, msg, colorReset)
}

func printError(msg string) {
	fmt.Fprintf(os.Stderr, "%s%s%s\n", colorRed, msg, colorReset)
}

func printInfo(msg string) {
	fmt.Printf("%s%s%s\n", colorCyan, msg, colorReset)
}

func printWarning(msg string) {
	fmt.Printf("%s%s%s\n", colorYellow, msg, colorReset)
}

func printUsage() {
	fmt.Println("Usage: go run ./scripts/seed [flags]")
	fmt.Println("\nFlags:")
	flag.PrintDefaults()
	fmt.Println("\nExamples:")
	fmt.Println("  go run ./scripts/seed")
	fmt.Println("  go run ./scripts/seed -recipients 50 -mailings 5")
	fmt.Println("  go run ./scripts/seed -clear")
}
