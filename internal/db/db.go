package db

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/viper"
)

// Pool represents a connection pool to the PostgreSQL database
var Pool *pgxpool.Pool

// Initialize creates and initializes the PostgreSQL connection pool
func Initialize() {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable search_path=%s",
		viper.GetString("PostgreSQL.Host"),
		viper.GetString("PostgreSQL.Port"),
		viper.GetString("PostgreSQL.User"),
		viper.GetString("PostgreSQL.Password"),
		viper.GetString("PostgreSQL.DBName"),
		viper.GetString("PostgreSQL.Schema"),
	)

	var connectConf, err = pgxpool.ParseConfig(connStr)
	if err != nil {
		log.Fatalf("Unable to parse PostgreSQL config: %v", err)
	}

	connectConf.MaxConns = int32(viper.GetInt("PostgreSQL.PoolMaxConns"))
	connectConf.HealthCheckPeriod = 15 * time.Second
	connectConf.ConnConfig.ConnectTimeout = 5 * time.Second

	// Set timezone to PGX runtime
	if s := os.Getenv("TZ"); s != "" {
		connectConf.ConnConfig.RuntimeParams["timezone"] = s
	}

	Pool, err = pgxpool.NewWithConfig(context.Background(), connectConf)
	if err != nil {
		log.Fatalf("Unable to create PostgreSQL connection pool: %v", err)
	}

	log.Println("Connected to PostgreSQL successfully")
}

// Store exposes the typed queries over the shared pool. It implements the
// user, voucher, catalogue and rate contracts of the bot engine.
type Store struct {
	pool *pgxpool.Pool
}

// New returns a Store over the initialized pool.
func New() *Store {
	return &Store{pool: Pool}
}

// Migrate sets up the database schema
func Migrate() {
	log.Println("Starting database migration...")

	usersSchema := `
    CREATE TABLE IF NOT EXISTS users (
        user_id BIGINT PRIMARY KEY,
        username VARCHAR(255),
        first_name VARCHAR(255),
        last_name VARCHAR(255),
        language_code VARCHAR(10),
        created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
        updated_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
    );`
	mustExec(usersSchema, "users")

	walletsSchema := `
    CREATE TABLE IF NOT EXISTS wallets (
        user_id BIGINT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
        currency VARCHAR(10) NOT NULL,
        address TEXT NOT NULL DEFAULT '',
        secret TEXT NOT NULL DEFAULT '',
        balance NUMERIC(30, 8) NOT NULL DEFAULT 0,
        hold NUMERIC(30, 8) NOT NULL DEFAULT 0,
        updated_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
        PRIMARY KEY (user_id, currency)
    );`
	mustExec(walletsSchema, "wallets")

	checksSchema := `
    CREATE TABLE IF NOT EXISTS checks (
        id SERIAL PRIMARY KEY,
        user_id BIGINT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
        amount NUMERIC(30, 8) NOT NULL,
        currency VARCHAR(10) NOT NULL,
        status VARCHAR(20) NOT NULL DEFAULT 'new',
        code VARCHAR(20) NOT NULL UNIQUE,
        created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
    );
    CREATE INDEX IF NOT EXISTS idx_checks_user_id ON checks(user_id);
    CREATE INDEX IF NOT EXISTS idx_checks_code ON checks(code);`
	mustExec(checksSchema, "checks")

	billsSchema := `
    CREATE TABLE IF NOT EXISTS bills (
        id SERIAL PRIMARY KEY,
        user_id BIGINT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
        amount NUMERIC(30, 8) NOT NULL,
        currency VARCHAR(10) NOT NULL,
        status VARCHAR(20) NOT NULL DEFAULT 'new',
        code VARCHAR(20) NOT NULL UNIQUE,
        created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
    );
    CREATE INDEX IF NOT EXISTS idx_bills_user_id ON bills(user_id);
    CREATE INDEX IF NOT EXISTS idx_bills_code ON bills(code);`
	mustExec(billsSchema, "bills")

	responsesSchema := `
    CREATE TABLE IF NOT EXISTS responses (
        trigger VARCHAR(50) PRIMARY KEY,
        template_id VARCHAR(100) NOT NULL,
        context VARCHAR(50) NOT NULL,
        keyboard_id VARCHAR(50)
    );`
	mustExec(responsesSchema, "responses")

	templatesSchema := `
    CREATE TABLE IF NOT EXISTS templates (
        id VARCHAR(100) PRIMARY KEY,
        text TEXT NOT NULL
    );`
	mustExec(templatesSchema, "templates")

	keyboardsSchema := `
    CREATE TABLE IF NOT EXISTS keyboards (
        id VARCHAR(50) PRIMARY KEY,
        buttons JSONB NOT NULL
    );`
	mustExec(keyboardsSchema, "keyboards")

	botSettingsSchema := `
    CREATE TABLE IF NOT EXISTS bot_settings (
        id INT PRIMARY KEY DEFAULT 1,
        data JSONB NOT NULL,
        updated_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
    );`
	mustExec(botSettingsSchema, "bot_settings")

	ratesSchema := `
    CREATE TABLE IF NOT EXISTS rates (
        currency VARCHAR(10) PRIMARY KEY,
        rate DOUBLE PRECISION NOT NULL,
        updated_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
    );`
	mustExec(ratesSchema, "rates")

	networkFeesSchema := `
    CREATE TABLE IF NOT EXISTS network_fees (
        currency VARCHAR(10) PRIMARY KEY,
        fee DOUBLE PRECISION NOT NULL,
        updated_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
    );`
	mustExec(networkFeesSchema, "network_fees")

	log.Println("Database migration completed successfully")
}

func mustExec(schema, table string) {
	if _, err := Pool.Exec(context.Background(), schema); err != nil {
		log.Fatalf("Failed to migrate %s table: %v", table, err)
	}
}
