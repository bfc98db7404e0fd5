package integration

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"closetshare-backend/internal/config"
	"closetshare-backend/internal/domain"
	"closetshare-backend/internal/repository/postgres"
)

var configPath string

func init() {
	flag.StringVar(&configPath, "config", "../../config/config.test.yaml", "path to the test configuration file")
}

// prepareDB loads the test configuration and opens a connection to the
// integration database, retrying while the container comes up. Tests
// share one database; every test generates unique fixture data.
func prepareDB(t *testing.T) *sql.DB {
	if !flag.Parsed() {
		flag.Parse()
	}

	path := configPath
	if _, err := os.Stat(path); err != nil {
		path = filepath.Join("..", "..", configPath)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("failed to load test config %s: %v", path, err)
	}

	connStr := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Database.User, cfg.Database.Password, cfg.Database.Host,
		cfg.Database.Port, cfg.Database.Database, cfg.Database.SSLMode)

	var db *sql.DB
	for i := 0; i < 10; i++ {
		db, err = sql.Open("postgres", connStr)
		if err == nil {
			if err = db.Ping(); err == nil {
				return db
			}
		}
		time.Sleep(2 * time.Second)
	}
	t.Fatalf("could not connect to integration database: %v", err)
	return nil
}

// Fixture helpers. The integration database is shared, so every helper
// generates unique data keyed on the current nanosecond.

func createTestUser(t *testing.T, db *sql.DB, name string) int32 {
	t.Helper()
	var id int32
	email := fmt.Sprintf("%s-%d@closetshare.test", name, time.Now().UnixNano())
	err := db.QueryRow(`INSERT INTO users (name, email, kyc_verified) VALUES ($1, $2, TRUE) RETURNING id`,
		name, email).Scan(&id)
	require.NoError(t, err)
	return id
}

func createTestProduct(t *testing.T, db *sql.DB, ownerID int32) int32 {
	t.Helper()
	var id int32
	title := fmt.Sprintf("Silk Dress %d", time.Now().UnixNano())
	err := db.QueryRow(`INSERT INTO products (owner_id, title, price_per_day_cents, security_deposit_cents)
	                    VALUES ($1, $2, 2000, 6000) RETURNING id`, ownerID, title).Scan(&id)
	require.NoError(t, err)
	return id
}

func createTestRental(t *testing.T, db *sql.DB, productID, renterID, ownerID int32, status domain.RentalStatus, start, end time.Time) *domain.Rental {
	t.Helper()
	rental := &domain.Rental{
		ProductID:            productID,
		RenterID:             renterID,
		OwnerID:              ownerID,
		StartDate:            start,
		EndDate:              end,
		Status:               status,
		RentalAmountCents:    30000,
		SecurityDepositCents: 6000,
		TotalPaidCents:       36000,
	}
	require.NoError(t, postgres.NewRentalRepository(db).Create(context.Background(), rental))
	return rental
}
