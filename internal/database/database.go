package database

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func Connect(dbURL string) (*sqlx.DB, error) {
	log.Println("🔌 Connecting to Postgres...")

	db, err := sqlx.Connect("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("✅ Database connection established")
	return db, nil
}

func Migrate(db *sqlx.DB) error {
	migrations := []string{
		// Back-office users (dispatchers and admins)
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			company_id TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			name TEXT NOT NULL,
			role TEXT NOT NULL CHECK(role IN ('dispatcher', 'admin')),
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		// Drivers
		`CREATE TABLE IF NOT EXISTS drivers (
			id TEXT PRIMARY KEY,
			company_id TEXT NOT NULL,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			home_address TEXT NOT NULL DEFAULT '',
			postcode TEXT NOT NULL DEFAULT '',
			max_hours_per_week INT NOT NULL DEFAULT 40,
			assigned_vehicle TEXT,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		// Trips; driver_id stays NULL until a dispatcher or the auto-assigner commits one
		`CREATE TABLE IF NOT EXISTS trips (
			id TEXT PRIMARY KEY,
			company_id TEXT NOT NULL,
			date TEXT NOT NULL,
			pickup_time TEXT NOT NULL,
			duration_minutes INT,
			pickup_address TEXT NOT NULL,
			pickup_postcode TEXT,
			destination_address TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'scheduled'
				CHECK(status IN ('scheduled', 'in_progress', 'completed', 'cancelled', 'no_show')),
			driver_id TEXT REFERENCES drivers(id),
			distance_miles DOUBLE PRECISION,
			customer_name TEXT,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		// Leave requests
		`CREATE TABLE IF NOT EXISTS leave_requests (
			id TEXT PRIMARY KEY,
			company_id TEXT NOT NULL,
			driver_id TEXT NOT NULL REFERENCES drivers(id),
			start_date TEXT NOT NULL,
			end_date TEXT NOT NULL,
			status TEXT NOT NULL CHECK(status IN ('approved', 'pending')),
			leave_type TEXT NOT NULL DEFAULT 'holiday',
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		// FCM device tokens for assignment push notifications
		`CREATE TABLE IF NOT EXISTS fcm_tokens (
			id SERIAL PRIMARY KEY,
			driver_id TEXT NOT NULL REFERENCES drivers(id),
			token TEXT NOT NULL UNIQUE,
			device_type TEXT NOT NULL DEFAULT 'android',
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		`CREATE INDEX IF NOT EXISTS idx_trips_company_date ON trips(company_id, date)`,
		`CREATE INDEX IF NOT EXISTS idx_trips_driver_date ON trips(driver_id, date)`,
		`CREATE INDEX IF NOT EXISTS idx_leave_driver ON leave_requests(driver_id, start_date, end_date)`,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	log.Printf("✅ Ran %d migrations", len(migrations))
	return nil
}
