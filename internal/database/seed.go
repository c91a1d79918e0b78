package database

import (
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

// DemoCompanyID is the tenant used for first-boot seed data
const DemoCompanyID = "demo-transport"

func SeedUsers(db *sqlx.DB) error {
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM users"); err != nil {
		return err
	}

	if count > 0 {
		log.Println("✓ Users already seeded, skipping...")
		return nil
	}

	log.Println("🌱 Seeding admin user...")

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	query := `INSERT INTO users (id, company_id, email, password, name, role)
			  VALUES ($1, $2, $3, $4, $5, $6)`
	_, err = db.Exec(query, uuid.New().String(), DemoCompanyID,
		"admin@fleetdesk.local", string(hash), "Admin", "admin")
	return err
}

func SeedFleet(db *sqlx.DB) error {
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM drivers"); err != nil {
		return err
	}

	if count > 0 {
		log.Println("✓ Fleet already seeded, skipping...")
		return nil
	}

	log.Println("🌱 Seeding demo fleet...")

	drivers := []struct {
		name, email, address, postcode string
		maxHours                       int
	}{
		{"Tom Hartley", "tom@fleetdesk.local", "14 Roundhay Rd, Leeds", "LS8 4DX", 45},
		{"Priya Shah", "priya@fleetdesk.local", "3 Kirkstall Ln, Leeds", "LS5 3BE", 40},
		{"Marek Kowalski", "marek@fleetdesk.local", "77 Dewsbury Rd, Leeds", "LS11 5LB", 48},
	}

	query := `INSERT INTO drivers (id, company_id, name, email, home_address, postcode, max_hours_per_week)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for _, d := range drivers {
		if _, err := db.Exec(query, uuid.New().String(), DemoCompanyID,
			d.name, d.email, d.address, d.postcode, d.maxHours); err != nil {
			return err
		}
	}

	log.Printf("✅ Seeded %d drivers", len(drivers))
	return seedTrips(db)
}

// seedTrips books a handful of unassigned trips for tomorrow so the
// auto-assigner has something to work with on a fresh install
func seedTrips(db *sqlx.DB) error {
	date := time.Now().AddDate(0, 0, 1).Format("2006-01-02")

	trips := []struct {
		pickupTime, pickup, postcode, destination, customer string
		duration                                            int
	}{
		{"08:30", "Leeds General Infirmary, Great George St", "LS1 3EX", "21 Harehills Ln, Leeds", "J. Whitfield", 45},
		{"09:15", "4 Otley Rd, Headingley", "LS6 2UE", "Leeds Bradford Airport", "S. Okafor", 60},
		{"11:00", "St James's Hospital, Beckett St", "LS9 7TF", "102 York Rd, Leeds", "M. Drummond", 30},
		{"14:45", "White Rose Centre, Dewsbury Rd", "LS11 8LU", "8 Town St, Armley", "A. Begum", 40},
	}

	query := `INSERT INTO trips (id, company_id, date, pickup_time, duration_minutes,
			  pickup_address, pickup_postcode, destination_address, customer_name)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for _, t := range trips {
		if _, err := db.Exec(query, uuid.New().String(), DemoCompanyID, date,
			t.pickupTime, t.duration, t.pickup, t.postcode, t.destination, t.customer); err != nil {
			return err
		}
	}

	log.Printf("✅ Seeded %d demo trips for %s", len(trips), date)
	return nil
}
