package models

import "strings"

// Driver represents a driver employed by a transport operator
type Driver struct {
	ID               string  `json:"id" db:"id"`
	CompanyID        string  `json:"company_id" db:"company_id"`
	Name             string  `json:"name" db:"name"`
	Email            string  `json:"email" db:"email"`
	Active           bool    `json:"active" db:"active"`
	HomeAddress      string  `json:"home_address" db:"home_address"`
	Postcode         string  `json:"postcode" db:"postcode"`
	MaxHoursPerWeek  int     `json:"max_hours_per_week" db:"max_hours_per_week"`
	AssignedVehicle  *string `json:"assigned_vehicle" db:"assigned_vehicle"`
	CreatedAt        int64   `json:"created_at" db:"created_at"`
	UpdatedAt        int64   `json:"updated_at" db:"updated_at"`
}

// OutwardCode returns the area+district portion of a UK postcode
// ("LS1 4DT" -> "LS1"). Empty when no postcode is recorded.
func (d *Driver) OutwardCode() string {
	return OutwardCode(d.Postcode)
}

// OutwardCode extracts the outward portion of a UK postcode, used as a
// coarse proximity signal between a driver's home area and a pickup.
func OutwardCode(postcode string) string {
	pc := strings.ToUpper(strings.TrimSpace(postcode))
	if pc == "" {
		return ""
	}
	if i := strings.IndexByte(pc, ' '); i > 0 {
		return pc[:i]
	}
	// No space: treat everything up to the final three characters as outward
	if len(pc) > 3 {
		return pc[:len(pc)-3]
	}
	return pc
}
