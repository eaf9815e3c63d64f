// internal/core/domain/motorcycle.go
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Motorcycle is the vehicle a maintenance is performed on. The fleet catalog owns it;
// this service only reads it.
type Motorcycle struct {
	ID           uuid.UUID `json:"id"`
	Brand        string    `json:"brand"`
	Model        string    `json:"model"`
	Year         int       `json:"year"`
	VIN          string    `json:"vin"`
	LicensePlate string    `json:"license_plate,omitempty"`
	Mileage      int       `json:"mileage"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DisplayName is used in notifications
func (m Motorcycle) DisplayName() string {
	if m.LicensePlate != "" {
		return m.Brand + " " + m.Model + " (" + m.LicensePlate + ")"
	}
	return m.Brand + " " + m.Model
}
