package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrReportLocationCommandIsNotConstructed = errors.New(
	"ReportLocationCommand must be created via NewReportLocationCommand constructor",
)

// ReportLocationCommand carries a courier's periodic position report.
// Reports keep the courier inside the activity window that broadcast
// eligibility depends on.
type ReportLocationCommand struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID
	latitude  float64
	longitude float64

	guard guard.ConstructorGuard
}

// NewReportLocationCommand creates a command to record a position report.
func NewReportLocationCommand(courierID kernel.UUID, latitude, longitude float64) (ReportLocationCommand, error) {
	command := ReportLocationCommand{
		latitude:  latitude,
		longitude: longitude,
		guard:     guard.NewConstructorGuard(),
	}

	if err := command.setCourierID(courierID); err != nil {
		return ReportLocationCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c ReportLocationCommand) Validate() error {
	return c.guard.Validate(ErrReportLocationCommandIsNotConstructed)
}

// CourierID returns the reporting courier.
func (c ReportLocationCommand) CourierID() kernel.UUID {
	return c.courierID
}

// Latitude returns the reported latitude.
func (c ReportLocationCommand) Latitude() float64 {
	return c.latitude
}

// Longitude returns the reported longitude.
func (c ReportLocationCommand) Longitude() float64 {
	return c.longitude
}

func (c *ReportLocationCommand) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	c.courierID = courierID
	return nil
}
