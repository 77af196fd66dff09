package courier

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// Domain errors for courier operations.
var (
	// ErrNameIsRequired is returned when creating a courier without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrCourierIsNotConstructed is returned when using an improperly
	// initialized Courier.
	ErrCourierIsNotConstructed = errors.New("Courier must be created via NewCourier constructor")
)

// Courier is the dispatch engine's view of a delivery courier: identity, last
// reported position, and the wallet the engine settles into. Location updates
// arrive from an external collaborator; within this core the position is a
// read-only snapshot used for eligibility and fee calculation.
type Courier struct {
	id           kernel.UUID
	name         string
	location     kernel.GeoPoint
	lastActiveAt time.Time
	wallet       Wallet
	guard        guard.ConstructorGuard
}

// NewCourier creates a courier snapshot. The location must be a constructed
// GeoPoint and lastActiveAt is the time the courier last reported it.
func NewCourier(
	id kernel.UUID,
	name string,
	location kernel.GeoPoint,
	lastActiveAt time.Time,
	wallet Wallet,
) (*Courier, error) {
	c := &Courier{
		lastActiveAt: lastActiveAt,
		guard:        guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		c.setID(id),
		c.setName(name),
		c.setLocation(location),
		c.setWallet(wallet),
	); err != nil {
		return nil, err
	}

	return c, nil
}

// Validate checks that the Courier was built through NewCourier.
func (c *Courier) Validate() error {
	if c == nil {
		return ErrCourierIsNotConstructed
	}
	return c.guard.Validate(ErrCourierIsNotConstructed)
}

// IsEqual compares couriers by identity.
func (c *Courier) IsEqual(other *Courier) bool {
	return other != nil && c.id.IsEqual(other.id)
}

// ID returns the courier's unique identifier.
func (c *Courier) ID() kernel.UUID {
	return c.id
}

// Name returns the courier's display name.
func (c *Courier) Name() string {
	return c.name
}

// Location returns the last reported position.
func (c *Courier) Location() kernel.GeoPoint {
	return c.location
}

// LastActiveAt returns the time of the last location report.
func (c *Courier) LastActiveAt() time.Time {
	return c.lastActiveAt
}

// Wallet returns the courier's wallet snapshot.
func (c *Courier) Wallet() Wallet {
	return c.wallet
}

// ActiveWithin reports whether the courier reported a location within window
// before now. Couriers outside the recency window are not eligible for new
// broadcasts.
func (c *Courier) ActiveWithin(window time.Duration, now time.Time) bool {
	return !c.lastActiveAt.Before(now.Add(-window))
}

// DistanceKmTo returns the great-circle distance from the courier's last
// position to point, in kilometers.
func (c *Courier) DistanceKmTo(point kernel.GeoPoint) (float64, error) {
	return c.location.DistanceKm(point)
}

// ReportLocation records a fresh position report, refreshing the activity
// timestamp used for broadcast eligibility.
func (c *Courier) ReportLocation(location kernel.GeoPoint, at time.Time) error {
	if err := c.setLocation(location); err != nil {
		return err
	}
	c.lastActiveAt = at
	return nil
}

// CreditEarnings credits a delivery fee into the courier's wallet.
func (c *Courier) CreditEarnings(fee float64, now time.Time) error {
	credited, err := c.wallet.CreditEarnings(fee, now)
	if err != nil {
		return err
	}
	c.wallet = credited
	return nil
}

// ApplyPenalty debits a no-response penalty, flooring the balance at zero.
func (c *Courier) ApplyPenalty(amount float64) error {
	debited, err := c.wallet.ApplyPenalty(amount)
	if err != nil {
		return err
	}
	c.wallet = debited
	return nil
}

// Withdraw debits a payout request from the wallet balance.
func (c *Courier) Withdraw(amount float64) error {
	debited, err := c.wallet.Withdraw(amount)
	if err != nil {
		return err
	}
	c.wallet = debited
	return nil
}

// setID sets the courier's identifier with validation.
func (c *Courier) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

// setName sets the courier's name with validation.
func (c *Courier) setName(name string) error {
	if name == "" {
		return ErrNameIsRequired
	}
	c.name = name
	return nil
}

// setLocation sets the last reported position with validation.
func (c *Courier) setLocation(location kernel.GeoPoint) error {
	if err := location.Validate(); err != nil {
		return err
	}
	c.location = location
	return nil
}

// setWallet sets the wallet snapshot with validation.
func (c *Courier) setWallet(wallet Wallet) error {
	if err := wallet.Validate(); err != nil {
		return err
	}
	c.wallet = wallet
	return nil
}
