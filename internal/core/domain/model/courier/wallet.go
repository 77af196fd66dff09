package courier

import (
	"math"
	"time"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// ErrWalletIsNotConstructed is returned when using an improperly initialized
// Wallet. Wallets must be created via NewWallet or RestoreWallet.
var ErrWalletIsNotConstructed = errs.NewValueIsRequiredError(
	"wallet must be created via NewWallet or RestoreWallet constructors")

// Wallet is an immutable value object holding a courier's balance and earnings
// counters. Mutation methods return the updated wallet rather than modifying
// the receiver; persistence serializes per-courier so the read-modify-write is
// atomic at the store.
//
// Invariants:
//   - balance never goes negative: withdrawals are rejected when insufficient,
//     penalty debits floor at zero
//   - todayEarnings resets when earningsResetDate is not the current day
type Wallet struct {
	balance           float64
	totalEarnings     float64
	todayEarnings     float64
	earningsResetDate time.Time
	guard             guard.ConstructorGuard
}

// NewWallet creates an empty wallet with the reset marker set to now.
func NewWallet(now time.Time) Wallet {
	return Wallet{
		earningsResetDate: now,
		guard:             guard.NewConstructorGuard(),
	}
}

// RestoreWallet reconstructs a wallet from persistent storage. All monetary
// fields must be non-negative.
func RestoreWallet(balance, totalEarnings, todayEarnings float64, earningsResetDate time.Time) (Wallet, error) {
	if balance < 0 {
		return Wallet{}, errs.NewValueIsOutOfRangeError("balance", balance, 0.0, math.MaxFloat64)
	}
	if totalEarnings < 0 {
		return Wallet{}, errs.NewValueIsOutOfRangeError("total earnings", totalEarnings, 0.0, math.MaxFloat64)
	}
	if todayEarnings < 0 {
		return Wallet{}, errs.NewValueIsOutOfRangeError("today earnings", todayEarnings, 0.0, math.MaxFloat64)
	}

	return Wallet{
		balance:           balance,
		totalEarnings:     totalEarnings,
		todayEarnings:     todayEarnings,
		earningsResetDate: earningsResetDate,
		guard:             guard.NewConstructorGuard(),
	}, nil
}

// Validate checks that the Wallet was built through a constructor.
func (w Wallet) Validate() error {
	return w.guard.Validate(ErrWalletIsNotConstructed)
}

// Balance returns the spendable balance.
func (w Wallet) Balance() float64 {
	return w.balance
}

// TotalEarnings returns the lifetime earnings counter.
func (w Wallet) TotalEarnings() float64 {
	return w.totalEarnings
}

// TodayEarnings returns the earnings counter for earningsResetDate's day.
func (w Wallet) TodayEarnings() float64 {
	return w.todayEarnings
}

// EarningsResetDate returns the day todayEarnings counts toward.
func (w Wallet) EarningsResetDate() time.Time {
	return w.earningsResetDate
}

// CreditEarnings credits a delivery fee to the balance and both earnings
// counters. When the reset marker is from an earlier day than now, the daily
// counter rolls over to zero before crediting, so todayEarnings only reflects
// the current day.
func (w Wallet) CreditEarnings(fee float64, now time.Time) (Wallet, error) {
	if err := w.Validate(); err != nil {
		return Wallet{}, err
	}

	if fee <= 0 {
		return Wallet{}, errs.NewValueIsRequiredError("fee")
	}

	credited := w
	if !sameDay(w.earningsResetDate, now) {
		credited.todayEarnings = 0
		credited.earningsResetDate = now
	}

	credited.balance += fee
	credited.totalEarnings += fee
	credited.todayEarnings += fee
	return credited, nil
}

// ApplyPenalty debits amount from the balance, flooring at zero. Earnings
// counters are untouched: a penalty is not negative earnings.
func (w Wallet) ApplyPenalty(amount float64) (Wallet, error) {
	if err := w.Validate(); err != nil {
		return Wallet{}, err
	}

	if amount <= 0 {
		return Wallet{}, errs.NewValueIsRequiredError("penalty amount")
	}

	debited := w
	debited.balance = math.Max(0, w.balance-amount)
	return debited, nil
}

// Withdraw debits amount from the balance. Rejected with an out-of-range error
// when the balance is insufficient, so the balance never goes negative.
func (w Wallet) Withdraw(amount float64) (Wallet, error) {
	if err := w.Validate(); err != nil {
		return Wallet{}, err
	}

	if amount <= 0 {
		return Wallet{}, errs.NewValueIsInvalidError("withdraw amount")
	}

	if amount > w.balance {
		return Wallet{}, errs.NewValueIsOutOfRangeError("withdraw amount", amount, 0.0, w.balance)
	}

	debited := w
	debited.balance -= amount
	return debited, nil
}

// sameDay compares calendar days, not clock times.
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
