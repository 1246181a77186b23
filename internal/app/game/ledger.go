package game

import (
	"mobhub/internal/app/user"
	"mobhub/internal/pkg/errs"
)

// Receipt describes a settled or attempted transfer.
type Receipt struct {
	From   *user.Record
	To     *user.Record
	Amount int
}

// Ledger moves GP between mutual friends.
type Ledger struct {
	resolve user.Resolver
}

// NewLedger returns a Ledger resolving friend references through resolve.
func NewLedger(resolve user.Resolver) *Ledger {
	return &Ledger{resolve: resolve}
}

// Transfer moves amount GP from sender to the friend named recipientName.
//
// A zero amount does nothing and returns an empty Receipt. A negative amount
// fails with ErrInvalidAmount. A recipient outside the sender's friend list fails
// with ErrFriendNotFound, and an amount above the sender's cash fails with
// ErrInsufficientFunds; in that case the returned Receipt still names the recipient
// so both parties can be told. Failed transfers never change balances.
func (l *Ledger) Transfer(sender *user.Record, recipientName string, amount int) (Receipt, error) {
	if amount < 0 {
		return Receipt{}, errs.NewError(errs.ErrInvalidAmount)
	}
	if amount == 0 {
		return Receipt{}, nil
	}

	recipient, ok := sender.FindFriend(recipientName, l.resolve)
	if !ok {
		return Receipt{}, errs.NewError(errs.ErrFriendNotFound, recipientName)
	}

	receipt := Receipt{From: sender, To: recipient, Amount: amount}
	if amount > sender.Cash {
		return receipt, errs.NewError(errs.ErrInsufficientFunds)
	}

	sender.Cash -= amount
	recipient.Cash += amount

	return receipt, nil
}
