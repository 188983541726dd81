package domain

import (
	"github.com/shopspring/decimal"
)

// Transfer is a proposed payment from a debtor to a creditor.
type Transfer struct {
	From   ParticipantRef
	To     ParticipantRef
	Amount decimal.Decimal
}

// Validate validates a proposed transfer.
func (t *Transfer) Validate() error {
	if t.From.Index == t.To.Index {
		return ErrSameParticipant
	}

	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	return nil
}
