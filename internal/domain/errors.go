package domain

import "errors"

var (
	// Participant errors
	ErrParticipantNotFound  = errors.New("participant not found")
	ErrDuplicateParticipant = errors.New("participant already exists")
	ErrExpenseNotFound      = errors.New("expense not found")
	ErrPaymentNotFound      = errors.New("payment not found")

	// Transfer errors
	ErrSameParticipant = errors.New("cannot transfer to same participant")
	ErrInvalidAmount   = errors.New("amount must be a finite non-negative number")

	// Sheet errors
	ErrSheetNotFound    = errors.New("sheet not found")
	ErrUnbalancedLedger = errors.New("total payments and total item values do not match")
)
