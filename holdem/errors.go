package holdem

import (
	"errors"
	"fmt"

	"holdem-arena/card"
)

var (
	ErrHandEnded        = errors.New("hand already ended")
	ErrHandInProgress   = errors.New("hand in progress")
	ErrNoHand           = errors.New("no hand in progress")
	ErrOutOfTurn        = errors.New("action out of turn")
	ErrNotEnoughPlayers = errors.New("not enough players")
	ErrSeatTaken        = errors.New("seat already occupied")
	ErrSeatEmpty        = errors.New("seat is empty")
	ErrDuplicateName    = errors.New("player name already seated")

	// ErrIllegalAction is the only recoverable engine error: the caller should supply another action.
	ErrIllegalAction = errors.New("illegal action")
	// ErrInvalidHand means fewer than five cards reached the evaluator.
	ErrInvalidHand = errors.New("invalid hand")
	// ErrEmptyDeck is re-exported so callers only need this package.
	ErrEmptyDeck = card.ErrEmptyDeck
	// ErrSettlementImbalance means the pot tiers did not add up to the pot; the hand is aborted.
	ErrSettlementImbalance = errors.New("settlement imbalance")
)

type InvalidStateError string

func (e InvalidStateError) Error() string { return "invalid state: " + string(e) }

func ErrInvalidState(msg string) error { return InvalidStateError(msg) }

// IllegalActionError describes a rejected action. It matches ErrIllegalAction
// (and ErrOutOfTurn for turn violations) via errors.Is.
type IllegalActionError struct {
	Seat   int
	Action ActionType
	Amount int64
	Reason string
	cause  error
}

func (e *IllegalActionError) Error() string {
	return fmt.Sprintf("illegal action %s amount=%d by seat %d: %s", e.Action, e.Amount, e.Seat, e.Reason)
}

func (e *IllegalActionError) Unwrap() []error {
	if e.cause != nil {
		return []error{ErrIllegalAction, e.cause}
	}
	return []error{ErrIllegalAction}
}

func illegal(seat int, action ActionType, amount int64, format string, args ...any) error {
	return &IllegalActionError{Seat: seat, Action: action, Amount: amount, Reason: fmt.Sprintf(format, args...)}
}

// SettlementImbalanceError carries the figures of a failed consistency check.
// TierSum stays 0 when the deposits did not match the pot and no tiers were built.
type SettlementImbalanceError struct {
	Pot      int64
	TierSum  int64
	Deposits int64
}

func (e *SettlementImbalanceError) Error() string {
	if e.TierSum == 0 {
		return fmt.Sprintf("settlement imbalance: pot=%d deposits=%d", e.Pot, e.Deposits)
	}
	return fmt.Sprintf("settlement imbalance: pot=%d tiers=%d deposits=%d", e.Pot, e.TierSum, e.Deposits)
}

func (e *SettlementImbalanceError) Unwrap() error { return ErrSettlementImbalance }
