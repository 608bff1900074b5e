package replay

import (
	"fmt"

	"holdem-arena/holdem"
)

// ReplayError pinpoints the step of a HandSpec that could not be applied.
// StepIndex is -1 for errors in the table or card setup.
type ReplayError struct {
	StepIndex int            `json:"step_index"`
	Reason    string         `json:"reason"`
	Message   string         `json:"message"`
	Expected  *ExpectedState `json:"expected,omitempty"`
}

// ExpectedState is what the engine was waiting for at the failing step.
type ExpectedState struct {
	ActionSeat   int                 `json:"action_seat"`
	LegalActions []holdem.ActionType `json:"legal_actions,omitempty"`
	CallAmount   int64               `json:"call_amount,omitempty"`
	MinRaise     int64               `json:"min_raise,omitempty"`
	MaxRaise     int64               `json:"max_raise,omitempty"`
	Stage        string              `json:"stage,omitempty"`
}

func (e *ReplayError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("replay error(step=%d reason=%s): %s", e.StepIndex, e.Reason, e.Message)
}

func setupError(reason, format string, args ...any) *ReplayError {
	return &ReplayError{StepIndex: -1, Reason: reason, Message: fmt.Sprintf(format, args...)}
}
