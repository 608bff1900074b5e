package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"holdem-arena/holdem"
	"holdem-arena/ledger"
)

// HandSpec describes one hand to be replayed: table, seats, the cards that must
// appear (or a full deck) and the scripted actions in order.
type HandSpec struct {
	Variant    string       `json:"variant"`
	Table      TableSpec    `json:"table"`
	DealerSeat int          `json:"dealer_seat"`
	Seats      []SeatSpec   `json:"seats"`
	Board      *BoardSpec   `json:"board,omitempty"`
	Deck       []string     `json:"deck,omitempty"`
	Actions    []ActionSpec `json:"actions"`
	RNG        *RNGSpec     `json:"rng,omitempty"`
}

type TableSpec struct {
	MaxPlayers int   `json:"max_players"`
	SB         int64 `json:"sb"`
	BB         int64 `json:"bb"`
	MinRaise   int64 `json:"min_raise,omitempty"`
}

type SeatSpec struct {
	Seat  int      `json:"seat"`
	Name  string   `json:"name,omitempty"`
	Chips int64    `json:"chips"`
	Hole  []string `json:"hole,omitempty"`
}

type BoardSpec struct {
	Flop  []string `json:"flop,omitempty"`
	Turn  *string  `json:"turn,omitempty"`
	River *string  `json:"river,omitempty"`
}

// ActionSpec is one scripted action. Amount is the chips put in by a RAISE;
// other actions ignore it. Stage may be empty to skip the stage check.
type ActionSpec struct {
	Stage  string `json:"stage,omitempty"`
	Seat   int    `json:"seat"`
	Type   string `json:"type"`
	Amount int64  `json:"amount,omitempty"`
	Reason string `json:"reason,omitempty"`
}

type RNGSpec struct {
	Seed int64 `json:"seed"`
}

// Tape is the deterministic output of a replay: the hand's audit records in
// their stored encoding.
type Tape struct {
	TapeVersion int                `json:"tape_version"`
	TableID     string             `json:"table_id"`
	Complete    bool               `json:"complete"`
	Events      []ledger.Event     `json:"events"`
	Result      *holdem.GameResult `json:"result,omitempty"`
}

// Records decodes the tape events back into audit records.
func (t *Tape) Records() ([]holdem.AuditRecord, error) {
	if t == nil {
		return nil, nil
	}
	return ledger.DecodeEvents(t.Events)
}

func ParseHandSpec(raw []byte) (HandSpec, error) {
	var spec HandSpec
	if err := json.Unmarshal(raw, &spec); err != nil {
		return spec, fmt.Errorf("parse hand spec: %w", err)
	}
	return spec, nil
}

func LoadHandSpec(path string) (HandSpec, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return HandSpec{}, err
	}
	return ParseHandSpec(raw)
}
