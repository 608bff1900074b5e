package holdem

import "holdem-arena/card"

// RecordKind names an audit record variant.
type RecordKind string

const (
	RecordHandStart  RecordKind = "hand_start"
	RecordStageStart RecordKind = "stage_start"
	RecordAction     RecordKind = "action"
	RecordShowdown   RecordKind = "showdown"
	RecordPotAward   RecordKind = "pot_award"
)

// AuditRecord is one entry of the append-only table log. Exactly one payload is set, matching Kind.
type AuditRecord struct {
	Seq        int64      `json:"seq"`
	HandNumber int        `json:"hand_number"`
	Kind       RecordKind `json:"kind"`

	HandStart  *HandStartRecord  `json:"hand_start,omitempty"`
	StageStart *StageStartRecord `json:"stage_start,omitempty"`
	Action     *ActionRecord     `json:"action,omitempty"`
	Showdown   *ShowdownRecord   `json:"showdown,omitempty"`
	PotAward   *PotAwardRecord   `json:"pot_award,omitempty"`
}

type SeatStack struct {
	Seat  int    `json:"seat"`
	Name  string `json:"name"`
	Chips int64  `json:"chips"`
}

type HandStartRecord struct {
	Dealer         int         `json:"dealer"`
	SmallBlindSeat int         `json:"small_blind_seat"`
	BigBlindSeat   int         `json:"big_blind_seat"`
	SmallBlind     int64       `json:"small_blind"`
	BigBlind       int64       `json:"big_blind"`
	Players        []SeatStack `json:"players"`
}

type StageStartRecord struct {
	Stage          Stage       `json:"stage"`
	CommunityCards []card.Card `json:"community_cards"`
	Pot            int64       `json:"pot"`
}

// ActionRecord is an action_history entry: the state after the action was applied.
type ActionRecord struct {
	Stage      Stage      `json:"stage"`
	Seat       int        `json:"seat"`
	Player     string     `json:"player"`
	Action     ActionType `json:"action"`
	Amount     int64      `json:"amount"`
	PotAfter   int64      `json:"pot_after"`
	ChipsAfter int64      `json:"chips_after"`
	Reason     string     `json:"reason,omitempty"`
	Behavior   string     `json:"behavior,omitempty"`
}

type ShowdownHand struct {
	Seat        int          `json:"seat"`
	Name        string       `json:"name"`
	Hole        []card.Card  `json:"hole"`
	Category    HandCategory `json:"category"`
	Tiebreak    []int        `json:"tiebreak"`
	Best        []card.Card  `json:"best"`
	Description string       `json:"description,omitempty"`
}

type ShowdownRecord struct {
	CommunityCards []card.Card    `json:"community_cards"`
	Hands          []ShowdownHand `json:"hands"`
}

type Payout struct {
	Seat   int    `json:"seat"`
	Name   string `json:"name"`
	Amount int64  `json:"amount"`
}

type PotAwardRecord struct {
	Pot         int64       `json:"pot"`
	Uncontested bool        `json:"uncontested"`
	Tiers       []TierAward `json:"tiers"`
	Payouts     []Payout    `json:"payouts"`
}

// clone 深拷贝，外部拿到的日志不能改动引擎内部状态
func (r AuditRecord) clone() AuditRecord {
	out := r
	if r.HandStart != nil {
		hs := *r.HandStart
		hs.Players = append([]SeatStack(nil), hs.Players...)
		out.HandStart = &hs
	}
	if r.StageStart != nil {
		ss := *r.StageStart
		ss.CommunityCards = append([]card.Card(nil), ss.CommunityCards...)
		out.StageStart = &ss
	}
	if r.Action != nil {
		a := *r.Action
		out.Action = &a
	}
	if r.Showdown != nil {
		sd := *r.Showdown
		sd.CommunityCards = append([]card.Card(nil), sd.CommunityCards...)
		sd.Hands = make([]ShowdownHand, len(r.Showdown.Hands))
		for i, h := range r.Showdown.Hands {
			h.Hole = append([]card.Card(nil), h.Hole...)
			h.Tiebreak = append([]int(nil), h.Tiebreak...)
			h.Best = append([]card.Card(nil), h.Best...)
			sd.Hands[i] = h
		}
		out.Showdown = &sd
	}
	if r.PotAward != nil {
		pa := *r.PotAward
		pa.Payouts = append([]Payout(nil), pa.Payouts...)
		pa.Tiers = cloneTiers(r.PotAward.Tiers)
		out.PotAward = &pa
	}
	return out
}

func cloneRecords(records []AuditRecord) []AuditRecord {
	out := make([]AuditRecord, len(records))
	for i, r := range records {
		out[i] = r.clone()
	}
	return out
}
