package holdem

import (
	"fmt"
	"strings"
)

// InvalidSeat marks "no seat" (no actor, no dealer yet).
const InvalidSeat = -1

// Stage 游戏阶段
type Stage byte

const (
	StageNone     Stage = 0
	StagePreflop  Stage = 1
	StageFlop     Stage = 2
	StageTurn     Stage = 3
	StageRiver    Stage = 4
	StageShowdown Stage = 5
)

var StageDictionary = map[Stage]string{
	StageNone:     "none",
	StagePreflop:  "preflop",
	StageFlop:     "flop",
	StageTurn:     "turn",
	StageRiver:    "river",
	StageShowdown: "showdown",
}

func (s Stage) String() string {
	if name, ok := StageDictionary[s]; ok {
		return name
	}
	return fmt.Sprintf("stage(%d)", byte(s))
}

func (s Stage) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Stage) UnmarshalText(text []byte) error {
	parsed, err := ParseStage(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func ParseStage(raw string) (Stage, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	for s, name := range StageDictionary {
		if name == key {
			return s, nil
		}
	}
	return StageNone, fmt.Errorf("unsupported stage %q", raw)
}

// communityCardsFor 每个阶段开始时需要发出的公共牌数量
func communityCardsFor(s Stage) int {
	switch s {
	case StageFlop:
		return 3
	case StageTurn, StageRiver:
		return 1
	}
	return 0
}

// ActionType 动作类型
//
// SmallBlind/BigBlind only appear in the action log; they are never accepted by Act.
type ActionType byte

const (
	ActionNone       ActionType = 0
	ActionFold       ActionType = 1
	ActionCheck      ActionType = 2
	ActionCall       ActionType = 3
	ActionRaise      ActionType = 4
	ActionAllIn      ActionType = 5
	ActionSmallBlind ActionType = 6
	ActionBigBlind   ActionType = 7
)

var ActionTypeDictionary = map[ActionType]string{
	ActionNone:       "NONE",
	ActionFold:       "FOLD",
	ActionCheck:      "CHECK",
	ActionCall:       "CALL",
	ActionRaise:      "RAISE",
	ActionAllIn:      "ALL_IN",
	ActionSmallBlind: "SMALL_BLIND",
	ActionBigBlind:   "BIG_BLIND",
}

func (a ActionType) String() string {
	if name, ok := ActionTypeDictionary[a]; ok {
		return name
	}
	return fmt.Sprintf("action(%d)", byte(a))
}

func (a ActionType) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

func (a *ActionType) UnmarshalText(text []byte) error {
	parsed, err := ParseActionType(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// IsPlayerAction reports whether a can be submitted by a player.
func (a ActionType) IsPlayerAction() bool {
	return a >= ActionFold && a <= ActionAllIn
}

func ParseActionType(raw string) (ActionType, error) {
	key := strings.ToUpper(strings.TrimSpace(raw))
	switch key {
	case "ALLIN", "ALL-IN":
		key = "ALL_IN"
	}
	for a, name := range ActionTypeDictionary {
		if name == key {
			return a, nil
		}
	}
	return ActionNone, fmt.Errorf("unsupported action type %q", raw)
}

// HandCategory 牌型，数值越大越强
type HandCategory byte

const (
	HandHighCard      HandCategory = iota + 1 // 高牌
	HandOnePair                               // 一对
	HandTwoPair                               // 两对
	HandThreeOfKind                           // 三条
	HandStraight                              // 顺子
	HandFlush                                 // 同花
	HandFullHouse                             // 葫芦
	HandFourOfKind                            // 四条
	HandStraightFlush                         // 同花顺
	HandRoyalFlush                            // 皇家同花顺
)

var HandCategoryDictionary = map[HandCategory]string{
	HandHighCard:      "HIGH_CARD",
	HandOnePair:       "ONE_PAIR",
	HandTwoPair:       "TWO_PAIR",
	HandThreeOfKind:   "THREE_OF_A_KIND",
	HandStraight:      "STRAIGHT",
	HandFlush:         "FLUSH",
	HandFullHouse:     "FULL_HOUSE",
	HandFourOfKind:    "FOUR_OF_A_KIND",
	HandStraightFlush: "STRAIGHT_FLUSH",
	HandRoyalFlush:    "ROYAL_FLUSH",
}

func (h HandCategory) String() string {
	if name, ok := HandCategoryDictionary[h]; ok {
		return name
	}
	return fmt.Sprintf("category(%d)", byte(h))
}

func (h HandCategory) MarshalText() ([]byte, error) { return []byte(h.String()), nil }

func (h *HandCategory) UnmarshalText(text []byte) error {
	key := strings.ToUpper(strings.TrimSpace(string(text)))
	for c, name := range HandCategoryDictionary {
		if name == key {
			*h = c
			return nil
		}
	}
	return fmt.Errorf("unsupported hand category %q", string(text))
}
