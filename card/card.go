package card

import (
	"fmt"
	"strings"
)

// Rank values. Number cards use their face value.
const (
	RankTwo   byte = 2
	RankTen   byte = 10
	RankJack  byte = 11
	RankQueen byte = 12
	RankKing  byte = 13
	RankAce   byte = 14
)

// Card 牌枚举
//
// 编码规则:
// - 高4位: 花色 (0:Spade, 1:Heart, 2:Club, 3:Diamond)
// - 低4位: 点数 (2..9, 10:T, 11:J, 12:Q, 13:K, 14:A)
//
// Card is a comparable value type; two cards are equal iff suit and rank match.
type Card byte

// New builds a card from suit and rank (2..14).
func New(s Suit, rank byte) (Card, error) {
	if s > Diamond {
		return CardInvalid, fmt.Errorf("invalid suit: %d", s)
	}
	if rank < RankTwo || rank > RankAce {
		return CardInvalid, fmt.Errorf("invalid rank: %d", rank)
	}
	return Card(byte(s)<<4 | rank), nil
}

func (c Card) String() string {
	if c == CardInvalid {
		return "Invalid"
	}
	if c == CardRear {
		return "Rear"
	}
	return c.Suit().String() + rankString(c.Rank())
}

// Short returns the two-character form used on the wire ("As", "Td", "7c").
func (c Card) Short() string {
	if !c.Valid() {
		return "??"
	}
	return rankString(c.Rank()) + string(c.Suit().Letter())
}

// Rank 获取牌面值 2-14 (J=11, Q=12, K=13, A=14)
func (c Card) Rank() byte {
	if c == CardInvalid || c == CardRear {
		return 0
	}
	return byte(c & 0x0F)
}

// Suit 花色 (0:Spade, 1:Heart, 2:Club, 3:Diamond)
func (c Card) Suit() Suit {
	return Suit(c >> 4)
}

func (c Card) IsAce() bool {
	return c.Rank() == RankAce
}

// Valid reports whether c encodes one of the 52 real cards.
func (c Card) Valid() bool {
	r := c.Rank()
	return c.Suit() <= Diamond && r >= RankTwo && r <= RankAce
}

func (c Card) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("marshal invalid card 0x%02x", byte(c))
	}
	return []byte(c.Short()), nil
}

func (c *Card) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func rankString(rank byte) string {
	switch rank {
	case RankAce:
		return "A"
	case RankKing:
		return "K"
	case RankQueen:
		return "Q"
	case RankJack:
		return "J"
	case RankTen:
		return "T"
	default:
		return fmt.Sprintf("%d", rank)
	}
}

// Parse 将字符串 (如 "As", "Td", "10h") 转换为 Card
func Parse(cardStr string) (Card, error) {
	cardStr = strings.TrimSpace(cardStr)
	if len(cardStr) < 2 {
		return CardInvalid, fmt.Errorf("invalid card string: %q", cardStr)
	}

	var s Suit
	switch cardStr[len(cardStr)-1] {
	case 's', 'S':
		s = Spade
	case 'h', 'H':
		s = Heart
	case 'c', 'C':
		s = Club
	case 'd', 'D':
		s = Diamond
	default:
		return CardInvalid, fmt.Errorf("invalid suit: %c", cardStr[len(cardStr)-1])
	}

	var rank byte
	switch rankStr := strings.ToUpper(cardStr[:len(cardStr)-1]); rankStr {
	case "A":
		rank = RankAce
	case "K":
		rank = RankKing
	case "Q":
		rank = RankQueen
	case "J":
		rank = RankJack
	case "T", "10":
		rank = RankTen
	case "2", "3", "4", "5", "6", "7", "8", "9":
		rank = rankStr[0] - '0'
	default:
		return CardInvalid, fmt.Errorf("invalid rank: %s", rankStr)
	}
	return New(s, rank)
}

// ParseList parses a whitespace or comma separated card list.
func ParseList(raw string) ([]Card, error) {
	fields := strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ' ' })
	out := make([]Card, 0, len(fields))
	for i, f := range fields {
		c, err := Parse(f)
		if err != nil {
			return nil, fmt.Errorf("card[%d]: %w", i, err)
		}
		out = append(out, c)
	}
	return out, nil
}
