package card

import "strings"

type CardList []Card

// Count 获取总牌数
func (cl CardList) Count() int {
	return len(cl)
}

func (cl CardList) Contains(c Card) bool {
	for _, cc := range cl {
		if cc == c {
			return true
		}
	}
	return false
}

func (cl *CardList) Add(cards ...Card) {
	*cl = append(*cl, cards...)
}

// Clone returns an independent copy so callers cannot alias engine state.
func (cl CardList) Clone() CardList {
	if cl == nil {
		return nil
	}
	out := make(CardList, len(cl))
	copy(out, cl)
	return out
}

func (cl CardList) Strings() []string {
	out := make([]string, 0, len(cl))
	for _, c := range cl {
		out = append(out, c.Short())
	}
	return out
}

func (cl CardList) String() string {
	parts := make([]string, 0, len(cl))
	for _, c := range cl {
		parts = append(parts, c.String())
	}
	return strings.Join(parts, " ")
}
