package card

const (
	CardInvalid Card = 0
	CardRear    Card = 0xFF
)

// Spade 黑桃
const (
	CardSpade2 Card = iota + 0x02
	CardSpade3
	CardSpade4
	CardSpade5
	CardSpade6
	CardSpade7
	CardSpade8
	CardSpade9
	CardSpadeT
	CardSpadeJ
	CardSpadeQ
	CardSpadeK
	CardSpadeA
)

// Heart 红心
const (
	CardHeart2 Card = iota + 0x12
	CardHeart3
	CardHeart4
	CardHeart5
	CardHeart6
	CardHeart7
	CardHeart8
	CardHeart9
	CardHeartT
	CardHeartJ
	CardHeartQ
	CardHeartK
	CardHeartA
)

// Club 梅花
const (
	CardClub2 Card = iota + 0x22
	CardClub3
	CardClub4
	CardClub5
	CardClub6
	CardClub7
	CardClub8
	CardClub9
	CardClubT
	CardClubJ
	CardClubQ
	CardClubK
	CardClubA
)

// Diamond 方块
const (
	CardDiamond2 Card = iota + 0x32
	CardDiamond3
	CardDiamond4
	CardDiamond5
	CardDiamond6
	CardDiamond7
	CardDiamond8
	CardDiamond9
	CardDiamondT
	CardDiamondJ
	CardDiamondQ
	CardDiamondK
	CardDiamondA
)

// FullDeck is the unshuffled 52-card deck in suit-major order.
var FullDeck = []Card{
	CardSpade2, CardSpade3, CardSpade4, CardSpade5, CardSpade6, CardSpade7, CardSpade8,
	CardSpade9, CardSpadeT, CardSpadeJ, CardSpadeQ, CardSpadeK, CardSpadeA,
	CardHeart2, CardHeart3, CardHeart4, CardHeart5, CardHeart6, CardHeart7, CardHeart8,
	CardHeart9, CardHeartT, CardHeartJ, CardHeartQ, CardHeartK, CardHeartA,
	CardClub2, CardClub3, CardClub4, CardClub5, CardClub6, CardClub7, CardClub8,
	CardClub9, CardClubT, CardClubJ, CardClubQ, CardClubK, CardClubA,
	CardDiamond2, CardDiamond3, CardDiamond4, CardDiamond5, CardDiamond6, CardDiamond7, CardDiamond8,
	CardDiamond9, CardDiamondT, CardDiamondJ, CardDiamondQ, CardDiamondK, CardDiamondA,
}
