package holdem

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"holdem-arena/card"
)

// Game is a single-table Hold'em engine. It is driven one action at a time by the
// caller (or by PlayHand) and owns all table and player state.
type Game struct {
	cfg Config
	log logrus.FieldLogger
	rng *rand.Rand

	mu sync.Mutex

	// seats, index == seat number
	seats []*Player

	// hand state
	handNumber int
	stage      Stage
	deck       *card.Deck
	community  card.CardList
	pot        int64
	currentBet int64

	dealer     int
	smallBlind int
	bigBlind   int
	current    int

	ended bool
	// broken is set when an engine invariant fails; the table refuses further play.
	broken error

	history    []ActionRecord // current hand only
	audit      []AuditRecord  // whole table lifetime
	seq        int64
	lastResult *GameResult
}

func NewGame(cfg Config) (*Game, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Game{
		cfg:        cfg,
		log:        logger,
		rng:        rand.New(rand.NewSource(seed)),
		seats:      make([]*Player, cfg.MaxPlayers),
		dealer:     InvalidSeat,
		smallBlind: InvalidSeat,
		bigBlind:   InvalidSeat,
		current:    InvalidSeat,
		ended:      true,
	}, nil
}

func (g *Game) Config() Config { return g.cfg }

// SitDown seats a player with an initial stack. Names are unique per table.
func (g *Game) SitDown(seat int, name string, chips int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if seat < 0 || seat >= len(g.seats) {
		return fmt.Errorf("invalid seat %d", seat)
	}
	if name == "" {
		return fmt.Errorf("player name is required")
	}
	if chips < 0 {
		return fmt.Errorf("chips must be >= 0")
	}
	if g.seats[seat] != nil {
		return fmt.Errorf("seat %d: %w", seat, ErrSeatTaken)
	}
	for _, p := range g.seats {
		if p != nil && p.Name == name {
			return fmt.Errorf("%q: %w", name, ErrDuplicateName)
		}
	}
	p := NewPlayer(name, chips)
	p.Seat = seat
	g.seats[seat] = p
	return nil
}

// StandUp removes a player between hands.
func (g *Game) StandUp(seat int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if seat < 0 || seat >= len(g.seats) {
		return fmt.Errorf("invalid seat %d", seat)
	}
	if g.seats[seat] == nil {
		return fmt.Errorf("seat %d: %w", seat, ErrSeatEmpty)
	}
	// 手牌进行中不允许离座，保证结算确定性
	if g.inProgressLocked() {
		return ErrHandInProgress
	}
	g.seats[seat] = nil
	return nil
}

// Player returns the public view of seat.
func (g *Game) Player(seat int) (PlayerInfo, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if seat < 0 || seat >= len(g.seats) || g.seats[seat] == nil {
		return PlayerInfo{}, false
	}
	return g.seats[seat].info(false), true
}

// SeatOf finds a player by name.
func (g *Game) SeatOf(name string) (int, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, p := range g.seats {
		if p != nil && p.Name == name {
			return p.Seat, true
		}
	}
	return InvalidSeat, false
}

func (g *Game) HandNumber() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.handNumber
}

// CurrentSeat is the seat to act, or InvalidSeat when no hand is running.
func (g *Game) CurrentSeat() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.inProgressLocked() {
		return InvalidSeat
	}
	return g.current
}

// Err returns the fatal error that stopped the table, if any.
func (g *Game) Err() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.broken
}

// TotalChips is sum(chips) + pot; it is constant for a fixed set of seated players.
func (g *Game) TotalChips() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	total := g.pot
	for _, p := range g.seats {
		if p != nil {
			total += p.chips
		}
	}
	return total
}

// Result returns the outcome of the last finished hand.
func (g *Game) Result() *GameResult {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastResult.clone()
}

// ActionHistory returns a copy of the current hand's action log.
func (g *Game) ActionHistory() []ActionRecord {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]ActionRecord(nil), g.history...)
}

// AuditLog returns a copy of every record since the table was created.
func (g *Game) AuditLog() []AuditRecord {
	g.mu.Lock()
	defer g.mu.Unlock()
	return cloneRecords(g.audit)
}

// HandAudit returns the records of one hand.
func (g *Game) HandAudit(handNumber int) []AuditRecord {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]AuditRecord, 0, 32)
	for _, r := range g.audit {
		if r.HandNumber == handNumber {
			out = append(out, r.clone())
		}
	}
	return out
}

// StartHand deals a new hand: button, blinds, hole cards. If the blinds leave
// nobody able to bet, the board is run out and the hand is settled immediately.
func (g *Game) StartHand() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.broken != nil {
		return g.broken
	}
	if g.inProgressLocked() {
		return ErrHandInProgress
	}

	active := 0
	for _, p := range g.seats {
		if p == nil {
			continue
		}
		p.ResetForNewHand()
		if p.active {
			active++
		}
	}
	if active < g.cfg.MinPlayers {
		return fmt.Errorf("%w: %d < %d", ErrNotEnoughPlayers, active, g.cfg.MinPlayers)
	}

	if g.dealer == InvalidSeat {
		if ds := g.cfg.DealerSeat; ds != nil && (g.seats[*ds] == nil || !g.seats[*ds].active) {
			return fmt.Errorf("dealer seat %d is not an active seat", *ds)
		}
	}

	g.handNumber++
	g.stage = StagePreflop
	g.community = make(card.CardList, 0, 5)
	g.pot = 0
	g.currentBet = 0
	g.history = nil
	g.lastResult = nil
	g.ended = false

	if err := g.prepareDeckLocked(); err != nil {
		return g.failLocked(err)
	}

	g.selectDealerLocked()
	g.selectBlindsLocked(active)

	start := &HandStartRecord{
		Dealer:         g.dealer,
		SmallBlindSeat: g.smallBlind,
		BigBlindSeat:   g.bigBlind,
		SmallBlind:     g.cfg.SmallBlind,
		BigBlind:       g.cfg.BigBlind,
	}
	for _, p := range g.seats {
		if p != nil && p.active {
			start.Players = append(start.Players, SeatStack{Seat: p.Seat, Name: p.Name, Chips: p.chips})
		}
	}
	g.appendRecordLocked(AuditRecord{Kind: RecordHandStart, HandStart: start})
	g.log.WithFields(logrus.Fields{"hand": g.handNumber, "dealer": g.dealer}).
		Debugf("[Game] hand start, sb=%d bb=%d players=%d", g.smallBlind, g.bigBlind, active)

	g.postBlindLocked(g.seats[g.smallBlind], g.cfg.SmallBlind, ActionSmallBlind)
	g.postBlindLocked(g.seats[g.bigBlind], g.cfg.BigBlind, ActionBigBlind)
	for _, p := range g.seats {
		if p != nil && p.betInRound > g.currentBet {
			g.currentBet = p.betInRound
		}
	}

	if err := g.dealHoleCardsLocked(); err != nil {
		return g.failLocked(err)
	}
	g.recordStageStartLocked()

	g.current = g.nextSeat(g.bigBlind, g.needsAction)
	_, err := g.progressLocked()
	return err
}

// LegalActions projects the legal actions of seat. Seats not on turn get an empty set.
func (g *Game) LegalActions(seat int) (LegalActionSet, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.broken != nil {
		return LegalActionSet{}, g.broken
	}
	if !g.inProgressLocked() {
		return LegalActionSet{}, g.noHandErrLocked()
	}
	p, err := g.playerLocked(seat)
	if err != nil {
		return LegalActionSet{}, err
	}
	if seat != g.current {
		return LegalActionSet{}, nil
	}
	return g.legalActionsLocked(p), nil
}

// Act applies one action for the seat on turn. A non-nil result means the hand ended.
// Rejected actions return an *IllegalActionError and leave the state untouched.
func (g *Game) Act(seat int, act GamePlayerAction) (*GameResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.broken != nil {
		return nil, g.broken
	}
	if !g.inProgressLocked() {
		return nil, g.noHandErrLocked()
	}
	if seat != g.current {
		return nil, &IllegalActionError{
			Seat: seat, Action: act.Action, Amount: act.Amount,
			Reason: fmt.Sprintf("seat %d is on turn", g.current), cause: ErrOutOfTurn,
		}
	}
	p := g.seats[seat]
	if p == nil || !p.canAct() {
		return nil, g.failLocked(ErrInvalidState(fmt.Sprintf("seat %d on turn cannot act", seat)))
	}

	var moved int64
	switch act.Action {
	case ActionFold:
		p.folded = true
	case ActionCheck:
		if g.currentBet != p.betInRound {
			return nil, illegal(seat, act.Action, act.Amount, "cannot check facing %d (in round %d)", g.currentBet, p.betInRound)
		}
	case ActionCall:
		if g.currentBet <= p.betInRound {
			return nil, illegal(seat, act.Action, act.Amount, "nothing to call")
		}
		moved = p.PlaceBet(g.currentBet - p.betInRound)
	case ActionRaise:
		minRaise := g.minRaiseAmount()
		if act.Amount < minRaise {
			return nil, illegal(seat, act.Action, act.Amount, "raise below minimum %d", minRaise)
		}
		if act.Amount > p.chips {
			return nil, illegal(seat, act.Action, act.Amount, "raise exceeds stack %d", p.chips)
		}
		moved = p.PlaceBet(act.Amount)
		g.raiseToLocked(p)
	case ActionAllIn:
		if p.chips <= 0 {
			return nil, illegal(seat, act.Action, act.Amount, "no chips left")
		}
		moved = p.PlaceBet(p.chips)
		if p.betInRound > g.currentBet {
			g.raiseToLocked(p)
		}
	default:
		return nil, illegal(seat, act.Action, act.Amount, "not a player action")
	}

	g.pot += moved
	p.acted = true
	p.lastAction = act.Action
	g.recordActionLocked(p, act.Action, moved, act.Reason, act.Behavior)

	g.current = g.nextSeat(seat, g.needsAction)
	return g.progressLocked()
}

func (g *Game) inProgressLocked() bool {
	return g.handNumber > 0 && !g.ended
}

func (g *Game) noHandErrLocked() error {
	if g.handNumber == 0 {
		return ErrNoHand
	}
	return ErrHandEnded
}

func (g *Game) playerLocked(seat int) (*Player, error) {
	if seat < 0 || seat >= len(g.seats) || g.seats[seat] == nil {
		return nil, fmt.Errorf("seat %d: %w", seat, ErrSeatEmpty)
	}
	return g.seats[seat], nil
}

// minRaiseAmount 最小加注额 max(配置最小加注, 当前注*2)
func (g *Game) minRaiseAmount() int64 {
	minRaise := g.cfg.minRaise()
	if double := g.currentBet * 2; double > minRaise {
		minRaise = double
	}
	return minRaise
}

// raiseToLocked makes p's bet the new current bet; everybody else must act again.
func (g *Game) raiseToLocked(p *Player) {
	g.currentBet = p.betInRound
	for _, other := range g.seats {
		if other != nil && other != p {
			other.acted = false
		}
	}
}

// legalActionsLocked 合法动作必须是当前状态的纯函数投影
func (g *Game) legalActionsLocked(p *Player) LegalActionSet {
	var set LegalActionSet
	if !p.canAct() {
		return set
	}
	set.Actions = append(set.Actions, ActionFold)
	if g.currentBet == p.betInRound {
		set.Actions = append(set.Actions, ActionCheck)
	}
	if g.currentBet > p.betInRound {
		set.Actions = append(set.Actions, ActionCall)
		set.CallAmount = min64(g.currentBet-p.betInRound, p.chips)
	}
	if minRaise := g.minRaiseAmount(); p.chips >= minRaise {
		set.Actions = append(set.Actions, ActionRaise)
		set.MinRaise = minRaise
		set.MaxRaise = p.chips
	}
	if p.chips > 0 {
		set.Actions = append(set.Actions, ActionAllIn)
	}
	return set
}

// needsAction is the skip predicate for turn order: players who can still bet and
// either have not acted since the last raise or owe chips.
func (g *Game) needsAction(p *Player) bool {
	return p.canAct() && (!p.acted || p.betInRound < g.currentBet)
}

// nextSeat walks clockwise from seat (exclusive, wrapping back to seat itself last)
// and returns the first seat matching pred.
func (g *Game) nextSeat(seat int, pred func(*Player) bool) int {
	n := len(g.seats)
	for i := 1; i <= n; i++ {
		idx := ((seat+i)%n + n) % n
		if p := g.seats[idx]; p != nil && pred(p) {
			return idx
		}
	}
	return InvalidSeat
}

// seatsFrom lists matching players clockwise starting at seat (inclusive).
func (g *Game) seatsFrom(seat int, pred func(*Player) bool) []*Player {
	n := len(g.seats)
	out := make([]*Player, 0, n)
	for i := 0; i < n; i++ {
		idx := ((seat+i)%n + n) % n
		if p := g.seats[idx]; p != nil && pred(p) {
			out = append(out, p)
		}
	}
	return out
}

func isActive(p *Player) bool { return p.active }

func (g *Game) prepareDeckLocked() error {
	if len(g.cfg.DeckOverride) > 0 {
		deck, err := card.NewDeckFromCards(g.cfg.DeckOverride)
		if err != nil {
			return err
		}
		g.deck = deck
		return nil
	}
	g.deck = card.NewDeck()
	g.deck.Shuffle(g.rng)
	return nil
}

func (g *Game) selectDealerLocked() {
	// first hand: configured seat, else the lowest active seat
	if g.dealer == InvalidSeat {
		if ds := g.cfg.DealerSeat; ds != nil {
			g.dealer = *ds
			return
		}
		g.dealer = g.nextSeat(-1, isActive)
		return
	}
	// move button to next active seat
	g.dealer = g.nextSeat(g.dealer, isActive)
}

func (g *Game) selectBlindsLocked(active int) {
	if active == 2 {
		// Heads-Up: dealer posts the small blind
		g.smallBlind = g.dealer
		g.bigBlind = g.nextSeat(g.dealer, isActive)
		return
	}
	g.smallBlind = g.nextSeat(g.dealer, isActive)
	g.bigBlind = g.nextSeat(g.smallBlind, isActive)
}

// postBlindLocked 盲注不算表态，大盲保留 option
func (g *Game) postBlindLocked(p *Player, amount int64, kind ActionType) {
	if p == nil || amount <= 0 {
		return
	}
	moved := p.PlaceBet(amount)
	g.pot += moved
	p.lastAction = kind
	g.recordActionLocked(p, kind, moved, "", "")
}

func (g *Game) dealHoleCardsLocked() error {
	order := g.seatsFrom(g.smallBlind, isActive)
	for i := 0; i < 2; i++ {
		for _, p := range order {
			c, err := g.deck.Draw()
			if err != nil {
				return err
			}
			p.ReceiveCard(c)
		}
	}
	return nil
}

func (g *Game) liveCountLocked() int {
	n := 0
	for _, p := range g.seats {
		if p.inHand() {
			n++
		}
	}
	return n
}

// roundCompleteLocked reports whether the current betting round is over.
func (g *Game) roundCompleteLocked() bool {
	if g.liveCountLocked() <= 1 {
		return true
	}
	actors := make([]*Player, 0, len(g.seats))
	for _, p := range g.seats {
		if p.canAct() {
			actors = append(actors, p)
		}
	}
	switch {
	case len(actors) == 0:
		return true
	case len(actors) == 1 && actors[0].betInRound >= g.currentBet:
		// 只剩一个可行动玩家且不欠注，无人可以再下注
		return true
	}
	for _, p := range actors {
		if !p.acted || p.betInRound != g.currentBet {
			return false
		}
	}
	return true
}

// progressLocked advances stages while the current round is complete and settles the
// hand when it ends. It returns a result only when the hand finished.
func (g *Game) progressLocked() (*GameResult, error) {
	for {
		if g.liveCountLocked() <= 1 {
			return g.finishHandLocked()
		}
		if !g.roundCompleteLocked() {
			if g.current == InvalidSeat {
				return nil, g.failLocked(ErrInvalidState("round open but nobody to act"))
			}
			return nil, nil
		}
		if g.stage == StageRiver {
			g.stage = StageShowdown
			g.current = InvalidSeat
			g.recordStageStartLocked()
			return g.finishHandLocked()
		}
		if err := g.nextStageLocked(); err != nil {
			return nil, g.failLocked(err)
		}
	}
}

func (g *Game) nextStageLocked() error {
	for _, p := range g.seats {
		if p != nil {
			p.resetRound()
			if p.inHand() && !p.allIn {
				p.lastAction = ActionNone
			}
		}
	}
	g.currentBet = 0
	g.stage++

	cards, err := g.deck.DrawN(communityCardsFor(g.stage))
	if err != nil {
		return err
	}
	g.community = append(g.community, cards...)
	g.recordStageStartLocked()
	g.log.WithFields(logrus.Fields{"hand": g.handNumber, "stage": g.stage}).
		Debugf("[Game] stage start, board=%s pot=%d", g.community, g.pot)

	g.current = g.nextSeat(g.dealer, g.needsAction)
	return nil
}

// failLocked puts the table into the broken state; chips stay where they are.
func (g *Game) failLocked(err error) error {
	g.broken = fmt.Errorf("hand %d aborted: %w", g.handNumber, err)
	g.current = InvalidSeat
	g.log.WithField("hand", g.handNumber).Errorf("[Game] %v", g.broken)
	return g.broken
}

func (g *Game) appendRecordLocked(r AuditRecord) {
	g.seq++
	r.Seq = g.seq
	r.HandNumber = g.handNumber
	g.audit = append(g.audit, r)
}

func (g *Game) recordActionLocked(p *Player, action ActionType, amount int64, reason, behavior string) {
	rec := ActionRecord{
		Stage:      g.stage,
		Seat:       p.Seat,
		Player:     p.Name,
		Action:     action,
		Amount:     amount,
		PotAfter:   g.pot,
		ChipsAfter: p.chips,
		Reason:     reason,
		Behavior:   behavior,
	}
	g.history = append(g.history, rec)
	g.appendRecordLocked(AuditRecord{Kind: RecordAction, Action: &rec})
}

func (g *Game) recordStageStartLocked() {
	g.appendRecordLocked(AuditRecord{Kind: RecordStageStart, StageStart: &StageStartRecord{
		Stage:          g.stage,
		CommunityCards: g.community.Clone(),
		Pot:            g.pot,
	}})
}
