package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"holdem-arena/card"
	"holdem-arena/holdem"
	"holdem-arena/holdem/agent"
	"holdem-arena/replay"
)

func colorCard(c card.Card) string {
	switch c.Suit() {
	case card.Heart, card.Diamond:
		return pterm.LightRed(c.String())
	default:
		return pterm.LightWhite(c.String())
	}
}

func colorCards(cards []card.Card) string {
	if len(cards) == 0 {
		return "-"
	}
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = colorCard(c)
	}
	return strings.Join(parts, " ")
}

func renderHand(handID string, records []holdem.AuditRecord, res *holdem.GameResult) {
	pterm.DefaultSection.Printfln("Hand #%d  %s", res.HandNumber, pterm.Gray(handID))
	for _, r := range records {
		if r.Kind == holdem.RecordStageStart && r.StageStart.Stage != holdem.StagePreflop {
			pterm.Printfln("  %-8s %s  pot %d", r.StageStart.Stage, colorCards(r.StageStart.CommunityCards), r.StageStart.Pot)
		}
	}
	renderWinners(res)
}

func renderWinners(res *holdem.GameResult) {
	if res == nil {
		return
	}
	for _, w := range res.Winners {
		if res.Uncontested {
			pterm.Success.Printfln("%s takes %d uncontested", pterm.LightCyan(w.Name), w.Amount)
			continue
		}
		pterm.Success.Printfln("%s wins %d with %s (%s)",
			pterm.LightCyan(w.Name), w.Amount, w.Description, colorCards(w.Hand))
	}
	if len(res.Tiers) > 1 {
		for i, t := range res.Tiers {
			pterm.Printfln("    pot %d: %d (level %d, eligible %v, winners %v)", i, t.Amount, t.Level, t.Eligible, t.Winners)
		}
	}
}

func renderStandings(snap holdem.Snapshot, roster *agent.Roster) {
	players := append([]holdem.PlayerInfo(nil), snap.Players...)
	sort.SliceStable(players, func(i, j int) bool { return players[i].Chips > players[j].Chips })

	data := pterm.TableData{{"Seat", "Player", "Persona", "Chips", "Hands won", "Showdowns"}}
	for _, p := range players {
		persona, won, showdowns := "-", "-", "-"
		if inst := roster.Get(p.Name); inst != nil {
			if inst.Persona != nil {
				persona = inst.Persona.ID
			}
			if ra, ok := inst.Agent.(*agent.RuleAgent); ok {
				won = strconv.Itoa(ra.Stats.Won)
				showdowns = strconv.Itoa(ra.Stats.Showdowns)
			}
		}
		chips := strconv.FormatInt(p.Chips, 10)
		if !p.Active {
			chips = pterm.LightRed(chips)
		}
		data = append(data, []string{strconv.Itoa(p.Seat), p.Name, persona, chips, won, showdowns})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func renderTape(title string, tape *replay.Tape) error {
	records, err := tape.Records()
	if err != nil {
		return err
	}
	pterm.DefaultSection.Printfln("Replay %s (table %s)", title, tape.TableID)
	for _, r := range records {
		pterm.Println(describeRecord(r))
	}
	if !tape.Complete {
		pterm.Warning.Println("hand did not finish")
	}
	renderWinners(tape.Result)
	return nil
}

func describeRecord(r holdem.AuditRecord) string {
	switch r.Kind {
	case holdem.RecordHandStart:
		s := r.HandStart
		names := make([]string, 0, len(s.Players))
		for _, p := range s.Players {
			names = append(names, fmt.Sprintf("%s(%d):%d", p.Name, p.Seat, p.Chips))
		}
		return fmt.Sprintf("%s dealer=%d sb=%d bb=%d blinds %d/%d  %s",
			pterm.LightYellow("HAND"), s.Dealer, s.SmallBlindSeat, s.BigBlindSeat, s.SmallBlind, s.BigBlind, strings.Join(names, " "))
	case holdem.RecordStageStart:
		s := r.StageStart
		return fmt.Sprintf("%s %s pot=%d", pterm.LightBlue(strings.ToUpper(s.Stage.String())), colorCards(s.CommunityCards), s.Pot)
	case holdem.RecordAction:
		a := r.Action
		line := fmt.Sprintf("  %-12s %-10s %6d  pot=%d chips=%d", a.Player, a.Action, a.Amount, a.PotAfter, a.ChipsAfter)
		if a.Reason != "" {
			line += pterm.Gray("  # " + a.Reason)
		}
		return line
	case holdem.RecordShowdown:
		lines := []string{pterm.LightMagenta("SHOWDOWN") + " " + colorCards(r.Showdown.CommunityCards)}
		for _, h := range r.Showdown.Hands {
			lines = append(lines, fmt.Sprintf("  %-12s %s  %s", h.Name, colorCards(h.Hole), h.Description))
		}
		return strings.Join(lines, "\n")
	case holdem.RecordPotAward:
		parts := make([]string, 0, len(r.PotAward.Payouts))
		for _, p := range r.PotAward.Payouts {
			parts = append(parts, fmt.Sprintf("%s +%d", p.Name, p.Amount))
		}
		return fmt.Sprintf("%s pot=%d %s", pterm.LightGreen("AWARD"), r.PotAward.Pot, strings.Join(parts, ", "))
	}
	return string(r.Kind)
}

func renderReplayError(e *replay.ReplayError) {
	pterm.Error.Printfln("step %d: %s: %s", e.StepIndex, e.Reason, e.Message)
	if x := e.Expected; x != nil {
		pterm.Info.Printfln("expected seat %d on %s, legal %v, call %d, raise %d..%d",
			x.ActionSeat, x.Stage, x.LegalActions, x.CallAmount, x.MinRaise, x.MaxRaise)
	}
}
