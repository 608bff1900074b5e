package agent

import (
	"sync"

	"holdem-arena/holdem"
)

// ScriptedAgent answers with a fixed sequence of actions. Once the script runs out it
// checks when possible and folds otherwise.
type ScriptedAgent struct {
	PlayerName string

	mu        sync.Mutex
	script    []holdem.GamePlayerAction
	next      int
	results   []holdem.GameResult
	exhausted int
}

func NewScriptedAgent(name string, script ...holdem.GamePlayerAction) *ScriptedAgent {
	return &ScriptedAgent{PlayerName: name, script: append([]holdem.GamePlayerAction(nil), script...)}
}

func (a *ScriptedAgent) Name() string { return a.PlayerName }

func (a *ScriptedAgent) Decide(state holdem.GameInfoState) holdem.GamePlayerAction {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.next >= len(a.script) {
		a.exhausted++
		return fallback(state.Legal, "script exhausted")
	}
	act := a.script[a.next]
	a.next++
	return act
}

func (a *ScriptedAgent) Reflect(_ holdem.GameInfoState, result holdem.GameResult) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.results = append(a.results, result)
}

// Remaining is the number of unused scripted actions.
func (a *ScriptedAgent) Remaining() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.script) - a.next
}

// Exhausted counts decisions answered by the fallback.
func (a *ScriptedAgent) Exhausted() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.exhausted
}

// Results returns every result passed to Reflect.
func (a *ScriptedAgent) Results() []holdem.GameResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]holdem.GameResult(nil), a.results...)
}
