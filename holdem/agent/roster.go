package agent

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"holdem-arena/holdem"
)

// Instance is an agent seated at a table.
type Instance struct {
	Seat    int
	Persona *Persona // nil for non-persona agents
	Agent   Agent
}

// Roster tracks the agents seated at one table and hands the engine its deciders.
type Roster struct {
	registry  *PersonaRegistry
	instances map[string]*Instance // keyed by player name
	mu        sync.RWMutex
	rng       *rand.Rand
	log       logrus.FieldLogger
}

// NewRoster creates a roster. seed makes agent seeds reproducible.
func NewRoster(registry *PersonaRegistry, seed int64, logger logrus.FieldLogger) *Roster {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Roster{
		registry:  registry,
		instances: make(map[string]*Instance),
		rng:       rand.New(rand.NewSource(seed)),
		log:       logger,
	}
}

// Registry returns the underlying PersonaRegistry.
func (r *Roster) Registry() *PersonaRegistry {
	return r.registry
}

// Spawn seats a RuleAgent for persona at seat.
func (r *Roster) Spawn(game *holdem.Game, seat int, persona *Persona, chips int64) (*Instance, error) {
	if persona == nil {
		return nil, fmt.Errorf("spawn at seat %d: nil persona", seat)
	}
	r.mu.Lock()
	seed := r.rng.Int63()
	r.mu.Unlock()

	ra := NewRuleAgent(persona, seed)
	ra.log = r.log.WithField("agent", persona.Name)
	inst, err := r.Seat(game, seat, ra, chips)
	if err != nil {
		return nil, err
	}
	inst.Persona = persona
	return inst, nil
}

// Seat sits any agent down under its own name.
func (r *Roster) Seat(game *holdem.Game, seat int, a Agent, chips int64) (*Instance, error) {
	if err := game.SitDown(seat, a.Name(), chips); err != nil {
		return nil, fmt.Errorf("seat agent %s at %d: %w", a.Name(), seat, err)
	}
	inst := &Instance{Seat: seat, Agent: a}

	r.mu.Lock()
	r.instances[a.Name()] = inst
	r.mu.Unlock()

	r.log.Infof("[Agent] seated %s at seat %d with %d chips", a.Name(), seat, chips)
	return inst, nil
}

// Remove stands an agent up and forgets it.
func (r *Roster) Remove(game *holdem.Game, name string) error {
	r.mu.Lock()
	inst := r.instances[name]
	r.mu.Unlock()
	if inst == nil {
		return fmt.Errorf("unknown agent %q", name)
	}
	if err := game.StandUp(inst.Seat); err != nil {
		return err
	}
	r.mu.Lock()
	delete(r.instances, name)
	r.mu.Unlock()

	r.log.Infof("[Agent] %s left seat %d", name, inst.Seat)
	return nil
}

// Get returns the instance for name, or nil.
func (r *Roster) Get(name string) *Instance {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.instances[name]
}

// Instances returns the seated agents ordered by seat.
func (r *Roster) Instances() []*Instance {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Instance, 0, len(r.instances))
	for _, inst := range r.instances {
		out = append(out, inst)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seat < out[j].Seat })
	return out
}

// Deciders maps player names to deciders for Game.PlayHand.
func (r *Roster) Deciders() map[string]holdem.Decider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]holdem.Decider, len(r.instances))
	for name, inst := range r.instances {
		out[name] = inst.Agent
	}
	return out
}
