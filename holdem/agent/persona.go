package agent

// PersonalityProfile defines the tunable parameters for a RuleAgent.
type PersonalityProfile struct {
	Aggression float64 `json:"aggression"` // 0.0–1.0: tendency to bet/raise vs check/call
	Tightness  float64 `json:"tightness"`  // 0.0–1.0: hand range width (1.0 = only premiums)
	Bluffing   float64 `json:"bluffing"`   // 0.0–1.0: bluff frequency
	Positional float64 `json:"positional"` // 0.0–1.0: how much position affects play
	Randomness float64 `json:"randomness"` // 0.0–1.0: decision noise
}

// Persona defines a named computer player.
type Persona struct {
	ID      string             `json:"id"`
	Name    string             `json:"name"`
	Tagline string             `json:"tagline"`
	Tier    int                `json:"tier"` // 1=shark, 2=regular, 3=fish
	Brain   PersonalityProfile `json:"brain"`
}
