package decision

import "slices"

// Tier is the severity bucket of a consequence.
type Tier string

const (
	TierLow  Tier = "low"
	TierMid  Tier = "mid"
	TierHigh Tier = "high"
)

// Tiers lists every tier from least to most severe.
var Tiers = []Tier{TierLow, TierMid, TierHigh}

// FallbackConsequence is shown when a choice has no text for the resolved tier.
const FallbackConsequence = "Something changes quietly."

// Decision is one daily prompt and its choices.
type Decision struct {
	ID      string   `json:"id" yaml:"id"`
	Kicker  string   `json:"kicker" yaml:"kicker"` // short label shown above the card
	Title   string   `json:"title" yaml:"title"`
	Body    string   `json:"body" yaml:"body"`
	Tags    []string `json:"tags" yaml:"tags"` // weighting hints for selection
	Choices []Choice `json:"choices" yaml:"choices"`
}

// Choice is one option of a Decision.
type Choice struct {
	Text         string          `json:"text" yaml:"text"`
	Effects      map[string]int  `json:"effects" yaml:"effects"` // hidden variable deltas
	Consequences map[Tier]string `json:"consequences" yaml:"consequences"`
}

func (d Decision) HasTag(tag string) bool {
	return slices.Contains(d.Tags, tag)
}

// Choice returns the choice at index i.
func (d Decision) Choice(i int) (Choice, bool) {
	if i < 0 || i >= len(d.Choices) {
		return Choice{}, false
	}
	return d.Choices[i], true
}

// ResolveText returns the consequence text for tier, or FallbackConsequence.
func (c Choice) ResolveText(tier Tier) string {
	if text, ok := c.Consequences[tier]; ok && text != "" {
		return text
	}
	return FallbackConsequence
}
