// Package catalog holds the built-in set of challenge targets: reference
// images players try to reproduce through prompts, with per-target
// difficulty and hints.
package catalog

import "fmt"

// Difficulty buckets for targets.
const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"
)

// Target is one challenge entry.
type Target struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Difficulty  string   `json:"difficulty"`
	Description string   `json:"description"`
	Ref         string   `json:"ref"`
	Hints       []string `json:"hints"`
}

// builtin is the default challenge set.
var builtin = []Target{
	{
		ID:          "car",
		Name:        "Car",
		Difficulty:  DifficultyHard,
		Description: "A bear driving a car",
		Ref:         "car.png",
		Hints: []string{
			"Cute bear driving a toy car illustration.",
			"Retro flat design cartoon vehicle with animal driver.",
			"Minimal playful vector art of bear in car.",
		},
	},
	{
		ID:          "foxes",
		Name:        "Foxes",
		Difficulty:  DifficultyMedium,
		Description: "Two cute foxes sitting on a tree",
		Ref:         "foxes.png",
		Hints: []string{
			"Two foxes sitting on a tree",
			"Two cute foxes sitting on a tree",
		},
	},
	{
		ID:          "llama",
		Name:        "Llama",
		Difficulty:  DifficultyMedium,
		Description: "A sheep in snowfall",
		Ref:         "llama.jpg",
		Hints: []string{
			"Mention the atmospheric mist",
			"Describe the forest path",
			"Include the soft, diffused lighting",
		},
	},
	{
		ID:          "van",
		Name:        "Van",
		Difficulty:  DifficultyEasy,
		Description: "A van climbing a mountain beside the ocean",
		Ref:         "van.jpg",
		Hints: []string{
			"Van climbing a mountain",
			"Create an illustration of a blue van",
			"Van climbing a mountain beside the ocean",
		},
	},
	{
		ID:          "owl",
		Name:        "Owl",
		Difficulty:  DifficultyHard,
		Description: "Owl illustration",
		Ref:         "owl.png",
		Hints: []string{
			"Describe the colorful aurora lights",
			"Mention the snowy landscape",
			"Include the dancing, flowing motion",
		},
	},
}

// Catalog is a lookup over a target set.
type Catalog struct {
	targets []Target
	byID    map[string]*Target
}

// NewBuiltin returns the catalog of built-in targets.
func NewBuiltin() *Catalog {
	return New(builtin)
}

// New builds a catalog from an explicit target set.
func New(targets []Target) *Catalog {
	c := &Catalog{
		targets: targets,
		byID:    make(map[string]*Target, len(targets)),
	}
	for i := range c.targets {
		c.byID[c.targets[i].ID] = &c.targets[i]
	}
	return c
}

// All returns every target in catalog order.
func (c *Catalog) All() []Target {
	out := make([]Target, len(c.targets))
	copy(out, c.targets)
	return out
}

// Get returns the target with the given id.
func (c *Catalog) Get(id string) (*Target, error) {
	t, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("unknown target: %q", id)
	}
	return t, nil
}

// ByDifficulty returns the targets in one difficulty bucket.
func (c *Catalog) ByDifficulty(difficulty string) []Target {
	var out []Target
	for _, t := range c.targets {
		if t.Difficulty == difficulty {
			out = append(out, t)
		}
	}
	return out
}

// Hint returns the attempt-appropriate hint for a target, cycling
// through the list when attempts outnumber hints.
func (t *Target) Hint(attempt int) string {
	if len(t.Hints) == 0 {
		return ""
	}
	if attempt < 1 {
		attempt = 1
	}
	return t.Hints[(attempt-1)%len(t.Hints)]
}
