package domain

import (
	"fmt"
	"strings"
)

// House represents one of the four Hogwarts houses
type House struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	HouseColours string      `json:"houseColours"`
	Founder      string      `json:"founder"`
	Animal       string      `json:"animal"`
	Element      string      `json:"element"`
	Ghost        string      `json:"ghost"`
	CommonRoom   string      `json:"commonRoom"`
	Heads        []HouseHead `json:"heads"`
	Traits       []Trait     `json:"traits"`
}

// HouseHead is a head of house, in the order the API lists them
type HouseHead struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Name returns the display name of the head of house
func (h HouseHead) Name() string {
	return strings.TrimSpace(h.FirstName + " " + h.LastName)
}

// Trait is a house trait (e.g. "Courage")
type Trait struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Spell represents a spell, charm, curse or jinx
type Spell struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Incantation string     `json:"incantation"`
	Effect      string     `json:"effect"`
	CanBeVerbal bool       `json:"canBeVerbal"`
	Type        SpellType  `json:"type"`
	Light       SpellLight `json:"light"`
	Creator     string     `json:"creator,omitempty"`
}

// Elixir represents a potion and how it is brewed
type Elixir struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Effect          string           `json:"effect"`
	SideEffects     string           `json:"sideEffects"`
	Characteristics string           `json:"characteristics"`
	Time            string           `json:"time"`
	Difficulty      ElixirDifficulty `json:"difficulty"`
	Ingredients     []Ingredient     `json:"ingredients"`
	Inventors       []ElixirInventor `json:"inventors"`
	Manufacturer    string           `json:"manufacturer"`
}

// ElixirInventor is a wizard credited with inventing an elixir
type ElixirInventor struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Name returns the inventor's display name
func (i ElixirInventor) Name() string {
	return strings.TrimSpace(i.FirstName + " " + i.LastName)
}

// Ingredient is passed through as fetched; only the id and name are read locally.
type Ingredient struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Wizard represents a known wizard and the elixirs attributed to them
type Wizard struct {
	ID        string         `json:"id"`
	FirstName string         `json:"firstName"`
	LastName  string         `json:"lastName"`
	Elixirs   []WizardElixir `json:"elixirs"`
}

// WizardElixir is a reference from a wizard to an elixir
type WizardElixir struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// FullName returns "First Last", or whichever part is present
func (w Wizard) FullName() string {
	name := strings.TrimSpace(w.FirstName + " " + w.LastName)
	if name == "" {
		return "Unknown wizard"
	}
	return name
}

// === Validation ===
//
// The API is treated as untrusted: every record is checked right after
// decoding so a malformed payload fails at the client boundary.

// Validate checks the fields every house must carry
func (h House) Validate() error {
	if err := requireField("id", h.ID); err != nil {
		return err
	}
	return requireField("name", h.Name)
}

// Validate checks the fields every spell must carry
func (s Spell) Validate() error {
	if err := requireField("id", s.ID); err != nil {
		return err
	}
	return requireField("name", s.Name)
}

// Validate checks the fields every elixir must carry
func (e Elixir) Validate() error {
	if err := requireField("id", e.ID); err != nil {
		return err
	}
	if err := requireField("name", e.Name); err != nil {
		return err
	}
	for i, ing := range e.Ingredients {
		if err := ing.Validate(); err != nil {
			return fmt.Errorf("ingredients[%d]: %w", i, err)
		}
	}
	return nil
}

// Validate checks the fields every ingredient must carry
func (i Ingredient) Validate() error {
	return requireField("id", i.ID)
}

// Validate checks the fields every wizard must carry. Wizards may lack a first
// or last name, so only the id is required.
func (w Wizard) Validate() error {
	return requireField("id", w.ID)
}

func requireField(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required field %q", name)
	}
	return nil
}

// === ListItem implementations ===

func (h *House) GetID() string          { return h.ID }
func (h *House) GetTitle() string       { return h.Name }
func (h *House) GetKind() Kind          { return KindHouses }
func (h *House) GetDescription() string { return h.Founder }

func (s *Spell) GetID() string          { return s.ID }
func (s *Spell) GetTitle() string       { return s.Name }
func (s *Spell) GetKind() Kind          { return KindSpells }
func (s *Spell) GetDescription() string { return string(s.Type) }

func (e *Elixir) GetID() string          { return e.ID }
func (e *Elixir) GetTitle() string       { return e.Name }
func (e *Elixir) GetKind() Kind          { return KindElixirs }
func (e *Elixir) GetDescription() string { return string(e.Difficulty) }

func (i *Ingredient) GetID() string          { return i.ID }
func (i *Ingredient) GetTitle() string       { return i.Name }
func (i *Ingredient) GetKind() Kind          { return KindIngredients }
func (i *Ingredient) GetDescription() string { return "" }

func (w *Wizard) GetID() string    { return w.ID }
func (w *Wizard) GetTitle() string { return w.FullName() }
func (w *Wizard) GetKind() Kind    { return KindWizards }
func (w *Wizard) GetDescription() string {
	switch len(w.Elixirs) {
	case 0:
		return ""
	case 1:
		return "1 elixir"
	default:
		return fmt.Sprintf("%d elixirs", len(w.Elixirs))
	}
}
