package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSpellTypeUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    SpellType
		wantErr bool
	}{
		{"display form", `"Healing Spell"`, SpellTypeHealingSpell, false},
		{"identifier form", `"HealingSpell"`, SpellTypeHealingSpell, false},
		{"hyphenated", `"Untransfiguration"`, SpellTypeUntransfiguration, false},
		{"lower case", `"charm"`, SpellTypeCharm, false},
		{"null", `null`, "", false},
		{"unknown", `"Cantrip"`, "", true},
		{"not a string", `7`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got SpellType
			err := json.Unmarshal([]byte(tt.input), &got)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestElixirDifficultyAliases(t *testing.T) {
	for _, in := range []string{"O.W.L", "OrdinaryWizardingLevel", "owl"} {
		got, err := ParseElixirDifficulty(in)
		require.NoError(t, err, in)
		require.Equal(t, DifficultyOrdinaryWizardingLevel, got, in)
	}

	got, err := ParseElixirDifficulty("OneOfAKind")
	require.NoError(t, err)
	require.Equal(t, DifficultyOneOfAKind, got)
}

func TestEnumSetsAreClosed(t *testing.T) {
	require.Len(t, SpellTypes, 18)
	require.Len(t, SpellLights, 25)
	require.Len(t, ElixirDifficulties, 6)

	seen := map[string]bool{}
	for _, l := range SpellLights {
		n := normalizeEnum(string(l))
		require.False(t, seen[n], "duplicate light %q", l)
		seen[n] = true
	}
}

func TestSpellDecodeRejectsUnknownLight(t *testing.T) {
	var s Spell
	err := json.Unmarshal([]byte(`{"id":"1","name":"Lumos","light":"Ultraviolet"}`), &s)
	require.ErrorContains(t, err, "unknown spell light")
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("Spell")
	require.NoError(t, err)
	require.Equal(t, KindSpells, k)
	require.Equal(t, "/Spells", k.Path())
	require.Equal(t, "Spells", k.Label())

	_, err = ParseKind("dragons")
	require.ErrorIs(t, err, ErrUnknownKind)
}

func TestValidate(t *testing.T) {
	require.NoError(t, House{ID: "h1", Name: "Gryffindor"}.Validate())
	require.Error(t, House{ID: "h1"}.Validate())
	require.Error(t, Spell{Name: "Lumos"}.Validate())
	require.NoError(t, Wizard{ID: "w1"}.Validate())

	err := Elixir{ID: "e1", Name: "Felix Felicis", Ingredients: []Ingredient{{Name: "Ashwinder egg"}}}.Validate()
	require.ErrorContains(t, err, "ingredients[0]")
}

func TestWizardDisplay(t *testing.T) {
	w := &Wizard{ID: "w1", FirstName: "Severus", LastName: "Snape", Elixirs: []WizardElixir{{ID: "e1"}, {ID: "e2"}}}
	require.Equal(t, "Severus Snape", w.GetTitle())
	require.Equal(t, "2 elixirs", w.GetDescription())
	require.Equal(t, "Unknown wizard", (&Wizard{ID: "w2"}).FullName())
}
