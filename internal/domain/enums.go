package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
)

// SpellType is the closed set of spell categories
type SpellType string

const (
	SpellTypeNone                   SpellType = "None"
	SpellTypeCharm                  SpellType = "Charm"
	SpellTypeConjuration            SpellType = "Conjuration"
	SpellTypeSpell                  SpellType = "Spell"
	SpellTypeTransfiguration        SpellType = "Transfiguration"
	SpellTypeHealingSpell           SpellType = "Healing Spell"
	SpellTypeDarkCharm              SpellType = "Dark Charm"
	SpellTypeJinx                   SpellType = "Jinx"
	SpellTypeCurse                  SpellType = "Curse"
	SpellTypeMagicalTransportation  SpellType = "Magical Transportation"
	SpellTypeHex                    SpellType = "Hex"
	SpellTypeCounterSpell           SpellType = "Counter Spell"
	SpellTypeDarkArts               SpellType = "Dark Arts"
	SpellTypeCounterJinx            SpellType = "Counter Jinx"
	SpellTypeCounterCharm           SpellType = "Counter Charm"
	SpellTypeUntransfiguration      SpellType = "Un-transfiguration"
	SpellTypeBindingMagicalContract SpellType = "Binding Magical Contract"
	SpellTypeVanishment             SpellType = "Vanishment"
)

// SpellTypes lists every SpellType in declaration order
var SpellTypes = []SpellType{
	SpellTypeNone, SpellTypeCharm, SpellTypeConjuration, SpellTypeSpell,
	SpellTypeTransfiguration, SpellTypeHealingSpell, SpellTypeDarkCharm,
	SpellTypeJinx, SpellTypeCurse, SpellTypeMagicalTransportation, SpellTypeHex,
	SpellTypeCounterSpell, SpellTypeDarkArts, SpellTypeCounterJinx,
	SpellTypeCounterCharm, SpellTypeUntransfiguration,
	SpellTypeBindingMagicalContract, SpellTypeVanishment,
}

// SpellLight is the closed set of colours and patterns a spell can emit
type SpellLight string

const (
	SpellLightNone                       SpellLight = "None"
	SpellLightBlue                       SpellLight = "Blue"
	SpellLightIcyBlue                    SpellLight = "Icy Blue"
	SpellLightRed                        SpellLight = "Red"
	SpellLightGold                       SpellLight = "Gold"
	SpellLightPurple                     SpellLight = "Purple"
	SpellLightTransparent                SpellLight = "Transparent"
	SpellLightWhite                      SpellLight = "White"
	SpellLightGreen                      SpellLight = "Green"
	SpellLightOrange                     SpellLight = "Orange"
	SpellLightYellow                     SpellLight = "Yellow"
	SpellLightBrightBlue                 SpellLight = "Bright Blue"
	SpellLightPink                       SpellLight = "Pink"
	SpellLightViolet                     SpellLight = "Violet"
	SpellLightBlueishWhite               SpellLight = "Blueish White"
	SpellLightSilver                     SpellLight = "Silver"
	SpellLightScarlet                    SpellLight = "Scarlet"
	SpellLightFire                       SpellLight = "Fire"
	SpellLightFieryScarlet               SpellLight = "Fiery Scarlet"
	SpellLightGrey                       SpellLight = "Grey"
	SpellLightDarkRed                    SpellLight = "Dark Red"
	SpellLightTurquoise                  SpellLight = "Turquoise"
	SpellLightPsychedelicTransparentWave SpellLight = "Psychedelic Transparent Wave"
	SpellLightBrightYellow               SpellLight = "Bright Yellow"
	SpellLightBlackSmoke                 SpellLight = "Black Smoke"
)

// SpellLights lists every SpellLight in declaration order
var SpellLights = []SpellLight{
	SpellLightNone, SpellLightBlue, SpellLightIcyBlue, SpellLightRed,
	SpellLightGold, SpellLightPurple, SpellLightTransparent, SpellLightWhite,
	SpellLightGreen, SpellLightOrange, SpellLightYellow, SpellLightBrightBlue,
	SpellLightPink, SpellLightViolet, SpellLightBlueishWhite, SpellLightSilver,
	SpellLightScarlet, SpellLightFire, SpellLightFieryScarlet, SpellLightGrey,
	SpellLightDarkRed, SpellLightTurquoise,
	SpellLightPsychedelicTransparentWave, SpellLightBrightYellow,
	SpellLightBlackSmoke,
}

// ElixirDifficulty is the closed set of brewing difficulty levels
type ElixirDifficulty string

const (
	DifficultyUnknown                ElixirDifficulty = "Unknown"
	DifficultyAdvanced               ElixirDifficulty = "Advanced"
	DifficultyModerate               ElixirDifficulty = "Moderate"
	DifficultyBeginner               ElixirDifficulty = "Beginner"
	DifficultyOrdinaryWizardingLevel ElixirDifficulty = "O.W.L"
	DifficultyOneOfAKind             ElixirDifficulty = "One Of A Kind"
)

// ElixirDifficulties lists every ElixirDifficulty in declaration order
var ElixirDifficulties = []ElixirDifficulty{
	DifficultyUnknown, DifficultyAdvanced, DifficultyModerate,
	DifficultyBeginner, DifficultyOrdinaryWizardingLevel, DifficultyOneOfAKind,
}

// Wire identifiers that do not normalize to their display value
var difficultyAliases = map[string]ElixirDifficulty{
	"ordinarywizardinglevel": DifficultyOrdinaryWizardingLevel,
}

func (t *SpellType) UnmarshalJSON(data []byte) error {
	v, err := decodeEnum(data, "spell type", SpellTypes, nil)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

func (l *SpellLight) UnmarshalJSON(data []byte) error {
	v, err := decodeEnum(data, "spell light", SpellLights, nil)
	if err != nil {
		return err
	}
	*l = v
	return nil
}

func (d *ElixirDifficulty) UnmarshalJSON(data []byte) error {
	v, err := decodeEnum(data, "elixir difficulty", ElixirDifficulties, difficultyAliases)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// ParseSpellType resolves a display or wire name to a SpellType
func ParseSpellType(s string) (SpellType, error) {
	return parseEnum(s, "spell type", SpellTypes, nil)
}

// ParseSpellLight resolves a display or wire name to a SpellLight
func ParseSpellLight(s string) (SpellLight, error) {
	return parseEnum(s, "spell light", SpellLights, nil)
}

// ParseElixirDifficulty resolves a display or wire name to an ElixirDifficulty
func ParseElixirDifficulty(s string) (ElixirDifficulty, error) {
	return parseEnum(s, "elixir difficulty", ElixirDifficulties, difficultyAliases)
}

// decodeEnum accepts a JSON string (null decodes to the zero value).
func decodeEnum[T ~string](data []byte, what string, values []T, aliases map[string]T) (T, error) {
	if string(data) == "null" {
		return "", nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return "", fmt.Errorf("%s: %w", what, err)
	}
	return parseEnum(raw, what, values, aliases)
}

// parseEnum matches both the display form ("Healing Spell") and the API's
// identifier form ("HealingSpell") by comparing normalized names.
func parseEnum[T ~string](raw, what string, values []T, aliases map[string]T) (T, error) {
	norm := normalizeEnum(raw)
	for _, v := range values {
		if normalizeEnum(string(v)) == norm {
			return v, nil
		}
	}
	if v, ok := aliases[norm]; ok {
		return v, nil
	}
	return "", fmt.Errorf("unknown %s %q", what, raw)
}

func normalizeEnum(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}
