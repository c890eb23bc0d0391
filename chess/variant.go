package chess

import "strings"

// Variant is the rules-set a game was played under.
type Variant string

const (
	VariantClassic                 Variant = "classic"
	VariantSuicide                 Variant = "suicide"
	VariantLosers                  Variant = "losers"
	VariantAtomic                  Variant = "atomic"
	VariantCrazyhouse              Variant = "crazyhouse"
	VariantBughouse                Variant = "bughouse"
	VariantFischerRandom           Variant = "fischer-random"
	VariantFischerRandomBughouse   Variant = "fischer-random-bughouse"
	VariantFischerRandomCrazyhouse Variant = "fischer-random-crazyhouse"
	VariantWild                    Variant = "wild"
)

var variantAliases = map[string]Variant{
	"":                          VariantClassic,
	"standard":                  VariantClassic,
	"chess":                     VariantClassic,
	"classic":                   VariantClassic,
	"suicide":                   VariantSuicide,
	"losers":                    VariantLosers,
	"atomic":                    VariantAtomic,
	"crazyhouse":                VariantCrazyhouse,
	"bughouse":                  VariantBughouse,
	"chess960":                  VariantFischerRandom,
	"fischerandom":              VariantFischerRandom,
	"fischer-random":            VariantFischerRandom,
	"fischer-random-bughouse":   VariantFischerRandomBughouse,
	"fischer-random-crazyhouse": VariantFischerRandomCrazyhouse,
	"wild":                      VariantWild,
}

// VariantFromName maps a PGN Variant header (or a user-typed name) to a
// Variant. Unrecognized names map to themselves so partition keys stay
// distinct even for variants this package does not know about.
func VariantFromName(name string) Variant {
	key := strings.ToLower(strings.TrimSpace(name))
	if v, ok := variantAliases[key]; ok {
		return v
	}
	return Variant(key)
}
