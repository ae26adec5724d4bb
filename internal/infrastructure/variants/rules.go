// Package variants discovers pack-size variants of a product from free text.
package variants

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/pricescout/backend/internal/domain"
)

// sizeMentionRegex matches "500ml", "1.5 L", "2 kg", "250 gms", "6 pack"
var sizeMentionRegex = regexp.MustCompile(
	`(?i)\b(\d+(?:\.\d+)?)\s*(ml|millilitres?|milliliters?|ltrs?|litres?|liters?|l|kgs?|kilograms?|gms?|grams?|g|oz|ounces?|pack|pcs)\b`,
)

// unitAliases maps spellings to the canonical unit
var unitAliases = map[string]string{
	"ml": "ml", "millilitre": "ml", "millilitres": "ml", "milliliter": "ml", "milliliters": "ml",
	"l": "l", "ltr": "l", "ltrs": "l", "litre": "l", "litres": "l", "liter": "l", "liters": "l",
	"kg": "kg", "kgs": "kg", "kilogram": "kg", "kilograms": "kg",
	"g": "g", "gm": "g", "gms": "g", "gram": "g", "grams": "g",
	"oz": "oz", "ounce": "oz", "ounces": "oz",
	"pack": "pack", "pcs": "pack",
}

// RuleExtractor finds size mentions with regular expressions
type RuleExtractor struct{}

// NewRuleExtractor creates a deterministic variant extractor
func NewRuleExtractor() *RuleExtractor {
	return &RuleExtractor{}
}

// ExtractVariants returns the distinct size mentions in text in order of first appearance
func (e *RuleExtractor) ExtractVariants(ctx context.Context, product, text string) ([]domain.Variant, error) {
	return ParseSizeMentions(text), nil
}

// ParseSizeMentions extracts canonical {size, unit} tuples from text
func ParseSizeMentions(text string) []domain.Variant {
	variants := []domain.Variant{}
	seen := make(map[domain.Variant]bool)

	for _, loc := range sizeMentions(text) {
		size, _ := strconv.ParseFloat(text[loc[2]:loc[3]], 64)
		v := domain.Variant{Size: size, Unit: unitAliases[strings.ToLower(text[loc[4]:loc[5]])]}
		if seen[v] {
			continue
		}
		seen[v] = true
		variants = append(variants, v)
	}

	return variants
}

// FirstSizeMention returns the first size mention as written ("1 kg") and the
// text with every size mention removed.
func FirstSizeMention(text string) (string, string) {
	locs := sizeMentions(text)
	if len(locs) == 0 {
		return "", strings.Join(strings.Fields(text), " ")
	}

	var b strings.Builder
	prev := 0
	for _, loc := range locs {
		b.WriteString(text[prev:loc[0]])
		b.WriteString(" ")
		prev = loc[1]
	}
	b.WriteString(text[prev:])

	return text[locs[0][0]:locs[0][1]], strings.Join(strings.Fields(b.String()), " ")
}

// sizeMentions returns submatch indices of the usable size mentions.
// "4G"/"5G" are network generations, not grams.
func sizeMentions(text string) [][]int {
	var out [][]int
	for _, loc := range sizeMentionRegex.FindAllStringSubmatchIndex(text, -1) {
		size, err := strconv.ParseFloat(text[loc[2]:loc[3]], 64)
		if err != nil || size <= 0 {
			continue
		}
		unit := text[loc[4]:loc[5]]
		if _, ok := unitAliases[strings.ToLower(unit)]; !ok {
			continue
		}
		if unit == "G" && loc[3] == loc[4] && size < 10 {
			continue
		}
		out = append(out, loc)
	}
	return out
}
