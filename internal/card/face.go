package card

import (
	"strconv"
	"strings"
)

// Field is one labelled line of a rendered card.
type Field struct {
	Label string
	Value string
}

// String formats the field as "Label: Value".
func (f Field) String() string {
	return f.Label + ": " + f.Value
}

// Presence rules. Each field type gets an explicit check instead of a
// catch-all truthiness test.
func hasText(s string) bool       { return s != "" }
func hasList(ss []string) bool    { return len(ss) > 0 }
func hasNumber(n int) bool        { return n != 0 } // zero is shown as absent
func joinList(ss []string) string { return strings.Join(ss, ", ") }

// Face returns the fields shown on a card in the list. The name is always
// first; set, type, traits, cost, power, hp and rarity follow only when
// present. A cost or power of zero is not shown.
func Face(r Record) []Field {
	fields := []Field{{Label: "Name", Value: r.Name}}
	if hasText(r.Set) {
		fields = append(fields, Field{"Set", r.Set})
	}
	if hasText(r.Type) {
		fields = append(fields, Field{"Type", r.Type})
	}
	if hasList(r.Traits) {
		fields = append(fields, Field{"Traits", joinList(r.Traits)})
	}
	if hasNumber(r.Cost) {
		fields = append(fields, Field{"Cost", strconv.Itoa(r.Cost)})
	}
	if hasNumber(r.Power) {
		fields = append(fields, Field{"Power", strconv.Itoa(r.Power)})
	}
	if hasText(r.HP) {
		fields = append(fields, Field{"HP", r.HP})
	}
	if hasText(r.Rarity) {
		fields = append(fields, Field{"Rarity", r.Rarity})
	}
	return fields
}

// Detail returns the fields shown in the detail overlay: the face plus
// the rest of the record under the same presence rules. Front text is
// returned separately because it is rendered as a paragraph.
func Detail(r Record) (fields []Field, text string) {
	fields = Face(r)
	if hasText(r.Number) {
		fields = append(fields, Field{"Number", r.Number})
	}
	if hasList(r.Aspects) {
		fields = append(fields, Field{"Aspects", joinList(r.Aspects)})
	}
	if hasList(r.Arenas) {
		fields = append(fields, Field{"Arenas", joinList(r.Arenas)})
	}
	if r.Unique {
		fields = append(fields, Field{"Unique", "yes"})
	}
	if r.DoubleSided {
		fields = append(fields, Field{"Double-sided", "yes"})
	}
	if hasText(r.VariantType) {
		fields = append(fields, Field{"Variant", r.VariantType})
	}
	if hasText(r.Artist) {
		fields = append(fields, Field{"Artist", r.Artist})
	}
	if hasText(r.MarketPrice) {
		fields = append(fields, Field{"Market", r.MarketPrice})
	}
	if hasText(r.FoilPrice) {
		fields = append(fields, Field{"Foil", r.FoilPrice})
	}
	if hasText(r.FrontArt) {
		fields = append(fields, Field{"Art", r.FrontArt})
	}
	return fields, r.FrontText
}

// Has reports whether the face of r shows the labelled field.
func Has(r Record, label string) bool {
	for _, f := range Face(r) {
		if f.Label == label {
			return true
		}
	}
	return false
}
