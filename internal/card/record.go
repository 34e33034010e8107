// Package card defines the normalized card record, the mapping from the
// search API's raw shape, ordering, and the field-presence rules used to
// render a card face.
package card

// Record is the normalized card shape used throughout the UI.
// ID is derived from Set and Number and is never supplied by the source.
type Record struct {
	Set         string   `json:"set"`
	Number      string   `json:"number"`
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Aspects     []string `json:"aspects"`
	Traits      []string `json:"traits"`
	Arenas      []string `json:"arenas"`
	Cost        int      `json:"cost"`
	Power       int      `json:"power"`
	HP          string   `json:"hp"`
	FrontText   string   `json:"fronttext"`
	DoubleSided bool     `json:"doublesided"`
	Rarity      string   `json:"rarity"`
	Unique      bool     `json:"unique"`
	Artist      string   `json:"artist"`
	VariantType string   `json:"varianttype"`
	MarketPrice string   `json:"marketprice"`
	FoilPrice   string   `json:"foilprice"`
	FrontArt    string   `json:"frontArt"`
	ID          string   `json:"id"`
}

// ID derives the list key for a card: set + "-" + number.
func ID(set, number string) string {
	return set + "-" + number
}

// Normalize maps a raw search record onto a Record field by field.
// No validation happens here; absent raw fields stay zero.
func Normalize(raw Raw) Record {
	return Record{
		Set:         raw.Set,
		Number:      raw.Number,
		Name:        raw.Name,
		Type:        raw.Type,
		Aspects:     raw.Aspects,
		Traits:      raw.Traits,
		Arenas:      raw.Arenas,
		Cost:        raw.Cost,
		Power:       raw.Power,
		HP:          raw.HP,
		FrontText:   raw.FrontText,
		DoubleSided: raw.DoubleSided,
		Rarity:      raw.Rarity,
		Unique:      raw.Unique,
		Artist:      raw.Artist,
		VariantType: raw.VariantType,
		MarketPrice: raw.MarketPrice,
		FoilPrice:   raw.FoilPrice,
		FrontArt:    raw.FrontArt,
		ID:          ID(raw.Set, raw.Number),
	}
}

// NormalizeAll normalizes every raw record, preserving order.
// A nil or empty input yields an empty, non-nil slice.
func NormalizeAll(raws []Raw) []Record {
	out := make([]Record, 0, len(raws))
	for _, raw := range raws {
		out = append(out, Normalize(raw))
	}
	return out
}

// Dedupe collapses records sharing an ID. The last record with a given ID
// wins, and it takes the list position of the first occurrence. Returns
// the collapsed slice and how many duplicates were dropped.
func Dedupe(records []Record) ([]Record, int) {
	pos := make(map[string]int, len(records))
	out := make([]Record, 0, len(records))
	dropped := 0
	for _, r := range records {
		if i, ok := pos[r.ID]; ok {
			out[i] = r
			dropped++
			continue
		}
		pos[r.ID] = len(out)
		out = append(out, r)
	}
	return out, dropped
}
