package card

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Raw is one record as returned by the card search API. Field names are
// capitalized the way the API serves them.
//
// Decoding is lenient per field: a value of the wrong JSON type leaves that
// field zero instead of failing the record, and numbers may arrive either
// as JSON numbers or as numeric strings ("3").
type Raw struct {
	Set         string   `json:"Set"`
	Number      string   `json:"Number"`
	Name        string   `json:"Name"`
	Type        string   `json:"Type"`
	Aspects     []string `json:"Aspects"`
	Traits      []string `json:"Traits"`
	Arenas      []string `json:"Arenas"`
	Cost        int      `json:"Cost"`
	Power       int      `json:"Power"`
	HP          string   `json:"HP"`
	FrontText   string   `json:"FrontText"`
	DoubleSided bool     `json:"DoubleSided"`
	Rarity      string   `json:"Rarity"`
	Unique      bool     `json:"Unique"`
	Artist      string   `json:"Artist"`
	VariantType string   `json:"VariantType"`
	MarketPrice string   `json:"MarketPrice"`
	FoilPrice   string   `json:"FoilPrice"`
	FrontArt    string   `json:"FrontArt"`
}

// UnmarshalJSON implements json.Unmarshaler. A non-object value decodes to
// the zero Raw without error.
func (r *Raw) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil || fields == nil {
		*r = Raw{}
		return nil
	}

	*r = Raw{
		Set:         decodeString(fields["Set"]),
		Number:      decodeString(fields["Number"]),
		Name:        decodeString(fields["Name"]),
		Type:        decodeString(fields["Type"]),
		Aspects:     decodeStrings(fields["Aspects"]),
		Traits:      decodeStrings(fields["Traits"]),
		Arenas:      decodeStrings(fields["Arenas"]),
		Cost:        decodeInt(fields["Cost"]),
		Power:       decodeInt(fields["Power"]),
		HP:          decodeString(fields["HP"]),
		FrontText:   decodeString(fields["FrontText"]),
		DoubleSided: decodeBool(fields["DoubleSided"]),
		Rarity:      decodeString(fields["Rarity"]),
		Unique:      decodeBool(fields["Unique"]),
		Artist:      decodeString(fields["Artist"]),
		VariantType: decodeString(fields["VariantType"]),
		MarketPrice: decodeString(fields["MarketPrice"]),
		FoilPrice:   decodeString(fields["FoilPrice"]),
		FrontArt:    decodeString(fields["FrontArt"]),
	}
	return nil
}

// DecodeList decodes a JSON value that should be an array of raw records.
// Anything that is not an array yields an empty slice.
func DecodeList(data json.RawMessage) []Raw {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return []Raw{}
	}
	var raws []Raw
	if err := json.Unmarshal(trimmed, &raws); err != nil {
		return []Raw{}
	}
	if raws == nil {
		return []Raw{}
	}
	return raws
}

func decodeString(v json.RawMessage) string {
	if len(v) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}
	// Numbers keep their literal text, e.g. HP served as 5.
	var n json.Number
	if err := json.Unmarshal(v, &n); err == nil {
		return n.String()
	}
	return ""
}

func decodeStrings(v json.RawMessage) []string {
	if len(v) == 0 {
		return nil
	}
	var ss []string
	if err := json.Unmarshal(v, &ss); err == nil {
		return ss
	}
	// Some exports flatten lists to a comma-separated string.
	var s string
	if err := json.Unmarshal(v, &s); err == nil && s != "" {
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return nil
}

func decodeInt(v json.RawMessage) int {
	if len(v) == 0 {
		return 0
	}
	var text string
	var n json.Number
	if err := json.Unmarshal(v, &n); err == nil {
		text = n.String()
	} else if err := json.Unmarshal(v, &text); err != nil {
		return 0
	}
	text = strings.TrimSpace(text)
	if i, err := strconv.Atoi(text); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return int(f)
	}
	return 0
}

func decodeBool(v json.RawMessage) bool {
	if len(v) == 0 {
		return false
	}
	var b bool
	if err := json.Unmarshal(v, &b); err == nil {
		return b
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		parsed, err := strconv.ParseBool(strings.TrimSpace(s))
		return err == nil && parsed
	}
	return false
}
