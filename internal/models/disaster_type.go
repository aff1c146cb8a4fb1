package models

import "strings"

type DisasterType int

const (
	DisasterTypeFlood DisasterType = iota + 1
	DisasterTypeFire
	DisasterTypeLandslide
	DisasterTypeEarthquake
	DisasterTypeTsunami
	DisasterTypeOther
)

var disasterTypeNames = map[DisasterType]string{
	DisasterTypeFlood:      "Flood",
	DisasterTypeFire:       "Fire",
	DisasterTypeLandslide:  "Landslide",
	DisasterTypeEarthquake: "Earthquake",
	DisasterTypeTsunami:    "Tsunami",
	DisasterTypeOther:      "Other",
}

// disasterTypeKeywords also accepts the Portuguese keywords used by the
// first version of the reporting console.
var disasterTypeKeywords = map[string]DisasterType{
	"flood":        DisasterTypeFlood,
	"fire":         DisasterTypeFire,
	"landslide":    DisasterTypeLandslide,
	"earthquake":   DisasterTypeEarthquake,
	"tsunami":      DisasterTypeTsunami,
	"enchente":     DisasterTypeFlood,
	"incendio":     DisasterTypeFire,
	"incêndio":     DisasterTypeFire,
	"deslizamento": DisasterTypeLandslide,
	"terremoto":    DisasterTypeEarthquake,
}

// DisasterTypes lists every type in declaration order.
func DisasterTypes() []DisasterType {
	return []DisasterType{
		DisasterTypeFlood,
		DisasterTypeFire,
		DisasterTypeLandslide,
		DisasterTypeEarthquake,
		DisasterTypeTsunami,
		DisasterTypeOther,
	}
}

// ParseDisasterType resolves free text to a DisasterType, ignoring case and
// surrounding whitespace. Text that names no known type resolves to
// DisasterTypeOther, so a typo and a genuine "other" report look the same.
func ParseDisasterType(s string) DisasterType {
	if t, ok := disasterTypeKeywords[strings.ToLower(strings.TrimSpace(s))]; ok {
		return t
	}
	return DisasterTypeOther
}

func (t DisasterType) Valid() bool {
	_, ok := disasterTypeNames[t]
	return ok
}

func (t DisasterType) String() string {
	if name, ok := disasterTypeNames[t]; ok {
		return name
	}
	return "Unknown"
}

// Key is the lowercase identifier used in URLs, JSON and import files.
func (t DisasterType) Key() string {
	return strings.ToLower(t.String())
}

func (t DisasterType) MarshalText() ([]byte, error) {
	return []byte(t.Key()), nil
}

func (t *DisasterType) UnmarshalText(text []byte) error {
	*t = ParseDisasterType(string(text))
	return nil
}
