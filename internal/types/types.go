package types

import "time"

// EntityType names the category of a detected value (EMAIL, CARD, PERSON...).
type EntityType string

const (
	EntityPerson      EntityType = "PERSON"
	EntitySingleName  EntityType = "SINGLE_NAME"
	EntityOrg         EntityType = "ORG"
	EntityEmail       EntityType = "EMAIL"
	EntityPhone       EntityType = "PHONE"
	EntityPostcode    EntityType = "POSTCODE"
	EntityCard        EntityType = "CARD"
	EntityNINumber    EntityType = "NI_NUMBER"
	EntityNHSNumber   EntityType = "NHS_NUMBER"
	EntityIBAN        EntityType = "IBAN"
	EntitySortCode    EntityType = "SORT_CODE"
	EntityURL         EntityType = "URL"
	EntityIPAddress   EntityType = "IP_ADDRESS"
	EntityDateOfBirth EntityType = "DATE_OF_BIRTH"
	EntityPassport    EntityType = "PASSPORT"
	EntityCustom      EntityType = "CUSTOM"
)

// EntityTypes lists the built-in entity types in display order.
func EntityTypes() []EntityType {
	return []EntityType{
		EntityPerson, EntitySingleName, EntityOrg, EntityEmail, EntityPhone,
		EntityPostcode, EntityCard, EntityNINumber, EntityNHSNumber, EntityIBAN,
		EntitySortCode, EntityURL, EntityIPAddress, EntityDateOfBirth, EntityPassport,
		EntityCustom,
	}
}

// StrategyName selects the transform applied to an accepted match.
type StrategyName string

const (
	StrategyRedact    StrategyName = "REDACT"
	StrategyMask      StrategyName = "MASK"
	StrategyHash      StrategyName = "HASH"
	StrategyPseudonym StrategyName = "PSEUDONYM"
)

// Strategies lists the recognised strategy names.
func Strategies() []StrategyName {
	return []StrategyName{StrategyRedact, StrategyMask, StrategyHash, StrategyPseudonym}
}

// Match is one candidate PII span. Start and End are byte offsets into the
// text handed to the detection pass, half-open, with Start < End.
type Match struct {
	Type       EntityType `json:"type"`
	Value      string     `json:"value"`
	Start      int        `json:"start"`
	End        int        `json:"end"`
	Confidence float64    `json:"confidence"`
	Detector   string     `json:"detector"`
}

// Overlaps reports whether m and o share at least one byte.
func (m Match) Overlaps(o Match) bool {
	return m.Start < o.End && m.End > o.Start
}

// Len returns the byte length of the span.
func (m Match) Len() int { return m.End - m.Start }

// Summary aggregates what a run changed.
type Summary struct {
	TotalMatches    int                  `json:"totalMatches"`
	ByType          map[EntityType]int   `json:"byType"`
	ByStrategy      map[StrategyName]int `json:"byStrategy"`
	DetectorVersion string               `json:"detectorVersion"`
}

// Result is the output of one anonymization call.
type Result struct {
	OriginalText   string  `json:"originalText"`
	AnonymizedText string  `json:"anonymizedText"`
	Matches        []Match `json:"matches"`
	Summary        Summary `json:"summary"`
	DurationMs     int64   `json:"durationMs"`
}

// PseudonymMapping records the label assigned to one hashed value.
type PseudonymMapping struct {
	PIIHash     string     `json:"piiHash"`
	Type        EntityType `json:"type"`
	Label       string     `json:"label"`
	FirstSeenAt time.Time  `json:"firstSeenAt"`
}
