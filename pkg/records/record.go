package records

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// URLPrefix is the canonical FAIRsharing site prefix. Record URLs starting
// with it carry the public record identifier in their path.
const URLPrefix = "https://fairsharing.org/"

// Record is the outward, schema-stable representation of one FAIRsharing
// record. Optional attributes are pointers so that projections can emit an
// explicit JSON null when the upstream omitted them.
type Record struct {
	ID              string
	Registry        string
	RecordType      string
	Name            string
	Description     string
	Abbreviation    string
	DOI             *string
	Homepage        *string
	Status          *string
	URL             string
	Subjects        []string
	Domains         []string
	Taxonomies      []string
	UserDefinedTags []string
	Countries       []string
	Licence         string
	LegacyIDs       []string
	CreatedAt       string
	UpdatedAt       string
}

// ParseRecord extracts a Record from one raw upstream payload. Every field
// falls back to a zero value when missing, so parsing never fails; records
// missing mandatory fields are caught later by IsValid. Both the flat and
// the nested-metadata attribute shapes are understood, and attribute keys may
// use underscore or hyphen naming.
func ParseRecord(payload map[string]any) *Record {
	attrs := childObject(payload, "attributes")
	metadata := childObject(attrs, "metadata")

	return &Record{
		ID:              stringID(payload["id"]),
		Registry:        strings.ToLower(stringAttr(attrs, "fairsharing_registry")),
		RecordType:      strings.ToLower(stringAttr(attrs, "record_type")),
		Name:            stringAttrPreferring(metadata, attrs, "name"),
		Description:     stringAttrPreferring(metadata, attrs, "description"),
		Abbreviation:    stringAttr(attrs, "abbreviation"),
		DOI:             optionalAttr(attrs, "doi"),
		Homepage:        optionalAttr(metadata, "homepage"),
		Status:          optionalAttr(metadata, "status"),
		URL:             stringAttr(attrs, "url"),
		Subjects:        stringListAttr(attrs, "subjects"),
		Domains:         stringListAttr(attrs, "domains"),
		Taxonomies:      stringListAttr(attrs, "taxonomies"),
		UserDefinedTags: stringListAttr(attrs, "user_defined_tags"),
		Countries:       stringListAttr(attrs, "countries"),
		Licence:         stringAttr(attrs, "fairsharing_licence"),
		LegacyIDs:       stringListAttr(attrs, "legacy_ids"),
		CreatedAt:       stringAttr(attrs, "created_at"),
		UpdatedAt:       stringAttr(attrs, "updated_at"),
	}
}

// ParseRecordJSON parses one raw upstream payload given as JSON.
func ParseRecordJSON(data json.RawMessage) *Record {
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return ParseRecord(nil)
	}
	return ParseRecord(payload)
}

// Normalize strips the vendor prefix ("FAIRsharing ...: ") from the name and
// description. Idempotent: once stripped, the remaining text no longer has a
// vendor-bearing prefix before a colon, so re-applying is a no-op.
func (r *Record) Normalize() {
	r.Name = optimizeText(r.Name)
	r.Description = optimizeText(r.Description)
}

// IsValid reports whether the record carries the minimum viable fields.
// Invalid records are dropped before they reach any caller.
func (r *Record) IsValid() bool {
	return r.ID != "" && r.Name != ""
}

// LegacyRecordID derives the public-facing identifier used by the legacy
// schema: the URL path under the canonical site prefix when available, else
// the first legacy identifier starting with "bsg", else "unknown".
func (r *Record) LegacyRecordID() string {
	if strings.HasPrefix(r.URL, URLPrefix) {
		return r.URL[len(URLPrefix):]
	}
	for _, legacyID := range r.LegacyIDs {
		if strings.HasPrefix(legacyID, "bsg") {
			return legacyID
		}
	}
	return "unknown"
}

// ToCanonical projects the record to the canonical response schema. Note
// that subjects are exposed as "disciplines" outward.
func (r *Record) ToCanonical() CanonicalRecord {
	return CanonicalRecord{
		ID:              r.ID,
		Registry:        r.Registry,
		RecordType:      r.RecordType,
		Name:            r.Name,
		Abbreviation:    r.Abbreviation,
		Description:     r.Description,
		DOI:             r.DOI,
		URL:             r.URL,
		Homepage:        r.Homepage,
		Countries:       r.Countries,
		Disciplines:     r.Subjects,
		Domains:         r.Domains,
		Taxonomies:      r.Taxonomies,
		UserDefinedTags: r.UserDefinedTags,
		LegacyIDs:       r.LegacyIDs,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

// ToLegacy projects the record to the v0.3 compatibility schema.
func (r *Record) ToLegacy() LegacyRecord {
	return LegacyRecord{
		RecordID:        r.LegacyRecordID(),
		Name:            r.Name,
		Shortname:       r.Abbreviation,
		Description:     r.Description,
		Registry:        r.Registry,
		Type:            r.RecordType,
		Subtype:         nil,
		DOI:             r.DOI,
		Countries:       r.Countries,
		OntoDisciplines: r.Subjects,
		OntoDomains:     r.Domains,
		Taxonomies:      r.Taxonomies,
		UserDefinedTags: r.UserDefinedTags,
	}
}

// optimizeText removes a "<vendor>: " prefix when the part before the first
// colon mentions FAIRsharing, and trims surrounding whitespace either way.
func optimizeText(text string) string {
	prefix, rest, found := strings.Cut(text, ":")
	if found && strings.Contains(prefix, "FAIRsharing") {
		return strings.TrimSpace(rest)
	}
	return strings.TrimSpace(text)
}

// CanonicalRecord is the canonical outward projection of a Record.
type CanonicalRecord struct {
	ID              string   `json:"id"`
	Registry        string   `json:"registry"`
	RecordType      string   `json:"record_type"`
	Name            string   `json:"name"`
	Abbreviation    string   `json:"abbreviation"`
	Description     string   `json:"description"`
	DOI             *string  `json:"doi"`
	URL             string   `json:"url"`
	Homepage        *string  `json:"homepage"`
	Countries       []string `json:"countries"`
	Disciplines     []string `json:"disciplines"`
	Domains         []string `json:"domains"`
	Taxonomies      []string `json:"taxonomies"`
	UserDefinedTags []string `json:"user_defined_tags"`
	LegacyIDs       []string `json:"legacy_ids"`
	CreatedAt       string   `json:"created_at"`
	UpdatedAt       string   `json:"updated_at"`
}

// LegacyRecord is the v0.3 compatibility projection of a Record.
type LegacyRecord struct {
	RecordID        string   `json:"record_id"`
	Name            string   `json:"name"`
	Shortname       string   `json:"shortname"`
	Description     string   `json:"description"`
	Registry        string   `json:"registry"`
	Type            string   `json:"type"`
	Subtype         *string  `json:"subtype"`
	DOI             *string  `json:"doi"`
	Countries       []string `json:"countries"`
	OntoDisciplines []string `json:"onto_disciplines"`
	OntoDomains     []string `json:"onto_domains"`
	Taxonomies      []string `json:"taxonomies"`
	UserDefinedTags []string `json:"user_defined_tags"`
}

// attrValue looks up key in obj, accepting hyphenated naming as a fallback
// for underscore keys.
func attrValue(obj map[string]any, key string) (any, bool) {
	if obj == nil {
		return nil, false
	}
	if value, ok := obj[key]; ok {
		return value, true
	}
	if hyphenated := strings.ReplaceAll(key, "_", "-"); hyphenated != key {
		if value, ok := obj[hyphenated]; ok {
			return value, true
		}
	}
	return nil, false
}

func childObject(obj map[string]any, key string) map[string]any {
	value, ok := attrValue(obj, key)
	if !ok {
		return nil
	}
	child, _ := value.(map[string]any)
	return child
}

func stringAttr(obj map[string]any, key string) string {
	value, ok := attrValue(obj, key)
	if !ok {
		return ""
	}
	text, _ := value.(string)
	return text
}

// stringAttrPreferring reads key from preferred first, falling back to obj.
// This implements the metadata-over-attributes precedence.
func stringAttrPreferring(preferred, obj map[string]any, key string) string {
	if text := stringAttr(preferred, key); text != "" {
		return text
	}
	return stringAttr(obj, key)
}

func optionalAttr(obj map[string]any, key string) *string {
	value, ok := attrValue(obj, key)
	if !ok || value == nil {
		return nil
	}
	text, ok := value.(string)
	if !ok {
		return nil
	}
	return &text
}

func stringListAttr(obj map[string]any, key string) []string {
	result := []string{}
	value, ok := attrValue(obj, key)
	if !ok {
		return result
	}
	items, ok := value.([]any)
	if !ok {
		return result
	}
	for _, item := range items {
		if text, ok := item.(string); ok {
			result = append(result, text)
		}
	}
	return result
}

// stringID renders the upstream id, which arrives as either a JSON number or
// a string, as a string.
func stringID(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
