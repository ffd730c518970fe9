package records

// Licence is the fixed attribution string of the legacy response envelope.
const Licence = "https://creativecommons.org/licenses/by-sa/4.0/. " +
	"Please link to https://fairsharing.org and " +
	"https://fairsharing.org/static/img/home/svg/FAIRsharing-logo.svg " +
	"for attribution."

// Note is the fixed attribution string carried by both response envelopes.
const Note = "Proxied for use in Data Stewardship Wizard " +
	"(see https://ds-wizard.org for more)"

// LegacyAPIVersion is the version tag of the legacy response envelope.
const LegacyAPIVersion = "v0.3"

// RecordSet is the ordered result of one search, already reduced to valid
// records. Order follows the upstream response.
type RecordSet struct {
	Records []*Record
}

// NewRecordSet normalizes the given records and keeps the valid ones,
// preserving upstream order.
func NewRecordSet(recs []*Record) *RecordSet {
	kept := make([]*Record, 0, len(recs))
	for _, rec := range recs {
		rec.Normalize()
		if rec.IsValid() {
			kept = append(kept, rec)
		}
	}
	return &RecordSet{Records: kept}
}

// Links is the pagination block of the canonical envelope. The proxy performs
// single-page searches only, so every link is null.
type Links struct {
	Self  *string `json:"self"`
	First *string `json:"first"`
	Prev  *string `json:"prev"`
	Next  *string `json:"next"`
	Last  *string `json:"last"`
}

// SearchResponse is the canonical response envelope.
type SearchResponse struct {
	Data  []CanonicalRecord `json:"data"`
	Links Links             `json:"links"`
	Note  string            `json:"note"`
}

// LegacySearchResponse is the v0.3 compatibility response envelope.
type LegacySearchResponse struct {
	APIVersion string         `json:"api_version"`
	Licence    string         `json:"licence"`
	Results    []LegacyRecord `json:"results"`
	Note       string         `json:"note"`
}

// ToResponse projects the set to the canonical envelope.
func (s *RecordSet) ToResponse() *SearchResponse {
	data := make([]CanonicalRecord, 0, len(s.Records))
	for _, rec := range s.Records {
		data = append(data, rec.ToCanonical())
	}
	return &SearchResponse{Data: data, Note: Note}
}

// ToLegacyResponse projects the set to the legacy envelope.
func (s *RecordSet) ToLegacyResponse() *LegacySearchResponse {
	results := make([]LegacyRecord, 0, len(s.Records))
	for _, rec := range s.Records {
		results = append(results, rec.ToLegacy())
	}
	return &LegacySearchResponse{
		APIVersion: LegacyAPIVersion,
		Licence:    Licence,
		Results:    results,
		Note:       Note,
	}
}
