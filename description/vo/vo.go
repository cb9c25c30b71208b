package vo

import (
	"encoding/json"
	"slices"
)

// SearchType names the search index a SearchLink term is queried against.
type SearchType string

const (
	SearchTypeAllFields SearchType = "AllFields"
	SearchTypeTitle     SearchType = "Title"
	SearchTypePerson    SearchType = "Person"
	SearchTypeSubject   SearchType = "Subject"
	SearchTypeID        SearchType = "Id"
	SearchTypeIsn       SearchType = "Isn"
	SearchTypeNumbers   SearchType = "Numbers"
	SearchTypeClass     SearchType = "Class"
	SearchTypeBK        SearchType = "BK"
)

// TextDomainCreatorRoles is the translation namespace of relator codes.
const TextDomainCreatorRoles = "CreatorRoles"

// DisplayValue is one of Text, Sequence, SearchLink or ExternalLink.
//
// All implementations are value types; a DisplayValue cannot be changed once
// it has been stored in a result list.
type DisplayValue interface {
	Kind() string
	isDisplayValue()
}

type Text struct {
	Text         string `json:"text"`
	Prefix       string `json:"prefix,omitempty"`
	Suffix       string `json:"suffix,omitempty"`
	Translatable bool   `json:"translatable,omitempty"`
	TextDomain   string `json:"textDomain,omitempty"`
}

// NewTexts returns one Text per value.
func NewTexts(values []string, translatable bool) []DisplayValue {
	texts := make([]DisplayValue, 0, len(values))
	for _, v := range values {
		texts = append(texts, Text{Text: v, Translatable: translatable})
	}
	return texts
}

func (Text) Kind() string    { return "text" }
func (Text) isDisplayValue() {}

func (t Text) MarshalJSON() ([]byte, error) {
	type text Text
	return marshalKind(t.Kind(), text(t))
}

// Sequence is an ordered composite of display values.
type Sequence struct {
	separator string
	values    []DisplayValue
}

// NewSequence copies values into a new Sequence.
func NewSequence(separator string, values ...DisplayValue) Sequence {
	return Sequence{separator: separator, values: slices.Clone(values)}
}

func (s Sequence) Separator() string { return s.separator }

// Values returns a copy of the children in display order.
func (s Sequence) Values() []DisplayValue { return slices.Clone(s.values) }

func (s Sequence) Len() int { return len(s.values) }

func (Sequence) Kind() string    { return "sequence" }
func (Sequence) isDisplayValue() {}

func (s Sequence) MarshalJSON() ([]byte, error) {
	values := s.values
	if values == nil {
		values = []DisplayValue{}
	}
	return marshalKind(s.Kind(), struct {
		Separator string         `json:"separator,omitempty"`
		Values    []DisplayValue `json:"values"`
	}{s.separator, values})
}

// SearchLink is a cross reference into the catalog search.
type SearchLink struct {
	Label  string     `json:"label"`
	Type   SearchType `json:"searchType"`
	Term   string     `json:"searchTerm"`
	Quoted bool       `json:"quoted,omitempty"`
	Prefix string     `json:"prefix,omitempty"`
	Suffix string     `json:"suffix,omitempty"`
}

// NewSearchLink returns a link searching all fields for its own label.
func NewSearchLink(label string) SearchLink {
	return SearchLink{Label: label, Type: SearchTypeAllFields, Term: label}
}

func (SearchLink) Kind() string    { return "searchLink" }
func (SearchLink) isDisplayValue() {}

func (l SearchLink) MarshalJSON() ([]byte, error) {
	type searchLink SearchLink
	return marshalKind(l.Kind(), searchLink(l))
}

type ExternalLink struct {
	URL   string `json:"url"`
	Label string `json:"label"`
}

func (ExternalLink) Kind() string    { return "externalLink" }
func (ExternalLink) isDisplayValue() {}

func (l ExternalLink) MarshalJSON() ([]byte, error) {
	type externalLink ExternalLink
	return marshalKind(l.Kind(), externalLink(l))
}

// marshalKind flattens v into an object carrying a "type" discriminator.
func marshalKind(kind string, v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	fields["type"], _ = json.Marshal(kind)
	return json.Marshal(fields)
}
