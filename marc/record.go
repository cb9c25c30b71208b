package marc

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTypeMismatch is returned when a structured field is expected but the
	// record stores a control field under the tag.
	ErrTypeMismatch = errors.New("marc: type mismatch")
	// ErrInvalidRecord is returned by the decoders for structurally broken input.
	ErrInvalidRecord = errors.New("marc: invalid record")
)

// Field is either a *ControlField or a *DataField.
type Field interface {
	FieldTag() string
	isField()
}

type ControlField struct {
	Tag   string
	Value string
}

func (f *ControlField) FieldTag() string { return f.Tag }
func (*ControlField) isField()          {}

type Subfield struct {
	Code  string
	Value string
}

type DataField struct {
	Tag       string
	Ind1      byte
	Ind2      byte
	Subfields []Subfield
}

func (f *DataField) FieldTag() string { return f.Tag }
func (*DataField) isField()          {}

// Subfield returns the first subfield value with the given code.
func (f *DataField) Subfield(code string) (string, bool) {
	for _, sf := range f.Subfields {
		if sf.Code == code {
			return sf.Value, true
		}
	}
	return "", false
}

// SubfieldValue is Subfield without the presence flag.
func (f *DataField) SubfieldValue(code string) string {
	v, _ := f.Subfield(code)
	return v
}

// SubfieldValues returns all values of a repeatable subfield in field order.
func (f *DataField) SubfieldValues(code string) []string {
	var values []string
	for _, sf := range f.Subfields {
		if sf.Code == code {
			values = append(values, sf.Value)
		}
	}
	return values
}

// Pick returns the first value of each code, aligned with codes. Missing
// subfields yield an empty string.
func (f *DataField) Pick(codes ...string) []string {
	values := make([]string, len(codes))
	found := make([]bool, len(codes))
	for _, sf := range f.Subfields {
		for i, code := range codes {
			if !found[i] && sf.Code == code {
				values[i] = sf.Value
				found[i] = true
				break
			}
		}
	}
	return values
}

// Record is a MARC21 record. Fields are kept in document order.
type Record struct {
	Leader string
	Fields []Field
}

// FieldsForTag returns all fields with the tag in document order.
func (r *Record) FieldsForTag(tag string) []Field {
	var fields []Field
	for _, f := range r.Fields {
		if f.FieldTag() == tag {
			fields = append(fields, f)
		}
	}
	return fields
}

// DataFields returns the data fields with the tag in document order.
func (r *Record) DataFields(tag string) []*DataField {
	var fields []*DataField
	for _, f := range r.Fields {
		if df, ok := f.(*DataField); ok && df.Tag == tag {
			fields = append(fields, df)
		}
	}
	return fields
}

// DataField returns the field of a non-repeating tag. It returns nil when the
// tag is absent and the first occurrence when the record repeats it anyway.
func (r *Record) DataField(tag string) (*DataField, error) {
	for _, f := range r.Fields {
		if f.FieldTag() != tag {
			continue
		}
		switch field := f.(type) {
		case *DataField:
			return field, nil
		case *ControlField:
			return nil, fmt.Errorf("%w: tag %s holds a control field", ErrTypeMismatch, tag)
		}
	}
	return nil, nil
}

// ControlValue returns the value of the first control field with the tag.
func (r *Record) ControlValue(tag string) string {
	for _, f := range r.Fields {
		if cf, ok := f.(*ControlField); ok && cf.Tag == tag {
			return cf.Value
		}
	}
	return ""
}

// JoinedSubfields returns one string per occurrence of tag, built from the
// subfields listed in codes in the order they occur within the field.
func (r *Record) JoinedSubfields(tag, joiner string, codes ...string) []string {
	var joined []string
	for _, f := range r.DataFields(tag) {
		if values := f.collect(codes); len(values) > 0 {
			joined = append(joined, strings.Join(values, joiner))
		}
	}
	return joined
}

// SubfieldValuesOf returns every matching subfield value of every occurrence
// of tag as a separate entry.
func (r *Record) SubfieldValuesOf(tag string, codes ...string) []string {
	var values []string
	for _, f := range r.DataFields(tag) {
		values = append(values, f.collect(codes)...)
	}
	return values
}

func (f *DataField) collect(codes []string) []string {
	var values []string
	for _, sf := range f.Subfields {
		for _, code := range codes {
			if sf.Code == code {
				values = append(values, sf.Value)
				break
			}
		}
	}
	return values
}
