package marc

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"

	"golang.org/x/text/unicode/norm"
)

const (
	fieldTerminator   = 0x1E
	recordTerminator  = 0x1D
	subfieldDelimiter = 0x1F
	leaderLength      = 24
	directoryEntryLen = 12
)

// Decode reads a single record in MARCXML or ISO 2709 format.
func Decode(data []byte) (*Record, error) {
	trimmed := bytes.TrimLeft(data, "\ufeff \t\r\n")
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidRecord)
	}
	if trimmed[0] == '<' {
		return DecodeXML(bytes.NewReader(trimmed))
	}
	return DecodeBinary(trimmed)
}

type xmlControlField struct {
	Tag   string `xml:"tag,attr"`
	Value string `xml:",chardata"`
}

type xmlSubfield struct {
	Code  string `xml:"code,attr"`
	Value string `xml:",chardata"`
}

type xmlDataField struct {
	Tag       string        `xml:"tag,attr"`
	Ind1      string        `xml:"ind1,attr"`
	Ind2      string        `xml:"ind2,attr"`
	Subfields []xmlSubfield `xml:"subfield"`
}

// DecodeXML reads the first record of a MARC21 slim document. The root element
// may be a record or a collection.
func DecodeXML(r io.Reader) (*Record, error) {
	records, err := decodeXML(r, 1)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no record element", ErrInvalidRecord)
	}
	return records[0], nil
}

// DecodeXMLCollection reads all records of a MARC21 slim document.
func DecodeXMLCollection(r io.Reader) ([]*Record, error) {
	return decodeXML(r, 0)
}

func decodeXML(r io.Reader, limit int) ([]*Record, error) {
	dec := xml.NewDecoder(r)
	var (
		records []*Record
		current *Record
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "record":
				current = &Record{}
			case "leader":
				if current == nil {
					continue
				}
				var leader string
				if err := dec.DecodeElement(&leader, &t); err != nil {
					return nil, fmt.Errorf("%w: leader: %v", ErrInvalidRecord, err)
				}
				current.Leader = leader
			case "controlfield":
				if current == nil {
					continue
				}
				var cf xmlControlField
				if err := dec.DecodeElement(&cf, &t); err != nil {
					return nil, fmt.Errorf("%w: controlfield: %v", ErrInvalidRecord, err)
				}
				current.Fields = append(current.Fields, &ControlField{Tag: cf.Tag, Value: normalize(cf.Value)})
			case "datafield":
				if current == nil {
					continue
				}
				var df xmlDataField
				if err := dec.DecodeElement(&df, &t); err != nil {
					return nil, fmt.Errorf("%w: datafield: %v", ErrInvalidRecord, err)
				}
				field := &DataField{Tag: df.Tag, Ind1: indicator(df.Ind1), Ind2: indicator(df.Ind2)}
				for _, sf := range df.Subfields {
					field.Subfields = append(field.Subfields, Subfield{Code: sf.Code, Value: normalize(sf.Value)})
				}
				current.Fields = append(current.Fields, field)
			}
		case xml.EndElement:
			if t.Name.Local == "record" && current != nil {
				records = append(records, current)
				current = nil
				if limit > 0 && len(records) == limit {
					return records, nil
				}
			}
		}
	}
	return records, nil
}

// DecodeBinary reads a record in ISO 2709 transmission format.
func DecodeBinary(data []byte) (*Record, error) {
	if len(data) < leaderLength {
		return nil, fmt.Errorf("%w: record shorter than leader", ErrInvalidRecord)
	}
	leader := data[:leaderLength]
	base, err := parseDigits(leader[12:17])
	if err != nil {
		return nil, fmt.Errorf("%w: base address %q", ErrInvalidRecord, leader[12:17])
	}
	if base <= leaderLength || base > len(data) {
		return nil, fmt.Errorf("%w: base address %d out of range", ErrInvalidRecord, base)
	}
	directory := data[leaderLength : base-1]
	if len(directory)%directoryEntryLen != 0 {
		return nil, fmt.Errorf("%w: directory length %d", ErrInvalidRecord, len(directory))
	}

	record := &Record{Leader: string(leader)}
	for i := 0; i < len(directory); i += directoryEntryLen {
		entry := directory[i : i+directoryEntryLen]
		tag := string(entry[0:3])
		length, err := parseDigits(entry[3:7])
		if err != nil {
			return nil, fmt.Errorf("%w: field length for tag %s", ErrInvalidRecord, tag)
		}
		offset, err := parseDigits(entry[7:12])
		if err != nil {
			return nil, fmt.Errorf("%w: field offset for tag %s", ErrInvalidRecord, tag)
		}
		start, end := base+offset, base+offset+length
		if end > len(data) {
			return nil, fmt.Errorf("%w: field %s exceeds record", ErrInvalidRecord, tag)
		}
		raw := bytes.TrimRight(data[start:end], string([]byte{fieldTerminator, recordTerminator}))
		record.Fields = append(record.Fields, decodeBinaryField(tag, raw))
	}
	return record, nil
}

// parseDigits reads an unsigned decimal number. Signs and blanks are rejected.
func parseDigits(b []byte) (int, error) {
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("not a number: %q", b)
		}
	}
	return strconv.Atoi(string(b))
}

func decodeBinaryField(tag string, raw []byte) Field {
	if isControlTag(tag) {
		return &ControlField{Tag: tag, Value: normalize(string(raw))}
	}
	field := &DataField{Tag: tag, Ind1: ' ', Ind2: ' '}
	if len(raw) > 0 && raw[0] != subfieldDelimiter {
		field.Ind1 = raw[0]
		raw = raw[1:]
	}
	if len(raw) > 0 && raw[0] != subfieldDelimiter {
		field.Ind2 = raw[0]
		raw = raw[1:]
	}
	for _, chunk := range bytes.Split(raw, []byte{subfieldDelimiter}) {
		if len(chunk) == 0 {
			continue
		}
		field.Subfields = append(field.Subfields, Subfield{
			Code:  string(chunk[:1]),
			Value: normalize(string(chunk[1:])),
		})
	}
	return field
}

func isControlTag(tag string) bool {
	return len(tag) == 3 && tag[0] == '0' && tag[1] == '0'
}

func indicator(s string) byte {
	if s == "" {
		return ' '
	}
	return s[0]
}

func normalize(s string) string {
	return norm.NFC.String(s)
}
