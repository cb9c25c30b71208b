package record

import (
	"strings"

	"github.com/foomo/recorddescription-mcp/description"
	"github.com/foomo/recorddescription-mcp/marc"
)

// isbdPunctuation is trimmed from the end of derived titles.
const isbdPunctuation = " /:;,.="

// Driver is a catalog record: the MARC data plus the values the search index
// already computed for it.
type Driver struct {
	ID         string
	FormatList []string
	Short      string
	Sub        string
	Record     *marc.Record
}

var _ description.Record = (*Driver)(nil)

// FromMarc derives the index values from the MARC data alone: the id from
// 001, the short title and subtitle from 245 $a and $b.
func FromMarc(m *marc.Record) *Driver {
	d := &Driver{
		ID:     m.ControlValue("001"),
		Record: m,
	}
	if fields := m.DataFields("245"); len(fields) > 0 {
		d.Short = strings.TrimRight(fields[0].SubfieldValue("a"), isbdPunctuation)
		d.Sub = strings.TrimRight(fields[0].SubfieldValue("b"), isbdPunctuation)
	}
	return d
}

func (d *Driver) UniqueID() string   { return d.ID }
func (d *Driver) Formats() []string  { return d.FormatList }
func (d *Driver) ShortTitle() string { return d.Short }
func (d *Driver) SubTitle() string   { return d.Sub }

func (d *Driver) Marc() *marc.Record {
	if d.Record == nil {
		return &marc.Record{}
	}
	return d.Record
}

// IsOpenAccess reports whether a 506 access note declares the record open access.
func (d *Driver) IsOpenAccess() bool {
	for _, v := range d.Marc().SubfieldValuesOf("506", "a") {
		if v == "Open Access" {
			return true
		}
	}
	return false
}
