package description

import (
	"strings"

	"github.com/foomo/recorddescription-mcp/description/vo"
	"github.com/foomo/recorddescription-mcp/marc"
)

const (
	// K10plus union catalogue (GBV/SWB) record ids.
	markerK10plus = "(DE-627)"
	// ZDB serials database ids, searched as "(DE-599)ZDB<id>".
	markerZDB    = "(DE-600)"
	zdbNamespace = "(DE-599)ZDB"
)

// annotateRelated points a link at the record the field refers to. The first
// matching rule wins: a K10plus id, a ZDB id, an ISSN, the quoted label.
func annotateRelated(f *marc.DataField, link vo.SearchLink) vo.SearchLink {
	ids := f.SubfieldValues("w")
	for _, id := range ids {
		if rest, ok := strings.CutPrefix(id, markerK10plus); ok {
			link.Type = vo.SearchTypeID
			link.Term = rest
			return link
		}
	}
	for _, id := range ids {
		if rest, ok := strings.CutPrefix(id, markerZDB); ok {
			link.Type = vo.SearchTypeNumbers
			link.Term = zdbNamespace + rest
			link.Quoted = true
			return link
		}
	}
	if issn := f.SubfieldValue("x"); issn != "" {
		link.Type = vo.SearchTypeIsn
		link.Term = issn
		return link
	}
	link.Type = vo.SearchTypeTitle
	link.Term = link.Label
	link.Quoted = true
	return link
}
