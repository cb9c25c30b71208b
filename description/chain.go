package description

import (
	"slices"
	"strings"

	"github.com/foomo/recorddescription-mcp/description/vo"
	"github.com/foomo/recorddescription-mcp/marc"
)

// ChainSeparator joins the members of a keyword chain.
const ChainSeparator = " / "

type chainMember struct {
	position int
	link     vo.SearchLink
}

// chain collects the members of one keyword chain in insertion order. A
// member at an already occupied position replaces the earlier one in place.
type chain struct {
	members []chainMember
}

func (c *chain) put(position int, link vo.SearchLink) {
	for i := range c.members {
		if c.members[i].position == position {
			c.members[i].link = link
			return
		}
	}
	c.members = append(c.members, chainMember{position: position, link: link})
}

// keywordChains groups the 689 subject chains. Indicator 1 is the chain index,
// indicator 2 the position within the chain; fields whose indicators are not
// both digits do not belong to a chain.
func keywordChains(m *marc.Record) []vo.DisplayValue {
	chains := map[int]*chain{}
	for _, f := range m.DataFields("689") {
		if !isDigit(f.Ind1) || !isDigit(f.Ind2) {
			continue
		}
		term, ok := f.Subfield("a")
		if !ok {
			continue
		}
		index, position := int(f.Ind1-'0'), int(f.Ind2-'0')

		link := vo.NewSearchLink(term)
		link.Type = vo.SearchTypeSubject
		link.Term = `"` + strings.ReplaceAll(term, `"`, `\"`) + `"`

		c, ok := chains[index]
		if !ok {
			c = &chain{}
			chains[index] = c
		}
		c.put(position, link)
	}

	indexes := make([]int, 0, len(chains))
	for index := range chains {
		indexes = append(indexes, index)
	}
	slices.Sort(indexes)

	values := make([]vo.DisplayValue, 0, len(indexes))
	for _, index := range indexes {
		members := make([]vo.DisplayValue, 0, len(chains[index].members))
		for _, member := range chains[index].members {
			members = append(members, member.link)
		}
		values = append(values, vo.NewSequence(ChainSeparator, members...))
	}
	return values
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
