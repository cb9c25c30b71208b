package description

import (
	"github.com/foomo/recorddescription-mcp/description/vo"
)

// Category labels of the short description, in output order.
const (
	CategoryCreator     = "Creator"
	CategoryPublication = "Publication"
)

var shortRules = []rule{
	{CategoryTitle, shortTitle},
	{CategoryCreator, creator},
	{CategoryPublication, publication},
}

// ShortProvider creates the three category description used in result lists.
type ShortProvider struct{}

func (ShortProvider) CreateDescription(rec Record) (*vo.Description, error) {
	return createDescription(rec, shortRules)
}

func shortTitle(rec Record) ([]vo.DisplayValue, error) {
	t := rec.ShortTitle()
	if subtitle := rec.SubTitle(); subtitle != "" {
		t += " : " + subtitle
	}
	if t == "" {
		return nil, nil
	}
	return []vo.DisplayValue{vo.Text{Text: t}}, nil
}

func creator(rec Record) ([]vo.DisplayValue, error) {
	f, err := rec.Marc().DataField("100")
	if err != nil || f == nil {
		return nil, err
	}
	name := f.SubfieldValue("a")
	if name == "" {
		return nil, nil
	}
	link := vo.NewSearchLink(name)
	link.Type = vo.SearchTypePerson
	link.Quoted = true
	return []vo.DisplayValue{link}, nil
}

func publication(rec Record) ([]vo.DisplayValue, error) {
	f, err := rec.Marc().DataField("264")
	if err != nil || f == nil {
		return nil, err
	}
	if statement := publicationStatement(f); statement != "" {
		return []vo.DisplayValue{vo.Text{Text: statement}}, nil
	}
	return nil, nil
}
