package description

import (
	"fmt"
	"slices"
	"strings"

	"github.com/foomo/recorddescription-mcp/description/vo"
	"github.com/foomo/recorddescription-mcp/marc"
)

// Category labels of the full description, in output order.
const (
	CategoryTitle                = "Title"
	CategoryIdentifier           = "Identifier"
	CategoryPrecedingTitle       = "Preceding Title"
	CategorySucceedingTitle      = "Succeeding Title"
	CategoryTitleVariant         = "Title Variant"
	CategoryWorkTitle            = "Work Title"
	CategorySummary              = "Summary"
	CategoryPersons              = "Persons"
	CategoryCorporateBodies      = "Corporate Bodies"
	CategoryCongresses           = "Congresses"
	CategoryMediaType            = "Media Type"
	CategoryFormNote             = "Form Note"
	CategoryLanguage             = "Language"
	CategoryExtent               = "Extent"
	CategoryPublished            = "Published"
	CategoryContainingWork       = "Containing Work"
	CategoryIncludedItems        = "Included Items"
	CategoryEdition              = "Edition"
	CategoryNote                 = "Note"
	CategoryBibliographicContext = "Bibliographic Context"
	CategoryBasisklassifikation  = "Basisklassifikation"
	CategoryRVK                  = "RVK"
	CategoryOtherClassifications = "Other Classifications"
	CategoryKeywords             = "Keywords"
	CategoryOtherKeywords        = "Other Keywords"
	CategoryLinks                = "Links"
	CategoryISBN                 = "ISBN"
	CategoryISSN                 = "ISSN"
	CategorySeries               = "Series"
)

// NoTitle is shown when a record lacks a title statement.
const NoTitle = "no title"

type rule struct {
	label string
	apply func(rec Record) ([]vo.DisplayValue, error)
}

// fromMarc adapts a rule that only reads MARC fields and cannot fail.
func fromMarc(fn func(m *marc.Record) []vo.DisplayValue) func(Record) ([]vo.DisplayValue, error) {
	return func(rec Record) ([]vo.DisplayValue, error) {
		return fn(rec.Marc()), nil
	}
}

var fullRules = []rule{
	{CategoryTitle, title},
	{CategoryIdentifier, identifier},
	{CategoryPrecedingTitle, fromMarc(relatedTitles("780"))},
	{CategorySucceedingTitle, fromMarc(relatedTitles("785"))},
	{CategoryTitleVariant, fromMarc(titleVariants)},
	{CategoryWorkTitle, workTitles},
	{CategorySummary, fromMarc(subfieldTexts("520"))},
	{CategoryPersons, persons},
	{CategoryCorporateBodies, corporateBodies},
	{CategoryCongresses, fromMarc(congresses)},
	{CategoryMediaType, mediaTypes},
	{CategoryFormNote, fromMarc(formNotes)},
	{CategoryLanguage, fromMarc(languages)},
	{CategoryExtent, fromMarc(extent)},
	{CategoryPublished, fromMarc(publicationStatements)},
	{CategoryContainingWork, fromMarc(hostItems)},
	{CategoryIncludedItems, fromMarc(subfieldTexts("501", "505"))},
	{CategoryEdition, fromMarc(subfieldTexts("250"))},
	{CategoryNote, fromMarc(subfieldTexts("500"))},
	{CategoryBibliographicContext, fromMarc(bibliographicContext)},
	{CategoryBasisklassifikation, fromMarc(basisklassifikation)},
	{CategoryRVK, fromMarc(rvk)},
	{CategoryOtherClassifications, fromMarc(otherClassifications)},
	{CategoryKeywords, fromMarc(keywordChains)},
	{CategoryOtherKeywords, fromMarc(keywords)},
	{CategoryLinks, fromMarc(externalLinks)},
	{CategoryISBN, fromMarc(isbns)},
	{CategoryISSN, fromMarc(issns)},
	{CategorySeries, fromMarc(series)},
}

// FullProvider creates the full description of a record.
type FullProvider struct{}

func (FullProvider) CreateDescription(rec Record) (*vo.Description, error) {
	return createDescription(rec, fullRules)
}

func createDescription(rec Record, rules []rule) (*vo.Description, error) {
	d := vo.NewDescription()
	for _, r := range rules {
		values, err := r.apply(rec)
		if err != nil {
			return nil, fmt.Errorf("failed to create category %q: %w", r.label, err)
		}
		d.Add(r.label, values...)
	}
	return d, nil
}

func title(rec Record) ([]vo.DisplayValue, error) {
	// 245 is non-repeatable
	f, err := rec.Marc().DataField("245")
	if err != nil {
		return nil, err
	}
	if f == nil {
		return []vo.DisplayValue{vo.Text{Text: NoTitle}}, nil
	}

	var b strings.Builder
	b.WriteString(f.SubfieldValue("a"))
	if subtitle := f.SubfieldValue("b"); subtitle != "" {
		b.WriteString(" : " + subtitle)
	}
	if medium := f.SubfieldValue("h"); medium != "" {
		b.WriteString(" / " + medium)
	}
	for _, sf := range f.Subfields {
		switch sf.Code {
		case "n":
			b.WriteString(" / " + sf.Value)
		case "p":
			b.WriteString(", " + sf.Value)
		}
	}
	if resp := f.SubfieldValue("c"); resp != "" {
		b.WriteString(" / " + resp)
	}
	return []vo.DisplayValue{vo.Text{Text: b.String()}}, nil
}

func identifier(rec Record) ([]vo.DisplayValue, error) {
	if id := rec.UniqueID(); id != "" {
		return []vo.DisplayValue{vo.Text{Text: id}}, nil
	}
	return nil, nil
}

func mediaTypes(rec Record) ([]vo.DisplayValue, error) {
	return vo.NewTexts(rec.Formats(), true), nil
}

// subfieldTexts returns one Text per $a of the given tags, tag by tag.
func subfieldTexts(tags ...string) func(m *marc.Record) []vo.DisplayValue {
	return func(m *marc.Record) []vo.DisplayValue {
		var values []vo.DisplayValue
		for _, tag := range tags {
			values = append(values, vo.NewTexts(m.SubfieldValuesOf(tag, "a"), false)...)
		}
		return values
	}
}

func relatedTitles(tag string) func(m *marc.Record) []vo.DisplayValue {
	return func(m *marc.Record) []vo.DisplayValue {
		var titles []vo.DisplayValue
		for _, f := range m.DataFields(tag) {
			if t := f.SubfieldValue("t"); t != "" {
				titles = append(titles, annotateRelated(f, vo.NewSearchLink(t)))
			}
		}
		return titles
	}
}

func titleVariants(m *marc.Record) []vo.DisplayValue {
	var titles []vo.DisplayValue
	for _, f := range m.DataFields("246") {
		if f.Ind2 == '3' {
			continue
		}
		if t := f.SubfieldValue("a"); t != "" {
			titles = append(titles, vo.Text{Text: t})
		}
	}
	return titles
}

func workTitles(rec Record) ([]vo.DisplayValue, error) {
	m := rec.Marc()
	fields := m.DataFields("240")
	if len(fields) == 0 {
		return nil, nil
	}
	author, err := m.DataField("100")
	if err != nil {
		return nil, err
	}
	var titles []vo.DisplayValue
	for _, f := range fields {
		term := f.SubfieldValue("a")
		if term == "" {
			continue
		}
		link := vo.NewSearchLink(term)
		link.Quoted = true
		members := []vo.DisplayValue{link}

		if author != nil {
			if name := author.SubfieldValue("a"); name != "" {
				code := f.SubfieldValue("4")
				if code == "" {
					code = "oth"
				}
				members = append(members, vo.Text{Text: name}, roleText(code))
			}
		}
		titles = append(titles, vo.NewSequence("", members...))
	}
	return titles, nil
}

// agents combines the sole main entry with the added entries, main entry
// first, as name [dates] [role] sequences.
func agents(m *marc.Record, mainTag, addedTag string) ([]vo.DisplayValue, error) {
	main, err := m.DataField(mainTag)
	if err != nil {
		return nil, err
	}
	fields := m.DataFields(addedTag)
	if main != nil {
		fields = append([]*marc.DataField{main}, fields...)
	}

	var values []vo.DisplayValue
	for _, f := range fields {
		name := f.SubfieldValue("a")
		if name == "" {
			continue
		}
		link := vo.NewSearchLink(name)
		link.Type = vo.SearchTypePerson
		link.Quoted = true
		members := []vo.DisplayValue{link}

		if date := f.SubfieldValue("d"); date != "" {
			members = append(members, vo.Text{Text: date})
		}
		if code := f.SubfieldValue("4"); code != "" {
			members = append(members, roleText(code))
		}
		values = append(values, vo.NewSequence("", members...))
	}
	return values, nil
}

func persons(rec Record) ([]vo.DisplayValue, error) {
	return agents(rec.Marc(), "100", "700")
}

func corporateBodies(rec Record) ([]vo.DisplayValue, error) {
	return agents(rec.Marc(), "110", "710")
}

func congresses(m *marc.Record) []vo.DisplayValue {
	var values []vo.DisplayValue
	for _, f := range m.DataFields("111") {
		parts := f.Pick("a", "d", "c")
		name, date, place := parts[0], parts[1], parts[2]
		if name == "" {
			continue
		}
		if date != "" {
			name += ", " + date
		}
		if place != "" {
			name += ", " + place
		}
		link := vo.NewSearchLink(name)
		link.Type = vo.SearchTypeTitle
		values = append(values, link)
	}
	return values
}

func formNotes(m *marc.Record) []vo.DisplayValue {
	return vo.NewTexts(m.JoinedSubfields("655", " ; ", "a", "b", "v", "x", "y", "z"), false)
}

func languages(m *marc.Record) []vo.DisplayValue {
	return vo.NewTexts(m.SubfieldValuesOf("041", "a"), true)
}

func extent(m *marc.Record) []vo.DisplayValue {
	return vo.NewTexts(m.JoinedSubfields("300", " ", "a", "b", "c", "e"), false)
}

// publicationStatements reads the 264 statements, or the legacy 260 ones when
// there are none, followed by the "with" notes of 501.
func publicationStatements(m *marc.Record) []vo.DisplayValue {
	fields := m.DataFields("264")
	if len(fields) == 0 {
		fields = m.DataFields("260")
	}
	var values []vo.DisplayValue
	for _, f := range fields {
		if statement := publicationStatement(f); statement != "" {
			values = append(values, vo.Text{Text: statement})
		}
	}
	for _, f := range m.DataFields("501") {
		if with := f.SubfieldValue("a"); with != "" {
			values = append(values, vo.Text{Text: with})
		}
	}
	return values
}

func hostItems(m *marc.Record) []vo.DisplayValue {
	var hosts []vo.DisplayValue
	for _, f := range m.DataFields("773") {
		if f.Ind1 != '0' {
			continue
		}
		label := f.SubfieldValue("t")
		if label == "" {
			label = strings.Join(m.JoinedSubfields("245", " ", "a"), "")
		}
		if label == "" {
			continue
		}
		parts := f.Pick("i", "d", "g")
		relationship, pubinfo, volume := parts[0], parts[1], parts[2]

		link := vo.NewSearchLink(label)
		if relationship != "" {
			link.Prefix = relationship + ": "
		}
		switch {
		case pubinfo != "" && volume != "":
			link.Suffix = ".- " + pubinfo + ", " + volume
		case pubinfo != "" || volume != "":
			link.Suffix = ".- " + pubinfo + volume
		}
		hosts = append(hosts, annotateRelated(f, link))
	}
	return hosts
}

func bibliographicContext(m *marc.Record) []vo.DisplayValue {
	var related []vo.DisplayValue
	for _, f := range m.DataFields("776") {
		t := f.SubfieldValue("t")
		if t == "" {
			continue
		}
		link := annotateRelated(f, vo.NewSearchLink(t))
		if prefix := nonEmpty(f.Pick("i", "n")...); len(prefix) > 0 {
			link.Prefix = strings.Join(prefix, " ") + ": "
		}
		if date := f.SubfieldValue("d"); date != "" {
			link.Suffix = " – " + date
		}
		related = append(related, link)
	}
	return related
}

// classificationFields returns the 936 fields of one scheme.
func classificationFields(m *marc.Record, ind1, ind2 byte) []*marc.DataField {
	var fields []*marc.DataField
	for _, f := range m.DataFields("936") {
		if f.Ind1 == ind1 && f.Ind2 == ind2 {
			fields = append(fields, f)
		}
	}
	return fields
}

func basisklassifikation(m *marc.Record) []vo.DisplayValue {
	var classes []vo.DisplayValue
	for _, f := range classificationFields(m, 'b', 'k') {
		term := f.SubfieldValue("a")
		if term == "" {
			continue
		}
		link := vo.NewSearchLink(strings.Join(nonEmpty(f.Pick("a", "j", "x")...), " "))
		link.Term = term
		link.Type = vo.SearchTypeBK
		classes = append(classes, link)
	}
	return classes
}

func rvk(m *marc.Record) []vo.DisplayValue {
	var classes []vo.DisplayValue
	for _, f := range classificationFields(m, 'r', 'v') {
		term := f.SubfieldValue("a")
		if term == "" {
			continue
		}
		label := term
		if caption := f.SubfieldValue("b"); caption != "" {
			label = term + " / " + caption
		}
		link := vo.NewSearchLink(label)
		link.Term = term
		link.Type = vo.SearchTypeClass
		if keys := f.SubfieldValues("k"); len(keys) > 0 {
			link.Suffix = " [" + strings.Join(keys, ", ") + "]"
		}
		classes = append(classes, link)
	}
	return classes
}

func otherClassifications(m *marc.Record) []vo.DisplayValue {
	var classes []vo.DisplayValue
	for _, f := range m.DataFields("983") {
		if f.SubfieldValue("2") != "22" {
			continue
		}
		if term := f.SubfieldValue("a"); term != "" {
			link := vo.NewSearchLink(term)
			link.Type = vo.SearchTypeSubject
			classes = append(classes, link)
		}
	}
	return classes
}

func keywords(m *marc.Record) []vo.DisplayValue {
	var values []vo.DisplayValue
	for _, tag := range []string{"600", "610", "630", "650", "651"} {
		for _, f := range m.DataFields(tag) {
			if term := f.SubfieldValue("a"); term != "" {
				link := vo.NewSearchLink(term)
				link.Type = vo.SearchTypeSubject
				link.Quoted = true
				values = append(values, link)
			}
		}
	}
	return values
}

func externalLinks(m *marc.Record) []vo.DisplayValue {
	var links []vo.DisplayValue
	for _, f := range m.DataFields("856") {
		if f.Ind2 != '2' {
			continue
		}
		target := f.SubfieldValue("u")
		if target == "" {
			continue
		}
		label := strings.Join(nonEmpty(f.Pick("3", "z")...), " ")
		if label == "" {
			label = target
		}
		links = append(links, vo.ExternalLink{URL: target, Label: label})
	}
	return links
}

func isbns(m *marc.Record) []vo.DisplayValue {
	var values []vo.DisplayValue
	for _, f := range m.DataFields("020") {
		parts := f.Pick("a", "9")
		isbn, label := parts[0], parts[1]
		if isbn == "" {
			continue
		}
		if label == "" {
			label = isbn
		}
		values = append(values, vo.SearchLink{Label: label, Type: vo.SearchTypeIsn, Term: isbn})
	}
	return values
}

func issns(m *marc.Record) []vo.DisplayValue {
	var values []vo.DisplayValue
	for _, f := range m.DataFields("022") {
		if issn := f.SubfieldValue("a"); issn != "" {
			values = append(values, vo.SearchLink{Label: issn, Type: vo.SearchTypeIsn, Term: issn})
		}
	}
	return values
}

func series(m *marc.Record) []vo.DisplayValue {
	var values []vo.DisplayValue
	for _, f := range slices.Concat(m.DataFields("490"), m.DataFields("830")) {
		label := f.SubfieldValue("a")
		if label == "" {
			continue
		}
		link := annotateRelated(f, vo.NewSearchLink(label))
		if volume := f.SubfieldValue("v"); volume != "" {
			link.Suffix = " - " + volume
		}
		values = append(values, link)
	}
	return values
}

func nonEmpty(values ...string) []string {
	var out []string
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
