package description_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foomo/recorddescription-mcp/description"
	"github.com/foomo/recorddescription-mcp/description/vo"
	"github.com/foomo/recorddescription-mcp/marc"
	"github.com/foomo/recorddescription-mcp/record"
)

// df builds a data field from alternating subfield codes and values.
func df(tag string, ind1, ind2 byte, subfields ...string) *marc.DataField {
	f := &marc.DataField{Tag: tag, Ind1: ind1, Ind2: ind2}
	for i := 0; i+1 < len(subfields); i += 2 {
		f.Subfields = append(f.Subfields, marc.Subfield{Code: subfields[i], Value: subfields[i+1]})
	}
	return f
}

func rec(fields ...marc.Field) *record.Driver {
	return &record.Driver{Record: &marc.Record{Fields: fields}}
}

var cmpOpts = cmp.AllowUnexported(vo.Sequence{})

func full(t *testing.T, r description.Record) *vo.Description {
	t.Helper()
	d, err := description.FullProvider{}.CreateDescription(r)
	require.NoError(t, err)
	return d
}

func category(t *testing.T, d *vo.Description, label string) []vo.DisplayValue {
	t.Helper()
	values, ok := d.Get(label)
	require.True(t, ok, "category %q missing in %v", label, d.Labels())
	return values
}

func assertValues(t *testing.T, want, got []vo.DisplayValue) {
	t.Helper()
	if diff := cmp.Diff(want, got, cmpOpts); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s\ngot: %s", diff, spew.Sdump(got))
	}
}

func text(s string) vo.Text { return vo.Text{Text: s} }

func TestTitleAssembly(t *testing.T) {
	tests := map[string]struct {
		field *marc.DataField
		want  string
	}{
		"all parts": {
			field: df("245", '1', '0', "a", "Main", "b", "Sub", "h", "Medium", "c", "Resp"),
			want:  "Main : Sub / Medium / Resp",
		},
		"parts in field order": {
			field: df("245", '1', '0', "a", "Faust", "n", "1", "p", "Der Tragödie erster Teil", "n", "2", "c", "Goethe"),
			want:  "Faust / 1, Der Tragödie erster Teil / 2 / Goethe",
		},
		"main title only": {
			field: df("245", '0', '0', "a", "Main"),
			want:  "Main",
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			d := full(t, rec(tc.field))
			assertValues(t, []vo.DisplayValue{text(tc.want)}, category(t, d, description.CategoryTitle))
		})
	}
}

func TestTitlePlaceholder(t *testing.T) {
	d := full(t, rec())
	assertValues(t, []vo.DisplayValue{text("no title")}, category(t, d, description.CategoryTitle))
}

func TestTypeMismatch(t *testing.T) {
	for _, tag := range []string{"245", "100", "110"} {
		t.Run(tag, func(t *testing.T) {
			_, err := description.FullProvider{}.CreateDescription(rec(&marc.ControlField{Tag: tag, Value: "scalar"}))
			require.Error(t, err)
			assert.True(t, errors.Is(err, marc.ErrTypeMismatch))
		})
	}

	_, err := description.ShortProvider{}.CreateDescription(rec(&marc.ControlField{Tag: "264", Value: "scalar"}))
	assert.True(t, errors.Is(err, marc.ErrTypeMismatch))
}

func TestEmptyCategoriesAreOmitted(t *testing.T) {
	d := full(t, rec(
		df("245", '1', '0', "a", "Main"),
		df("700", '1', ' ', "d", "1900-1980"),
		df("689", 'x', '0', "a", "skipped"),
	))
	assert.Equal(t, []string{description.CategoryTitle}, d.Labels())

	withID := &record.Driver{ID: "1691228456", Record: &marc.Record{}}
	assert.Equal(t, []string{description.CategoryTitle, description.CategoryIdentifier}, full(t, withID).Labels())
}

func fullRecord() *record.Driver {
	return &record.Driver{
		ID:         "1691228456",
		FormatList: []string{"Book", "E-Book"},
		Record: &marc.Record{Fields: []marc.Field{
			&marc.ControlField{Tag: "001", Value: "1691228456"},
			df("020", ' ', ' ', "a", "9783161484100", "9", "978-3-16-148410-0"),
			df("022", ' ', ' ', "a", "1234-5678"),
			df("041", ' ', ' ', "a", "ger", "a", "eng"),
			df("100", '1', ' ', "a", "Doe, Jane", "d", "1970-", "4", "aut"),
			df("110", '2', ' ', "a", "Universität Hamburg"),
			df("111", '2', ' ', "a", "Bibliothekartag", "d", "2020", "c", "Hamburg"),
			df("240", '1', '0', "a", "Geschichte"),
			df("245", '1', '0', "a", "Hamburg", "b", "eine Stadtgeschichte", "c", "Jane Doe"),
			df("246", '1', '3', "a", "Ignored variant"),
			df("246", '1', ' ', "a", "Stadtgeschichte Hamburg"),
			df("250", ' ', ' ', "a", "2. Auflage"),
			df("264", ' ', '1', "a", "Hamburg", "b", "Verlag", "c", "2020"),
			df("300", ' ', ' ', "a", "300 Seiten", "b", "Illustrationen", "c", "24 cm"),
			df("490", '1', ' ', "a", "Hamburger Beiträge", "v", "12", "w", "(DE-627)111"),
			df("500", ' ', ' ', "a", "Literaturverzeichnis Seite 280-300"),
			df("505", '0', ' ', "a", "Teil 1. Anfänge"),
			df("520", ' ', ' ', "a", "Eine Geschichte der Stadt."),
			df("650", ' ', '7', "a", "Stadtgeschichte"),
			df("655", ' ', '7', "a", "Aufsatzsammlung", "x", "Geschichte"),
			df("689", '0', '0', "a", "Hamburg"),
			df("689", '0', '1', "a", "Geschichte"),
			df("700", '1', ' ', "a", "Roe, Richard", "4", "edt"),
			df("710", '2', ' ', "a", "Staatsarchiv Hamburg", "4", "isb"),
			df("773", '0', '8', "i", "Enthalten in", "t", "Hamburger Jahrbuch", "d", "Hamburg, 2020", "g", "Band 3", "w", "(DE-600)456"),
			df("776", '0', '8', "i", "Erscheint auch als", "n", "Online-Ausgabe", "t", "Hamburg", "d", "2021", "w", "(DE-627)999"),
			df("780", '0', '0', "t", "Altona", "x", "0000-0000"),
			df("785", '0', '0', "t", "Groß-Hamburg"),
			df("830", ' ', '0', "a", "Schriftenreihe", "w", "(DE-600)777"),
			df("856", '4', '2', "u", "https://example.org/toc", "3", "Inhaltsverzeichnis"),
			df("856", '4', '0', "u", "https://example.org/fulltext"),
			df("936", 'b', 'k', "a", "15.70", "j", "Deutsche Geschichte"),
			df("936", 'r', 'v', "a", "NQ 2350", "b", "Hamburg", "k", "Geschichte", "k", "Deutschland"),
			df("983", ' ', ' ', "2", "22", "a", "Regionalgeschichte"),
			df("983", ' ', ' ', "2", "23", "a", "Other scheme"),
		}},
	}
}

func TestFullDescriptionCategoryOrder(t *testing.T) {
	d := full(t, fullRecord())
	assert.Equal(t, []string{
		"Title", "Identifier", "Preceding Title", "Succeeding Title", "Title Variant",
		"Work Title", "Summary", "Persons", "Corporate Bodies", "Congresses", "Media Type",
		"Form Note", "Language", "Extent", "Published", "Containing Work", "Included Items",
		"Edition", "Note", "Bibliographic Context", "Basisklassifikation", "RVK",
		"Other Classifications", "Keywords", "Other Keywords", "Links", "ISBN", "ISSN", "Series",
	}, d.Labels())
}

func TestFullDescriptionValues(t *testing.T) {
	d := full(t, fullRecord())
	role := func(code string) vo.Text {
		return vo.Text{Text: code, Prefix: "[", Suffix: "]", Translatable: true, TextDomain: vo.TextDomainCreatorRoles}
	}

	tests := map[string][]vo.DisplayValue{
		description.CategoryTitle:        {text("Hamburg : eine Stadtgeschichte / Jane Doe")},
		description.CategoryIdentifier:   {text("1691228456")},
		description.CategoryTitleVariant: {text("Stadtgeschichte Hamburg")},
		description.CategoryWorkTitle: {vo.NewSequence("",
			vo.SearchLink{Label: "Geschichte", Type: vo.SearchTypeAllFields, Term: "Geschichte", Quoted: true},
			text("Doe, Jane"),
			role("oth"),
		)},
		description.CategorySummary: {text("Eine Geschichte der Stadt.")},
		description.CategoryPersons: {
			vo.NewSequence("",
				vo.SearchLink{Label: "Doe, Jane", Type: vo.SearchTypePerson, Term: "Doe, Jane", Quoted: true},
				text("1970-"),
				role("aut"),
			),
			vo.NewSequence("",
				vo.SearchLink{Label: "Roe, Richard", Type: vo.SearchTypePerson, Term: "Roe, Richard", Quoted: true},
				role("edt"),
			),
		},
		description.CategoryCorporateBodies: {
			vo.NewSequence("",
				vo.SearchLink{Label: "Universität Hamburg", Type: vo.SearchTypePerson, Term: "Universität Hamburg", Quoted: true},
			),
			vo.NewSequence("",
				vo.SearchLink{Label: "Staatsarchiv Hamburg", Type: vo.SearchTypePerson, Term: "Staatsarchiv Hamburg", Quoted: true},
				role("isb"),
			),
		},
		description.CategoryCongresses: {
			vo.SearchLink{Label: "Bibliothekartag, 2020, Hamburg", Type: vo.SearchTypeTitle, Term: "Bibliothekartag, 2020, Hamburg"},
		},
		description.CategoryMediaType: {
			vo.Text{Text: "Book", Translatable: true},
			vo.Text{Text: "E-Book", Translatable: true},
		},
		description.CategoryFormNote: {text("Aufsatzsammlung ; Geschichte")},
		description.CategoryLanguage: {
			vo.Text{Text: "ger", Translatable: true},
			vo.Text{Text: "eng", Translatable: true},
		},
		description.CategoryExtent:    {text("300 Seiten Illustrationen 24 cm")},
		description.CategoryPublished: {text("Hamburg: Verlag 2020")},
		description.CategoryContainingWork: {vo.SearchLink{
			Label:  "Hamburger Jahrbuch",
			Type:   vo.SearchTypeNumbers,
			Term:   "(DE-599)ZDB456",
			Quoted: true,
			Prefix: "Enthalten in: ",
			Suffix: ".- Hamburg, 2020, Band 3",
		}},
		description.CategoryIncludedItems: {text("Teil 1. Anfänge")},
		description.CategoryEdition:       {text("2. Auflage")},
		description.CategoryNote:          {text("Literaturverzeichnis Seite 280-300")},
		description.CategoryBibliographicContext: {vo.SearchLink{
			Label:  "Hamburg",
			Type:   vo.SearchTypeID,
			Term:   "999",
			Prefix: "Erscheint auch als Online-Ausgabe: ",
			Suffix: " – 2021",
		}},
		description.CategoryBasisklassifikation: {
			vo.SearchLink{Label: "15.70 Deutsche Geschichte", Type: vo.SearchTypeBK, Term: "15.70"},
		},
		description.CategoryRVK: {
			vo.SearchLink{Label: "NQ 2350 / Hamburg", Type: vo.SearchTypeClass, Term: "NQ 2350", Suffix: " [Geschichte, Deutschland]"},
		},
		description.CategoryOtherClassifications: {
			vo.SearchLink{Label: "Regionalgeschichte", Type: vo.SearchTypeSubject, Term: "Regionalgeschichte"},
		},
		description.CategoryOtherKeywords: {
			vo.SearchLink{Label: "Stadtgeschichte", Type: vo.SearchTypeSubject, Term: "Stadtgeschichte", Quoted: true},
		},
		description.CategoryLinks: {
			vo.ExternalLink{URL: "https://example.org/toc", Label: "Inhaltsverzeichnis"},
		},
		description.CategoryISBN: {
			vo.SearchLink{Label: "978-3-16-148410-0", Type: vo.SearchTypeIsn, Term: "9783161484100"},
		},
		description.CategoryISSN: {
			vo.SearchLink{Label: "1234-5678", Type: vo.SearchTypeIsn, Term: "1234-5678"},
		},
		description.CategorySeries: {
			vo.SearchLink{Label: "Hamburger Beiträge", Type: vo.SearchTypeID, Term: "111", Suffix: " - 12"},
			vo.SearchLink{Label: "Schriftenreihe", Type: vo.SearchTypeNumbers, Term: "(DE-599)ZDB777", Quoted: true},
		},
		description.CategoryPrecedingTitle: {
			vo.SearchLink{Label: "Altona", Type: vo.SearchTypeIsn, Term: "0000-0000"},
		},
		description.CategorySucceedingTitle: {
			vo.SearchLink{Label: "Groß-Hamburg", Type: vo.SearchTypeTitle, Term: "Groß-Hamburg", Quoted: true},
		},
	}
	for label, want := range tests {
		t.Run(label, func(t *testing.T) {
			assertValues(t, want, category(t, d, label))
		})
	}
}

func TestFieldOrderAndMissingAuthor(t *testing.T) {
	subject := func(term string) vo.SearchLink {
		return vo.SearchLink{Label: term, Type: vo.SearchTypeSubject, Term: term, Quoted: true}
	}

	tests := []struct {
		name  string
		rec   *record.Driver
		label string
		want  []vo.DisplayValue
	}{
		{
			name:  "work title without main entry",
			rec:   rec(df("240", '1', '0', "a", "Geschichte")),
			label: description.CategoryWorkTitle,
			want: []vo.DisplayValue{vo.NewSequence("",
				vo.SearchLink{Label: "Geschichte", Type: vo.SearchTypeAllFields, Term: "Geschichte", Quoted: true},
			)},
		},
		{
			name: "other keywords follow tag order",
			rec: rec(
				df("651", ' ', '7', "a", "Hamburg"),
				df("650", ' ', '7', "a", "Stadtgeschichte"),
				df("600", '1', '7', "a", "Schumacher, Fritz"),
				df("650", ' ', '7', "a", "Architektur"),
			),
			label: description.CategoryOtherKeywords,
			want: []vo.DisplayValue{
				subject("Schumacher, Fritz"),
				subject("Stadtgeschichte"),
				subject("Architektur"),
				subject("Hamburg"),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertValues(t, tt.want, category(t, full(t, tt.rec), tt.label))
		})
	}
}

func TestIdempotence(t *testing.T) {
	r := fullRecord()
	first := full(t, r)
	second := full(t, r)
	if diff := cmp.Diff(first.Categories(), second.Categories(), cmpOpts); diff != "" {
		t.Errorf("descriptions differ (-first +second):\n%s", diff)
	}
}

func TestConcurrentDescriptions(t *testing.T) {
	r := fullRecord()
	want := full(t, r).Categories()

	var wg sync.WaitGroup
	results := make([][]vo.Category, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, err := description.FullProvider{}.CreateDescription(r)
			if err == nil {
				results[i] = d.Categories()
			}
		}()
	}
	wg.Wait()

	for _, got := range results {
		assert.Empty(t, cmp.Diff(want, got, cmpOpts))
	}
}

func TestOrderPreservation(t *testing.T) {
	d := full(t, rec(
		df("500", ' ', ' ', "a", "first"),
		df("245", '0', '0', "a", "T"),
		df("500", ' ', ' ', "a", "second"),
		df("500", ' ', ' ', "a", "third"),
	))
	assertValues(t, []vo.DisplayValue{text("first"), text("second"), text("third")}, category(t, d, description.CategoryNote))
}

func TestKeywordChainGrouping(t *testing.T) {
	link := func(term, quotedTerm string) vo.SearchLink {
		return vo.SearchLink{Label: term, Type: vo.SearchTypeSubject, Term: quotedTerm}
	}

	t.Run("grouped by index", func(t *testing.T) {
		d := full(t, rec(
			df("689", '0', '0', "a", "A"),
			df("689", '0', '1', "a", "B"),
			df("689", '1', '0', "a", "C"),
		))
		assertValues(t, []vo.DisplayValue{
			vo.NewSequence(" / ", link("A", `"A"`), link("B", `"B"`)),
			vo.NewSequence(" / ", link("C", `"C"`)),
		}, category(t, d, description.CategoryKeywords))
	})

	t.Run("sorted by index, insertion order within chain", func(t *testing.T) {
		d := full(t, rec(
			df("689", '1', '1', "a", "D"),
			df("689", '0', '1', "a", "B"),
			df("689", '1', '0', "a", "C"),
			df("689", '0', '0', "a", "A"),
		))
		assertValues(t, []vo.DisplayValue{
			vo.NewSequence(" / ", link("B", `"B"`), link("A", `"A"`)),
			vo.NewSequence(" / ", link("D", `"D"`), link("C", `"C"`)),
		}, category(t, d, description.CategoryKeywords))
	})

	t.Run("malformed indicators and missing terms are skipped", func(t *testing.T) {
		d := full(t, rec(
			df("689", ' ', '0', "a", "blank"),
			df("689", '0', 'a', "a", "letter"),
			df("689", '0', '0', "x", "no term"),
			df("689", '2', '0', "a", `Say "Hi"`),
		))
		assertValues(t, []vo.DisplayValue{
			vo.NewSequence(" / ", link(`Say "Hi"`, `"Say \"Hi\""`)),
		}, category(t, d, description.CategoryKeywords))
	})

	t.Run("repeated position replaces member in place", func(t *testing.T) {
		d := full(t, rec(
			df("689", '0', '0', "a", "A"),
			df("689", '0', '1', "a", "B"),
			df("689", '0', '0', "a", "A2"),
		))
		assertValues(t, []vo.DisplayValue{
			vo.NewSequence(" / ", link("A2", `"A2"`), link("B", `"B"`)),
		}, category(t, d, description.CategoryKeywords))
	})
}

func TestRelatedLinkPriority(t *testing.T) {
	tests := map[string]struct {
		subfields []string
		want      vo.SearchLink
	}{
		"internal id": {
			subfields: []string{"t", "Label", "w", "(DE-627)123"},
			want:      vo.SearchLink{Label: "Label", Type: vo.SearchTypeID, Term: "123"},
		},
		"union catalog id": {
			subfields: []string{"t", "Label", "w", "(DE-600)456"},
			want:      vo.SearchLink{Label: "Label", Type: vo.SearchTypeNumbers, Term: "(DE-599)ZDB456", Quoted: true},
		},
		"issn": {
			subfields: []string{"t", "Label", "x", "1234-5678"},
			want:      vo.SearchLink{Label: "Label", Type: vo.SearchTypeIsn, Term: "1234-5678"},
		},
		"title fallback": {
			subfields: []string{"t", "Label", "w", "(OCoLC)42"},
			want:      vo.SearchLink{Label: "Label", Type: vo.SearchTypeTitle, Term: "Label", Quoted: true},
		},
		"internal id wins over earlier union catalog id": {
			subfields: []string{"t", "Label", "w", "(DE-600)456", "x", "1234-5678", "w", "(DE-627)123"},
			want:      vo.SearchLink{Label: "Label", Type: vo.SearchTypeID, Term: "123"},
		},
		"union catalog id wins over issn": {
			subfields: []string{"t", "Label", "x", "1234-5678", "w", "(DE-600)456"},
			want:      vo.SearchLink{Label: "Label", Type: vo.SearchTypeNumbers, Term: "(DE-599)ZDB456", Quoted: true},
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			d := full(t, rec(df("780", '0', '0', tc.subfields...)))
			assertValues(t, []vo.DisplayValue{tc.want}, category(t, d, description.CategoryPrecedingTitle))
		})
	}
}

func TestPublicationPunctuation(t *testing.T) {
	tests := map[string]struct {
		subfields []string
		want      string
	}{
		"place publisher date": {[]string{"a", "Hamburg", "b", "Verlag", "c", "2020"}, "Hamburg: Verlag 2020"},
		"place only":           {[]string{"a", "Hamburg"}, "Hamburg"},
		"publisher and date":   {[]string{"b", "Verlag", "c", "2020"}, "Verlag 2020"},
		"place and date":       {[]string{"a", "Hamburg", "c", "2020"}, "Hamburg: 2020"},
		"place and publisher":  {[]string{"a", "Hamburg", "b", "Verlag"}, "Hamburg: Verlag"},
		"date only":            {[]string{"c", "2020"}, "2020"},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			d := full(t, rec(df("264", ' ', '1', tc.subfields...)))
			assertValues(t, []vo.DisplayValue{text(tc.want)}, category(t, d, description.CategoryPublished))

			short, err := description.ShortProvider{}.CreateDescription(rec(df("264", ' ', '1', tc.subfields...)))
			require.NoError(t, err)
			assertValues(t, []vo.DisplayValue{text(tc.want)}, category(t, short, description.CategoryPublication))
		})
	}
}

func TestPublicationFallbackAndNotes(t *testing.T) {
	d := full(t, rec(
		df("260", ' ', ' ', "a", "Altona", "b", "Hammerich"),
		df("501", ' ', ' ', "a", "Mit: Anhang"),
		df("260", ' ', ' ', "c", "1850"),
	))
	assertValues(t, []vo.DisplayValue{text("Altona: Hammerich"), text("1850"), text("Mit: Anhang")},
		category(t, d, description.CategoryPublished))
	assertValues(t, []vo.DisplayValue{text("Mit: Anhang")}, category(t, d, description.CategoryIncludedItems))

	d = full(t, rec(
		df("260", ' ', ' ', "a", "Altona"),
		df("264", ' ', '1', "a", "Hamburg"),
	))
	assertValues(t, []vo.DisplayValue{text("Hamburg")}, category(t, d, description.CategoryPublished))
}

func TestHostItem(t *testing.T) {
	d := full(t, rec(
		df("245", '1', '0', "a", "Own title"),
		df("773", '0', '8', "g", "S. 1-10"),
		df("773", '1', '8', "t", "Not displayed"),
		df("773", '0', '8', "t", "Journal", "d", "Hamburg"),
	))
	assertValues(t, []vo.DisplayValue{
		vo.SearchLink{Label: "Own title", Type: vo.SearchTypeTitle, Term: "Own title", Quoted: true, Suffix: ".- S. 1-10"},
		vo.SearchLink{Label: "Journal", Type: vo.SearchTypeTitle, Term: "Journal", Quoted: true, Suffix: ".- Hamburg"},
	}, category(t, d, description.CategoryContainingWork))
}

func TestExternalLinks(t *testing.T) {
	d := full(t, rec(
		df("856", '4', '2', "u", "https://example.org/a"),
		df("856", '4', '2', "z", "kostenfrei", "u", "https://example.org/b"),
		df("856", '4', '2', "3", "Cover"),
		df("856", '4', '1', "u", "https://example.org/c"),
	))
	assertValues(t, []vo.DisplayValue{
		vo.ExternalLink{URL: "https://example.org/a", Label: "https://example.org/a"},
		vo.ExternalLink{URL: "https://example.org/b", Label: "kostenfrei"},
	}, category(t, d, description.CategoryLinks))
}

func TestShortDescription(t *testing.T) {
	r := &record.Driver{
		Short: "Hamburg",
		Sub:   "eine Stadtgeschichte",
		Record: &marc.Record{Fields: []marc.Field{
			df("100", '1', ' ', "a", "Doe, Jane", "d", "1970-", "4", "aut"),
			df("245", '1', '0', "a", "Ignored", "b", "by short provider"),
			df("264", ' ', '1', "a", "Hamburg", "b", "Verlag", "c", "2020"),
			df("501", ' ', ' ', "a", "Mit: Anhang"),
		}},
	}
	d, err := description.ShortProvider{}.CreateDescription(r)
	require.NoError(t, err)

	assert.Equal(t, []string{"Title", "Creator", "Publication"}, d.Labels())
	assertValues(t, []vo.DisplayValue{text("Hamburg : eine Stadtgeschichte")}, category(t, d, description.CategoryTitle))
	assertValues(t, []vo.DisplayValue{
		vo.SearchLink{Label: "Doe, Jane", Type: vo.SearchTypePerson, Term: "Doe, Jane", Quoted: true},
	}, category(t, d, description.CategoryCreator))
	assertValues(t, []vo.DisplayValue{text("Hamburg: Verlag 2020")}, category(t, d, description.CategoryPublication))
}

func TestShortDescriptionWithoutLegacyFallback(t *testing.T) {
	r := &record.Driver{
		Short: "Altona",
		Record: &marc.Record{Fields: []marc.Field{
			df("260", ' ', ' ', "a", "Altona", "c", "1850"),
			df("700", '1', ' ', "a", "Added, Entry"),
		}},
	}
	d, err := description.ShortProvider{}.CreateDescription(r)
	require.NoError(t, err)
	assert.Equal(t, []string{"Title"}, d.Labels())
	assertValues(t, []vo.DisplayValue{text("Altona")}, category(t, d, description.CategoryTitle))
}

func TestProviderFor(t *testing.T) {
	p, err := description.ProviderFor(description.LevelFull)
	require.NoError(t, err)
	assert.IsType(t, description.FullProvider{}, p)

	p, err = description.ProviderFor(description.LevelShort)
	require.NoError(t, err)
	assert.IsType(t, description.ShortProvider{}, p)

	_, err = description.ProviderFor("medium")
	assert.ErrorIs(t, err, description.ErrUnknownLevel)
}
