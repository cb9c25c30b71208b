// Package description turns MARC21 bibliographic records into ordered,
// typed display descriptions.
//
// Providers are pure functions of the record they are given. They keep no
// state between calls and never modify the record, so a single provider may
// be shared by any number of goroutines.
package description

import (
	"errors"
	"fmt"

	"github.com/foomo/recorddescription-mcp/description/vo"
	"github.com/foomo/recorddescription-mcp/marc"
)

// Record is the catalog record a description is built from.
type Record interface {
	UniqueID() string
	// Formats are the media types already resolved by the index.
	Formats() []string
	ShortTitle() string
	SubTitle() string
	Marc() *marc.Record
}

// Provider creates the description of one detail level.
type Provider interface {
	CreateDescription(rec Record) (*vo.Description, error)
}

// ErrUnknownLevel is returned for a level without a provider.
var ErrUnknownLevel = errors.New("unknown description level")

type Level string

const (
	LevelFull  Level = "full"
	LevelShort Level = "short"
)

// ProviderFor returns the provider of a detail level.
func ProviderFor(level Level) (Provider, error) {
	switch level {
	case LevelFull:
		return FullProvider{}, nil
	case LevelShort:
		return ShortProvider{}, nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownLevel, level)
	}
}

// publicationStatement formats place, publisher and date without leaving
// stray punctuation for absent parts.
func publicationStatement(f *marc.DataField) string {
	parts := f.Pick("a", "b", "c")
	place, publisher, date := parts[0], parts[1], parts[2]

	statement := place
	if place != "" && (publisher != "" || date != "") {
		statement += ": "
	}
	statement += publisher
	if publisher != "" && date != "" {
		statement += " "
	}
	return statement + date
}

func roleText(code string) vo.Text {
	return vo.Text{
		Text:         code,
		Prefix:       "[",
		Suffix:       "]",
		Translatable: true,
		TextDomain:   vo.TextDomainCreatorRoles,
	}
}
