package solr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/foomo/recorddescription-mcp/marc"
	"github.com/foomo/recorddescription-mcp/record"
)

// ErrNotFound is returned when the index holds no document with the id.
var ErrNotFound = errors.New("solr: record not found")

// Settings name the index and the document fields records are read from.
type Settings struct {
	URL             string `yaml:"url"`
	Core            string `yaml:"core"`
	IDField         string `yaml:"id_field"`
	FullRecordField string `yaml:"fullrecord_field"`
	FormatField     string `yaml:"format_field"`
	ShortTitleField string `yaml:"short_title_field"`
	SubTitleField   string `yaml:"sub_title_field"`
}

// DefaultSettings match the VuFind Solr schema.
func DefaultSettings() Settings {
	return Settings{
		URL:             "http://localhost:8983/solr",
		Core:            "biblio",
		IDField:         "id",
		FullRecordField: "fullrecord",
		FormatField:     "format",
		ShortTitleField: "title_short",
		SubTitleField:   "title_sub",
	}
}

// Document is the part of an index document a description needs.
type Document struct {
	ID         string
	Formats    []string
	ShortTitle string
	SubTitle   string
	FullRecord string
}

// Record decodes the full record and wraps it as a record driver.
func (d *Document) Record() (*record.Driver, error) {
	if d.FullRecord == "" {
		return nil, fmt.Errorf("%w: document %s has no full record", marc.ErrInvalidRecord, d.ID)
	}
	m, err := marc.Decode([]byte(d.FullRecord))
	if err != nil {
		return nil, fmt.Errorf("failed to decode full record of %s: %w", d.ID, err)
	}
	return &record.Driver{
		ID:         d.ID,
		FormatList: d.Formats,
		Short:      d.ShortTitle,
		Sub:        d.SubTitle,
		Record:     m,
	}, nil
}

type Client struct {
	settings   Settings
	httpClient *http.Client
}

func NewClient(settings Settings, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{settings: settings, httpClient: httpClient}
}

type selectResponse struct {
	Response struct {
		NumFound int                          `json:"numFound"`
		Docs     []map[string]json.RawMessage `json:"docs"`
	} `json:"response"`
}

// Get loads the document with the given id.
func (c *Client) Get(ctx context.Context, id string) (*Document, error) {
	s := c.settings
	query := url.Values{}
	query.Set("q", s.IDField+":"+strconv.Quote(id))
	query.Set("wt", "json")
	query.Set("rows", "1")
	query.Set("fl", strings.Join([]string{s.IDField, s.FullRecordField, s.FormatField, s.ShortTitleField, s.SubTitleField}, ","))
	endpoint := strings.TrimRight(s.URL, "/") + "/" + s.Core + "/select?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query index: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("index request failed with status: %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var result selectResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse index response: %w", err)
	}
	if len(result.Response.Docs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return c.document(result.Response.Docs[0])
}

// Record loads the document with the given id and decodes its MARC data.
func (c *Client) Record(ctx context.Context, id string) (*record.Driver, error) {
	doc, err := c.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return doc.Record()
}

func (c *Client) document(raw map[string]json.RawMessage) (*Document, error) {
	s := c.settings
	doc := &Document{}
	for field, target := range map[string]*string{
		s.IDField:         &doc.ID,
		s.FullRecordField: &doc.FullRecord,
		s.ShortTitleField: &doc.ShortTitle,
		s.SubTitleField:   &doc.SubTitle,
	} {
		v, err := stringValue(raw[field])
		if err != nil {
			return nil, fmt.Errorf("failed to read field %s: %w", field, err)
		}
		*target = v
	}
	formats, err := stringValues(raw[s.FormatField])
	if err != nil {
		return nil, fmt.Errorf("failed to read field %s: %w", s.FormatField, err)
	}
	doc.Formats = formats
	return doc, nil
}

// stringValue accepts a string or the first element of a multi-valued field.
func stringValue(raw json.RawMessage) (string, error) {
	values, err := stringValues(raw)
	if err != nil || len(values) == 0 {
		return "", err
	}
	return values[0], nil
}

func stringValues(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return []string{single}, nil
	}
	var multi []string
	if err := json.Unmarshal(raw, &multi); err != nil {
		return nil, err
	}
	return multi, nil
}
