package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/foomo/recorddescription-mcp/description"
	"github.com/foomo/recorddescription-mcp/marc"
	"github.com/foomo/recorddescription-mcp/record"
	"github.com/foomo/recorddescription-mcp/scrape"
	"github.com/foomo/recorddescription-mcp/service"
	"github.com/foomo/recorddescription-mcp/service/vo"
)

const Version = "0.1.0"

// maxBatchSize limits the ids of a single describeBatch call
const maxBatchSize = 100

type DescribeRecordRequest struct {
	ID    string `json:"id"`    // Record id in the index
	Level string `json:"level"` // full or short, defaults to full
}

type DescribeMarcRequest struct {
	Marc  string `json:"marc"` // MARCXML or ISO 2709 record
	Level string `json:"level"`
}

type DescribeBatchRequest struct {
	IDs   []string `json:"ids"`
	Level string   `json:"level"`
}

type ScrapeRecordRequest struct {
	URL      string `json:"url"`      // Staff view page of the record
	Selector string `json:"selector"` // Selector of the MARC table
	Level    string `json:"level"`
}

// Observer is notified about every description a tool created
type Observer interface {
	DescriptionCreated(d *vo.RecordDescription)
}

type handlers struct {
	logger     *zap.Logger
	httpClient *http.Client
	service    service.Service
	observers  []Observer
}

// NewServer creates a new MCP server with the description tools
func NewServer(logger *zap.Logger, httpClient *http.Client, serviceInstance service.Service, observers ...Observer) *server.MCPServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	h := &handlers{
		logger:     logger,
		httpClient: httpClient,
		service:    serviceInstance,
		observers:  observers,
	}

	s := server.NewMCPServer(
		"Record Description MCP",
		Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	s.AddTool(mcp.NewTool("describeRecord",
		mcp.WithDescription("Describe a catalog record from the search index as ordered, typed categories"),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("The id of the record in the search index"),
		),
		levelOption(),
	), mcp.NewTypedToolHandler(h.describeRecord))

	s.AddTool(mcp.NewTool("describeMarc",
		mcp.WithDescription("Describe an inline MARC21 record given as MARCXML or ISO 2709"),
		mcp.WithString("marc",
			mcp.Required(),
			mcp.Description("The MARC record, either a MARCXML <record> or a binary ISO 2709 record"),
		),
		levelOption(),
	), mcp.NewTypedToolHandler(h.describeMarc))

	s.AddTool(mcp.NewTool("describeBatch",
		mcp.WithDescription("Describe several catalog records from the search index, keeping their order"),
		mcp.WithArray("ids",
			mcp.Required(),
			mcp.Description(fmt.Sprintf("The record ids, at most %d", maxBatchSize)),
			mcp.Items(map[string]any{"type": "string"}),
		),
		levelOption(),
	), mcp.NewTypedToolHandler(h.describeBatch))

	s.AddTool(mcp.NewTool("scrapeRecord",
		mcp.WithDescription("Read the MARC table of a catalog staff view page and describe the record"),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The URL of the staff view page"),
		),
		mcp.WithString("selector",
			mcp.Required(),
			mcp.Description("Selector of the MARC table (e.g., '#marc', '.citation', 'table')"),
		),
		levelOption(),
	), mcp.NewTypedToolHandler(h.scrapeRecord))

	return s
}

func levelOption() mcp.ToolOption {
	return mcp.WithString("level",
		mcp.Description("The detail level of the description"),
		mcp.Enum(string(description.LevelFull), string(description.LevelShort)),
		mcp.DefaultString(string(description.LevelFull)),
	)
}

func parseLevel(level string) (description.Level, error) {
	if level == "" {
		return description.LevelFull, nil
	}
	if _, err := description.ProviderFor(description.Level(level)); err != nil {
		return "", err
	}
	return description.Level(level), nil
}

func (h *handlers) describeRecord(ctx context.Context, request mcp.CallToolRequest, args DescribeRecordRequest) (*mcp.CallToolResult, error) {
	if args.ID == "" {
		return mcp.NewToolResultError("id is required"), nil
	}
	level, err := parseLevel(args.Level)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	d, err := h.service.Describe(ctx, args.ID, level)
	if err != nil {
		return h.toolError(ctx, "describeRecord", "failed to describe record", err), nil
	}
	h.notify(d)
	return jsonResult(d)
}

func (h *handlers) describeMarc(ctx context.Context, request mcp.CallToolRequest, args DescribeMarcRequest) (*mcp.CallToolResult, error) {
	if args.Marc == "" {
		return mcp.NewToolResultError("marc is required"), nil
	}
	level, err := parseLevel(args.Level)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	m, err := marc.Decode([]byte(args.Marc))
	if err != nil {
		return h.toolError(ctx, "describeMarc", "failed to decode record", err), nil
	}
	d, err := h.service.DescribeRecord(ctx, record.FromMarc(m), level)
	if err != nil {
		return h.toolError(ctx, "describeMarc", "failed to describe record", err), nil
	}
	h.notify(d)
	return jsonResult(d)
}

func (h *handlers) describeBatch(ctx context.Context, request mcp.CallToolRequest, args DescribeBatchRequest) (*mcp.CallToolResult, error) {
	if len(args.IDs) == 0 {
		return mcp.NewToolResultError("ids are required"), nil
	}
	if len(args.IDs) > maxBatchSize {
		return mcp.NewToolResultError(fmt.Sprintf("at most %d ids are allowed, got %d", maxBatchSize, len(args.IDs))), nil
	}
	for i, id := range args.IDs {
		if id == "" {
			return mcp.NewToolResultError(fmt.Sprintf("ids[%d] is empty", i)), nil
		}
	}
	level, err := parseLevel(args.Level)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	batch, err := h.service.DescribeBatch(ctx, args.IDs, level)
	if err != nil {
		return h.toolError(ctx, "describeBatch", "failed to describe records", err), nil
	}
	for i := range batch.Descriptions {
		h.notify(&batch.Descriptions[i])
	}
	return jsonResult(batch)
}

func (h *handlers) scrapeRecord(ctx context.Context, request mcp.CallToolRequest, args ScrapeRecordRequest) (*mcp.CallToolResult, error) {
	if args.URL == "" {
		return mcp.NewToolResultError("url is required"), nil
	}
	if args.Selector == "" {
		return mcp.NewToolResultError("selector is required"), nil
	}
	level, err := parseLevel(args.Level)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	m, err := scrape.Record(ctx, h.httpClient, args.URL, args.Selector)
	if err != nil {
		return h.toolError(ctx, "scrapeRecord", "failed to scrape record", err), nil
	}
	d, err := h.service.DescribeRecord(ctx, record.FromMarc(m), level)
	if err != nil {
		return h.toolError(ctx, "scrapeRecord", "failed to describe record", err), nil
	}
	h.notify(d)
	return jsonResult(d)
}

// toolError logs a failed call, with the caller address when it came over
// HTTP, and turns it into a tool error result.
func (h *handlers) toolError(ctx context.Context, tool, msg string, err error) *mcp.CallToolResult {
	fields := []zap.Field{zap.String("tool", tool), zap.Error(err)}
	if req, ok := HTTPRequestFromContext(ctx); ok {
		fields = append(fields, zap.String("remoteAddr", req.RemoteAddr))
	}
	h.logger.Info(msg, fields...)
	return mcp.NewToolResultError(fmt.Sprintf("%s: %v", msg, err))
}

func (h *handlers) notify(d *vo.RecordDescription) {
	for _, o := range h.observers {
		o.DescriptionCreated(d)
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	responseBytes, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseBytes)), nil
}
