package mcp

import (
	"context"
	"encoding/json"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ka2n/recview/api"
	"github.com/ka2n/recview/api/record"
	"github.com/ka2n/recview/api/resource"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
)

var validate = validator.New()

func InitTools(s *api.Service) []server.ServerTool {
	tools := []server.ServerTool{}

	tools = append(tools, newServerTool(ListRecords(s)))
	tools = append(tools, newServerTool(FetchRecordImages(s)))

	return tools
}

type recordInfo struct {
	Index   int      `json:"index"`
	Title   string   `json:"title"`
	Details string   `json:"details,omitempty"`
	Images  []string `json:"images"`
}

func ListRecords(s *api.Service) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool(
			"list_records",
			mcp.WithDescription("List records with their index, title, details and image URLs"),
			mcp.WithString("query", mcp.Description("Only return records whose title or details contain this text")),
		), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			type ToolArguments struct {
				Query string `mapstructure:"query" validate:"omitempty"`
			}
			var args ToolArguments
			if err := mapstructure.Decode(req.Params.Arguments, &args); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			if err := validate.StructCtx(ctx, args); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			infos := make([]recordInfo, 0)
			for i, r := range s.Records() {
				infos = append(infos, recordInfo{
					Index:   i,
					Title:   r.Title,
					Details: r.Details,
					Images: lo.Map(r.Locators(), func(l *record.Locator, _ int) string {
						return l.String()
					}),
				})
			}

			if q := strings.ToLower(args.Query); q != "" {
				infos = lo.Filter(infos, func(info recordInfo, _ int) bool {
					return strings.Contains(strings.ToLower(info.Title), q) ||
						strings.Contains(strings.ToLower(info.Details), q)
				})
			}

			b, err := json.Marshal(infos)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			return mcp.NewToolResultText(string(b)), nil
		}
}

type imageInfo struct {
	Slot   string `json:"slot"`
	URL    string `json:"url"`
	Format string `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Bytes  int    `json:"bytes"`
}

type fetchResult struct {
	Index  int         `json:"index"`
	Title  string      `json:"title"`
	State  string      `json:"state"`
	Images []imageInfo `json:"images"`
	Errors []string    `json:"errors,omitempty"`
}

func FetchRecordImages(s *api.Service) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool(
			"fetch_record_images",
			mcp.WithDescription("Load every image of a record. Succeeds only when all images load"),
			mcp.WithNumber("index", mcp.Required(), mcp.Description("Record index as returned by list_records")),
		), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			type ToolArguments struct {
				Index *float64 `mapstructure:"index" validate:"required,gte=0"`
			}
			var args ToolArguments
			if err := mapstructure.Decode(req.Params.Arguments, &args); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			if err := validate.StructCtx(ctx, args); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			if *args.Index != math.Trunc(*args.Index) {
				return mcp.NewToolResultError("Record index must be a whole number"), nil
			}

			records := s.Records()
			index := int(*args.Index)
			if index >= len(records) {
				return mcp.NewToolResultError("No record at that index"), nil
			}
			rec := records[index]

			result := s.Aggregator.FetchRecord(ctx, rec)

			out := fetchResult{
				Index:  index,
				Title:  rec.Title,
				State:  result.State().String(),
				Images: make([]imageInfo, 0, record.SlotCount),
				Errors: lo.Map(result.Errors, func(err error, _ int) string {
					return err.Error()
				}),
			}
			for _, slot := range record.Slots() {
				res := result.Resources[slot]
				if res == nil {
					continue
				}
				out.Images = append(out.Images, newImageInfo(slot, res))
			}

			b, err := json.Marshal(out)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			return mcp.NewToolResultText(string(b)), nil
		}
}

func newImageInfo(slot record.Slot, res *resource.Resource) imageInfo {
	info := imageInfo{
		Slot:   slot.String(),
		Format: res.Format,
		Width:  res.Bounds().Dx(),
		Height: res.Bounds().Dy(),
		Bytes:  res.Size,
	}
	if res.Locator != nil {
		info.URL = res.Locator.String()
	}
	return info
}
