package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/janisz/chgis-mcp/pkg/tgaz"
)

// ToolError is the error envelope returned to callers.
// Code is one of mcp.INVALID_PARAMS, mcp.METHOD_NOT_FOUND or mcp.INTERNAL_ERROR.
type ToolError struct {
	Code    int
	Message string
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("%s: %s", codeName(e.Code), e.Message)
}

func codeName(code int) string {
	switch code {
	case mcp.INVALID_PARAMS:
		return "InvalidParams"
	case mcp.METHOD_NOT_FOUND:
		return "MethodNotFound"
	case mcp.INTERNAL_ERROR:
		return "InternalError"
	default:
		return fmt.Sprintf("Error(%d)", code)
	}
}

// Dispatch runs one tool invocation to completion and returns the report text.
// Any failure is returned as a *ToolError.
func (s *ChgisServer) Dispatch(ctx context.Context, name string, args map[string]any) (string, error) {
	var (
		text string
		err  error
	)

	switch name {
	case tgaz.ToolPlaceByID:
		text, err = s.searchPlaceByID(ctx, args)
	case tgaz.ToolSearchPlaces:
		text, err = s.searchPlaces(ctx, args)
	case tgaz.ToolHistoricalContext:
		text, err = s.getPlaceHistoricalContext(ctx, args)
	default:
		err = tgaz.UnknownTool(name)
	}

	if err != nil {
		s.logger.Warn("Tool call failed", slog.String("tool", name), slog.Any("error", err))
		return "", toToolError(err)
	}
	return text, nil
}

func toToolError(err error) *ToolError {
	switch {
	case errors.Is(err, tgaz.ErrUnknownTool):
		return &ToolError{Code: mcp.METHOD_NOT_FOUND, Message: err.Error()}
	case errors.Is(err, tgaz.ErrInvalidParams):
		return &ToolError{Code: mcp.INVALID_PARAMS, Message: err.Error()}
	}
	return &ToolError{Code: mcp.INTERNAL_ERROR, Message: "Tool execution failed: " + err.Error()}
}

// handleToolCall adapts Dispatch to the MCP tool handler signature.
func (s *ChgisServer) handleToolCall(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.logger.Info("Tool called",
		slog.String("tool", request.Params.Name),
		slog.Any("arguments", request.Params.Arguments))

	text, err := s.Dispatch(ctx, request.Params.Name, request.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (s *ChgisServer) searchPlaceByID(ctx context.Context, args map[string]any) (string, error) {
	p, err := tgaz.ParsePlaceByID(args)
	if err != nil {
		return "", err
	}

	body, err := s.fetch(ctx, s.builder.PlaceByID(p))
	if err != nil {
		return "", lookupError(err, p.ID)
	}

	if p.Format != tgaz.FormatJSON {
		return tgaz.RenderRaw("Place Details", p.Format, body), nil
	}
	rec, err := tgaz.ExtractPlaceRecord(body, p.ID)
	if err != nil {
		return "", err
	}
	return tgaz.RenderPlaceDetails(rec), nil
}

func (s *ChgisServer) searchPlaces(ctx context.Context, args map[string]any) (string, error) {
	p, err := tgaz.ParseSearch(args)
	if err != nil {
		return "", err
	}

	body, err := s.fetch(ctx, s.builder.Search(p))
	if err != nil {
		return "", err
	}

	if p.Format != tgaz.FormatJSON {
		return tgaz.RenderRaw("Search Results", p.Format, body), nil
	}
	set, err := tgaz.ExtractSearchResults(body)
	if err != nil {
		return "", err
	}
	return tgaz.RenderSearchResults(set), nil
}

func (s *ChgisServer) getPlaceHistoricalContext(ctx context.Context, args map[string]any) (string, error) {
	p, err := tgaz.ParseContext(args)
	if err != nil {
		return "", err
	}

	body, err := s.fetch(ctx, s.builder.HistoricalContext(p))
	if err != nil {
		return "", lookupError(err, p.ID)
	}
	return tgaz.RenderHistoricalContext(tgaz.ExtractHistoricalContext(p.ID, body)), nil
}

// lookupError turns an upstream 404 on an id-addressed lookup into a not-found error.
func lookupError(err error, id string) error {
	var se *StatusError
	if errors.As(err, &se) && se.Code == http.StatusNotFound {
		return tgaz.NotFound(id)
	}
	return err
}
