package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"
)

// Helper function to extract text content from MCP result
func extractTextContent(result *mcp.CallToolResult) string {
	if result == nil {
		return ""
	}

	var content strings.Builder
	for _, c := range result.Content {
		if textContent, ok := mcp.AsTextContent(c); ok {
			content.WriteString(textContent.Text)
		}
	}
	return content.String()
}

// Create a mock CallToolRequest for testing
func createMockRequest(name string, params map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: params,
		},
	}
}

// fakeResponse is what the fake gazetteer answers for a path prefix.
type fakeResponse struct {
	status int
	body   string
}

// fakeGazetteer records every request it receives.
type fakeGazetteer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []*http.Request
}

func (f *fakeGazetteer) hits() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (f *fakeGazetteer) last() *http.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return nil
	}
	return f.requests[len(f.requests)-1]
}

// setupFakeGazetteer serves the response with the longest matching path prefix; unknown paths get 404.
func setupFakeGazetteer(t testing.TB, responses map[string]fakeResponse) *fakeGazetteer {
	t.Helper()
	f := &fakeGazetteer{}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests = append(f.requests, r.Clone(r.Context()))
		f.mu.Unlock()

		match := ""
		for prefix := range responses {
			if strings.HasPrefix(r.URL.Path, prefix) && len(prefix) > len(match) {
				match = prefix
			}
		}
		if match == "" {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, "Not found")
			return
		}
		w.WriteHeader(responses[match].status)
		fmt.Fprint(w, responses[match].body)
	}))
	t.Cleanup(f.Close)
	return f
}

// newTestServer returns a ChgisServer pointed at the fake gazetteer mounted under /tgaz.
func newTestServer(t testing.TB, f *fakeGazetteer) *ChgisServer {
	t.Helper()
	s, err := NewChgisServerWithConfig(Config{BaseURL: f.URL + "/tgaz"})
	require.NoError(t, err)
	return s
}
