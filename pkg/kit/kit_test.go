package kit

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

func tagger(tag string) Middleware {
	return func(next Endpoint) Endpoint {
		return func(ctx context.Context, req any) (any, error) {
			resp, err := next(ctx, req.(string)+tag)
			return resp.(string) + tag, err
		}
	}
}

func TestChain_Order(t *testing.T) {
	ep := func(_ context.Context, req any) (any, error) { return req.(string) + "|", nil }
	resp, err := Chain(tagger("a"), tagger("b"), tagger("c"))(ep)(context.Background(), "")
	if err != nil {
		t.Fatalf("endpoint: %v", err)
	}
	// Requests flow a->b->c, responses unwind c->b->a.
	if resp != "abc|cba" {
		t.Errorf("resp = %q, want abc|cba", resp)
	}
}

func TestContextKeys(t *testing.T) {
	ctx := context.Background()
	if GetTransport(ctx) != "http" {
		t.Errorf("default transport = %q, want http", GetTransport(ctx))
	}
	ctx = WithTransport(WithRequestID(ctx, "r-1"), "mcp")
	if GetTransport(ctx) != "mcp" || GetRequestID(ctx) != "r-1" {
		t.Errorf("transport=%q request=%q", GetTransport(ctx), GetRequestID(ctx))
	}
}

func callReq(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func TestArgs(t *testing.T) {
	req := callReq(map[string]any{"year": float64(2020), "type": "gdp", "limit": "5", "bad": "x"})

	if got := StringArg(req, "year"); got != "2020" {
		t.Errorf("year = %q, want 2020", got)
	}
	if got := StringArg(req, "type"); got != "gdp" {
		t.Errorf("type = %q", got)
	}
	if got := StringArg(req, "missing"); got != "" {
		t.Errorf("missing = %q", got)
	}
	if n, err := IntArg(req, "limit"); err != nil || n != 5 {
		t.Errorf("limit = %d, %v", n, err)
	}
	if n, err := IntArg(req, "missing"); err != nil || n != 0 {
		t.Errorf("missing limit = %d, %v", n, err)
	}
	if _, err := IntArg(req, "bad"); err == nil || !strings.Contains(err.Error(), "bad") {
		t.Errorf("bad limit error = %v", err)
	}
}
