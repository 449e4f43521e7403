package mcp

import (
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/strategist/internal/errors"
)

// decode unmarshals MCP request arguments into a typed request struct.
// Failures come back as coded malformed-input errors so handlers can
// pass them straight to errorResult.
func decode[T any](req mcp.CallToolRequest) (T, error) {
	var result T
	b, err := json.Marshal(req.GetArguments())
	if err != nil {
		return result, errors.NewMalformedInput("encode arguments: " + err.Error())
	}
	if err := json.Unmarshal(b, &result); err != nil {
		return result, errors.NewMalformedInput("decode arguments: " + err.Error())
	}
	return result, nil
}
