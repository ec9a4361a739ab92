package apiclient

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/jobmatch/internal/types"
)

// ServerResult is the decoded success envelope of the extraction endpoint.
type ServerResult struct {
	// ParsedData is the raw, not yet normalized extraction payload.
	ParsedData    map[string]any
	ParsingMethod types.ParsingMethod
	Message       string
}

// ExtractEnvelope decodes a success response. The payload may sit at the
// top level or nested under "data"; the top level wins. A missing
// parsing_method defaults to server_manual.
func ExtractEnvelope(body []byte) (*ServerResult, error) {
	var env map[string]any
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}
	if env == nil {
		return nil, fmt.Errorf("%w: empty body", ErrMalformedEnvelope)
	}
	if ok, present := env["success"].(bool); present && !ok {
		return nil, fmt.Errorf("%w: success is false", ErrMalformedEnvelope)
	}

	nested, _ := env["data"].(map[string]any)

	parsed, ok := env["parsed_data"].(map[string]any)
	if !ok {
		parsed, ok = nested["parsed_data"].(map[string]any)
	}
	if !ok {
		return nil, fmt.Errorf("%w: parsed_data missing", ErrMalformedEnvelope)
	}

	method := types.ParsingMethodServerManual
	for _, src := range []map[string]any{env, nested} {
		if raw, isString := src["parsing_method"].(string); isString {
			if m, valid := types.ParseParsingMethod(raw); valid {
				method = m
				break
			}
		}
	}

	message, _ := env["message"].(string)
	if message == "" {
		message, _ = nested["message"].(string)
	}

	return &ServerResult{ParsedData: parsed, ParsingMethod: method, Message: message}, nil
}

// RenderDetail extracts a displayable error detail from an error body. Only
// string details are used; structured details (validation arrays, objects)
// and unparseable bodies render as empty.
func RenderDetail(body []byte) string {
	var env map[string]any
	if err := json.Unmarshal(body, &env); err != nil {
		return ""
	}
	for _, key := range []string{"detail", "error", "message"} {
		if s, ok := env[key].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}
