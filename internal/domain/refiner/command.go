// Package refiner turns user utterances into structured filter commands. It
// tries a deterministic text-based fast path first and falls back to the
// text-generation backend, whose output is schema-validated at the boundary.
package refiner

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Tool names the refiner may select.
const (
	ToolCalculateExpenses = "calculate_expenses"
	ToolListWarehouses    = "list_warehouses_by_location"
	ToolWarehouseDetails  = "get_warehouse_details"
	ToolFindByAddress     = "find_warehouse_by_address"
)

// Filter types a command may carry.
const (
	FilterRegion              = "REGION"
	FilterCity                = "CITY"
	FilterWarehouse           = "WAREHOUSE"
	FilterWarehouseIdentifier = "WAREHOUSE_IDENTIFIER"
	FilterAddressKeyword      = "ADDRESS_KEYWORD"
)

// Refinement statuses. Exactly one variant of Result is meaningful per
// status.
const (
	StatusSuccess             = "SUCCESS"
	StatusClarificationNeeded = "CLARIFICATION_NEEDED"
	StatusOutOfScope          = "OUT_OF_SCOPE"
	StatusError               = "ERROR"
)

// Command is a validated-shape (not validated-content) filter command. Values
// are never trusted until checked against the reference snapshot by the
// caller.
type Command struct {
	ToolName     string   `json:"tool_name"`
	FilterType   string   `json:"filter_type"`
	FilterValues []string `json:"filter_values"`
}

// Result is the discriminated refinement outcome.
type Result struct {
	Status                string   `json:"status"`
	Command               *Command `json:"command"`
	ClarificationQuestion string   `json:"clarification_question"`
	ErrorMessage          string   `json:"error_message,omitempty"`
}

// commandSchema is the strict output contract for the text-generation
// backend. Anything that does not validate is rejected and routed to the
// fallback path.
const commandSchema = `{
  "type": "object",
  "required": ["status"],
  "properties": {
    "status": {
      "type": "string",
      "enum": ["SUCCESS", "CLARIFICATION_NEEDED", "OUT_OF_SCOPE", "ERROR"]
    },
    "command": {
      "type": ["object", "null"],
      "required": ["tool_name", "filter_type", "filter_values"],
      "properties": {
        "tool_name": {
          "type": "string",
          "enum": ["calculate_expenses", "list_warehouses_by_location", "get_warehouse_details", "find_warehouse_by_address"]
        },
        "filter_type": {
          "type": "string",
          "enum": ["REGION", "CITY", "WAREHOUSE", "WAREHOUSE_IDENTIFIER", "ADDRESS_KEYWORD"]
        },
        "filter_values": {
          "type": "array",
          "items": {"type": "string"},
          "minItems": 1
        }
      }
    },
    "clarification_question": {
      "type": ["string", "null"]
    },
    "error_message": {
      "type": ["string", "null"]
    }
  }
}`

var compiledSchema = jsonschema.MustCompileString("command.schema.json", commandSchema)

// decodeResult validates cleaned backend output against the command contract
// and decodes it. A SUCCESS status without a command is a contract violation.
func decodeResult(cleaned string) (*Result, error) {
	var v any
	if err := json.Unmarshal([]byte(cleaned), &v); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	if err := compiledSchema.Validate(v); err != nil {
		return nil, fmt.Errorf("output does not match command contract: %w", err)
	}

	var result Result
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return nil, fmt.Errorf("failed to decode command: %w", err)
	}

	if result.Status == StatusSuccess && result.Command == nil {
		return nil, fmt.Errorf("output does not match command contract: SUCCESS without command")
	}

	return &result, nil
}

// String renders a command for logs and the execution banner.
func (c *Command) String() string {
	return fmt.Sprintf("%s(%s: %s)", c.ToolName, c.FilterType, strings.Join(c.FilterValues, ", "))
}
