package refiner

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanResponse(t *testing.T) {
	t.Run("valid JSON is a no-op up to whitespace", func(t *testing.T) {
		in := `  {"status": "SUCCESS", "command": null}  `
		assert.Equal(t, `{"status": "SUCCESS", "command": null}`, CleanResponse(in))
	})

	t.Run("strips code fences with language tag", func(t *testing.T) {
		in := "```json\n{\"status\": \"OUT_OF_SCOPE\"}\n```"
		assert.Equal(t, `{"status": "OUT_OF_SCOPE"}`, CleanResponse(in))
	})

	t.Run("fenced with trailing comma and line comment parses after cleanup", func(t *testing.T) {
		in := "```json\n" +
			"{\n" +
			"  \"status\": \"SUCCESS\", // picked the aggregation tool\n" +
			"  \"command\": {\n" +
			"    \"tool_name\": \"calculate_expenses\",\n" +
			"    \"filter_type\": \"CITY\",\n" +
			"    \"filter_values\": [\"CHENNAI\"],\n" +
			"  },\n" +
			"}\n" +
			"```"

		cleaned := CleanResponse(in)

		var v map[string]any
		require.NoError(t, json.Unmarshal([]byte(cleaned), &v))
		assert.Equal(t, "SUCCESS", v["status"])
	})

	t.Run("removes block comments", func(t *testing.T) {
		in := "{\"status\": \"ERROR\" /* model was\nunsure */}"
		cleaned := CleanResponse(in)

		var v map[string]any
		require.NoError(t, json.Unmarshal([]byte(cleaned), &v))
		assert.Equal(t, "ERROR", v["status"])
	})

	t.Run("removes trailing comma before bracket", func(t *testing.T) {
		in := `{"status": "SUCCESS", "command": {"tool_name": "calculate_expenses", "filter_type": "CITY", "filter_values": ["DELHI", "JAIPUR",]}}`
		cleaned := CleanResponse(in)

		var v map[string]any
		require.NoError(t, json.Unmarshal([]byte(cleaned), &v))
	})
}

func TestDecodeResult(t *testing.T) {
	t.Run("well-formed success", func(t *testing.T) {
		result, err := decodeResult(`{
			"status": "SUCCESS",
			"command": {"tool_name": "calculate_expenses", "filter_type": "REGION", "filter_values": ["NORTH"]},
			"clarification_question": null
		}`)
		require.NoError(t, err)
		assert.Equal(t, StatusSuccess, result.Status)
		require.NotNil(t, result.Command)
		assert.Equal(t, []string{"NORTH"}, result.Command.FilterValues)
	})

	t.Run("missing status is a contract violation", func(t *testing.T) {
		_, err := decodeResult(`{"command": null}`)
		require.Error(t, err)
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		_, err := decodeResult(`{"status": "MAYBE"}`)
		require.Error(t, err)
	})

	t.Run("success without command rejected", func(t *testing.T) {
		_, err := decodeResult(`{"status": "SUCCESS", "command": null}`)
		require.Error(t, err)
	})

	t.Run("unknown tool name rejected", func(t *testing.T) {
		_, err := decodeResult(`{
			"status": "SUCCESS",
			"command": {"tool_name": "drop_tables", "filter_type": "CITY", "filter_values": ["DELHI"]}
		}`)
		require.Error(t, err)
	})

	t.Run("empty filter values rejected", func(t *testing.T) {
		_, err := decodeResult(`{
			"status": "SUCCESS",
			"command": {"tool_name": "calculate_expenses", "filter_type": "CITY", "filter_values": []}
		}`)
		require.Error(t, err)
	})

	t.Run("clarification needed", func(t *testing.T) {
		result, err := decodeResult(`{
			"status": "CLARIFICATION_NEEDED",
			"command": null,
			"clarification_question": "Which city did you mean?"
		}`)
		require.NoError(t, err)
		assert.Equal(t, StatusClarificationNeeded, result.Status)
		assert.Equal(t, "Which city did you mean?", result.ClarificationQuestion)
	})
}
