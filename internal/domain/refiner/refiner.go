package refiner

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/FACorreiaa/warehouse-assistant/internal/domain/conversation"
	"github.com/FACorreiaa/warehouse-assistant/internal/domain/reference"
	"github.com/FACorreiaa/warehouse-assistant/pkg/llm"
)

// fallbackSuggestionCap bounds how many fuzzy city suggestions the parse
// failure fallback offers.
const fallbackSuggestionCap = 3

// Refiner turns a user utterance plus conversation history into a structured
// command. It always returns a Result; backend and parse failures surface as
// the ERROR variant, never as panics or raw errors.
type Refiner struct {
	generator  llm.Generator
	snapshot   *reference.Snapshot
	resolver   *CodeResolver
	sampleSize int
	logger     *slog.Logger
}

// New builds a refiner over the reference snapshot.
func New(generator llm.Generator, snapshot *reference.Snapshot, sampleSize int, logger *slog.Logger) *Refiner {
	if sampleSize <= 0 {
		sampleSize = 15
	}
	return &Refiner{
		generator:  generator,
		snapshot:   snapshot,
		resolver:   NewCodeResolver(snapshot.Warehouses()),
		sampleSize: sampleSize,
		logger:     logger,
	}
}

// Refine resolves the query to a command. An exact warehouse-code hit in the
// query short-circuits to SUCCESS without a backend call.
func (r *Refiner) Refine(ctx context.Context, query string, history *conversation.History) Result {
	r.logger.Info("refining query", "query", query, "history_len", history.Len())

	if code, ok := r.resolver.Resolve(query); ok {
		r.logger.Info("direct warehouse code match", "code", code)
		return Result{
			Status: StatusSuccess,
			Command: &Command{
				ToolName:     ToolCalculateExpenses,
				FilterType:   FilterWarehouse,
				FilterValues: []string{code},
			},
		}
	}

	warehouses := r.snapshot.Warehouses()
	sample := warehouses
	if len(sample) > r.sampleSize {
		sample = sample[:r.sampleSize]
	}

	prompt := buildPrompt(r.snapshot.Regions(), r.snapshot.Cities(), sample, history.Render(), query)

	raw, err := r.generator.Generate(ctx, prompt)
	if err != nil {
		r.logger.Error("backend invocation failed", "error", err)
		return Result{
			Status:       StatusError,
			ErrorMessage: fmt.Sprintf("text-generation call failed: %v", err),
		}
	}

	cleaned := CleanResponse(raw)
	result, err := decodeResult(cleaned)
	if err != nil {
		r.logger.Error("failed to parse backend output", "error", err, "raw", truncateForLog(raw))
		return r.parseFailureFallback(query, err)
	}

	r.logger.Info("refined query", "status", result.Status)
	return *result
}

// parseFailureFallback tries fuzzy city matching on the raw query as a last
// resort before giving up; the parse failure is never silently swallowed.
func (r *Refiner) parseFailureFallback(query string, parseErr error) Result {
	matches := r.snapshot.FuzzyCities(query)
	if len(matches) > fallbackSuggestionCap {
		matches = matches[:fallbackSuggestionCap]
	}

	if len(matches) > 0 {
		cities := make([]string, len(matches))
		for i, m := range matches {
			cities[i] = m.Value
		}
		return Result{
			Status:                StatusClarificationNeeded,
			ClarificationQuestion: fmt.Sprintf("Did you mean one of these cities: %s?", strings.Join(cities, ", ")),
		}
	}

	return Result{
		Status:       StatusError,
		ErrorMessage: fmt.Sprintf("failed to parse backend output: %v", parseErr),
	}
}

func truncateForLog(s string) string {
	if len(s) <= 200 {
		return s
	}
	return s[:200]
}
