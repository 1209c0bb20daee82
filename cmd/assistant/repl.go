package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/FACorreiaa/warehouse-assistant/internal/domain/conversation"
	"github.com/FACorreiaa/warehouse-assistant/internal/domain/expenses"
	"github.com/FACorreiaa/warehouse-assistant/internal/domain/reference"
	"github.com/FACorreiaa/warehouse-assistant/internal/domain/refiner"
)

const helpText = `
QUERY EXAMPLES:
  - "expenses in NORTH region"
  - "total for Chennai"
  - "warehouse GREATER NOIDA-62"
  - "all warehouses in Bangalore"

WAREHOUSE CODE FORMAT:
  - Format: CITY-NUMBER (e.g. GREATER NOIDA-62)
  - Always use the full code for specific warehouses

SPECIAL COMMANDS:
  - 'help'   show this message
  - 'report' display the reference data report
  - 'quit' or 'exit' leave the assistant

TIPS:
  - I'll ask for clarification if your query is ambiguous
  - Use exact city and region names for best results
`

// suggestionCap bounds how many fuzzy corrections are offered per invalid
// value.
const suggestionCap = 3

// REPL drives the interactive query loop. Input and output are injected so
// the loop is testable without a terminal.
type REPL struct {
	refiner  *refiner.Refiner
	executor *expenses.Service
	snapshot *reference.Snapshot
	in       io.Reader
	out      io.Writer
	logger   *slog.Logger
}

// NewREPL creates the interactive loop.
func NewREPL(r *refiner.Refiner, executor *expenses.Service, snapshot *reference.Snapshot, in io.Reader, out io.Writer, logger *slog.Logger) *REPL {
	return &REPL{
		refiner:  r,
		executor: executor,
		snapshot: snapshot,
		in:       in,
		out:      out,
		logger:   logger,
	}
}

// Run reads queries until exit or end of input. A bad turn never terminates
// the loop.
func (r *REPL) Run(ctx context.Context) error {
	fmt.Fprintln(r.out, "Warehouse Expense Assistant")
	fmt.Fprintln(r.out, "Type 'help' for examples, 'quit' to exit.")

	history := conversation.NewHistory()
	r.logger.Info("session started", "session_id", history.SessionID())

	scanner := bufio.NewScanner(r.in)
	for {
		fmt.Fprint(r.out, "\nUser: ")
		if !scanner.Scan() {
			fmt.Fprintln(r.out, "\nGoodbye!")
			return scanner.Err()
		}

		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}

		switch strings.ToLower(query) {
		case "quit", "exit", "q", "bye":
			fmt.Fprintln(r.out, "Goodbye!")
			return nil
		case "help":
			fmt.Fprint(r.out, helpText)
			continue
		case "report":
			fmt.Fprintln(r.out, r.snapshot.Report())
			continue
		}

		r.handleQuery(ctx, query, history)
	}
}

func (r *REPL) handleQuery(ctx context.Context, query string, history *conversation.History) {
	result := r.refiner.Refine(ctx, query, history)

	switch result.Status {
	case refiner.StatusSuccess:
		r.handleCommand(ctx, query, result.Command, history)

	case refiner.StatusClarificationNeeded:
		fmt.Fprintf(r.out, "\nAssistant: %s\n", result.ClarificationQuestion)
		history.AppendExchange(query, result.ClarificationQuestion)

	case refiner.StatusOutOfScope:
		response := "INFO: This query is out of scope. I can only answer questions about warehouse expenses."
		fmt.Fprintf(r.out, "\n%s\n", response)
		history.AppendExchange(query, response)

	case refiner.StatusError:
		msg := result.ErrorMessage
		if msg == "" {
			msg = "An unknown error occurred."
		}
		fmt.Fprintf(r.out, "\nERROR: %s\n", msg)
		fmt.Fprintln(r.out, "Try exact city or region names, or warehouse codes in CITY-NUMBER format. Type 'help' for examples.")

	default:
		r.logger.Error("unexpected refinement status", "status", result.Status)
		fmt.Fprintf(r.out, "\nERROR: unexpected refinement status %q.\n", result.Status)
	}
}

// handleCommand re-validates refined filter values against the reference
// snapshot before anything touches a database. Invalid values produce
// correction suggestions and are recorded in the history so a follow-up
// turn can resolve them.
func (r *REPL) handleCommand(ctx context.Context, query string, cmd *refiner.Command, history *conversation.History) {
	if cmd == nil {
		fmt.Fprintln(r.out, "\nERROR: refinement succeeded without a command.")
		return
	}

	if invalid := r.invalidValues(cmd); len(invalid) > 0 {
		msg := fmt.Sprintf("Invalid %s values: [%s]", cmd.FilterType, strings.Join(invalid, ", "))
		fmt.Fprintf(r.out, "\n%s\n", msg)
		for _, value := range invalid {
			if suggestions := r.suggestionsFor(cmd.FilterType, value); len(suggestions) > 0 {
				fmt.Fprintf(r.out, "  Did you mean: %s?\n", strings.Join(suggestions, ", "))
			}
		}
		history.AppendExchange(query, msg)
		return
	}

	fmt.Fprintf(r.out, "\nExecuting: %s\n", cmd)
	output := r.executor.Execute(ctx, cmd)
	fmt.Fprintf(r.out, "\n%s\n", output)
	history.AppendExchange(query, output)
}

// invalidValues returns the filter values the snapshot does not know.
// Identifier and address filters are resolved by their tools and skip the
// pre-check.
func (r *REPL) invalidValues(cmd *refiner.Command) []string {
	var invalid []string
	for _, value := range cmd.FilterValues {
		var ok bool
		switch cmd.FilterType {
		case refiner.FilterRegion:
			ok = r.snapshot.ValidateRegion(value)
		case refiner.FilterCity:
			ok = r.snapshot.ValidateCity(value)
		case refiner.FilterWarehouse:
			ok = r.snapshot.ValidateWarehouse(value)
		default:
			ok = true
		}
		if !ok {
			invalid = append(invalid, value)
		}
	}
	return invalid
}

func (r *REPL) suggestionsFor(filterType, value string) []string {
	var candidates []reference.Candidate
	switch filterType {
	case refiner.FilterCity:
		candidates = r.snapshot.FuzzyCities(value)
	case refiner.FilterWarehouse:
		candidates = r.snapshot.FuzzyWarehouses(value)
	default:
		return nil
	}

	if len(candidates) > suggestionCap {
		candidates = candidates[:suggestionCap]
	}
	suggestions := make([]string, 0, len(candidates))
	for _, c := range candidates {
		suggestions = append(suggestions, c.Value)
	}
	return suggestions
}
