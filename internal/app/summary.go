package app

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/vk/taskgrid/internal/executor"
	"github.com/vk/taskgrid/internal/task"
	"github.com/vk/taskgrid/internal/value"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

type summaryEntry struct {
	Task     string          `json:"task"`
	Status   string          `json:"status"`
	Error    string          `json:"error,omitempty"`
	Output   json.RawMessage `json:"output"`
	Duration float64         `json:"duration_seconds"`
}

type summaryDoc struct {
	Workflow    string         `json:"workflow"`
	RunID       string         `json:"run_id"`
	Termination string         `json:"termination"`
	HaltedBy    string         `json:"halted_by,omitempty"`
	Unattempted []string       `json:"unattempted,omitempty"`
	Results     []summaryEntry `json:"results"`
}

func writeSummary(w io.Writer, format, name string, outcome *executor.Outcome) error {
	switch format {
	case SummaryNone:
		return nil
	case SummaryJSON:
		return writeJSONSummary(w, name, outcome)
	default:
		return writeTextSummary(w, name, outcome)
	}
}

func writeTextSummary(w io.Writer, name string, outcome *executor.Outcome) error {
	if _, err := fmt.Fprintf(w, "\n=== Workflow Results: %s ===\n\n", name); err != nil {
		return err
	}
	for _, n := range sortedNames(outcome.Results) {
		res := outcome.Results[n]
		fmt.Fprintf(w, "Task: %s\n", n)
		fmt.Fprintf(w, "Status: %s\n", statusText(res))
		if !res.Success {
			fmt.Fprintf(w, "Error: %s\n", res.Error())
		}
		fmt.Fprintf(w, "Output: %s\n", value.String(res.Output))
		fmt.Fprintf(w, "Execution Time: %.2fs\n\n", res.Duration.Seconds())
	}
	if len(outcome.Unattempted) > 0 {
		fmt.Fprintf(w, "Not run: %v\n", outcome.Unattempted)
	}
	if outcome.Termination == executor.Halted {
		fmt.Fprintf(w, "Run halted by: %s\n", outcome.HaltedBy)
	}
	return nil
}

func writeJSONSummary(w io.Writer, name string, outcome *executor.Outcome) error {
	doc := summaryDoc{
		Workflow:    name,
		RunID:       outcome.RunID,
		Termination: outcome.Termination.String(),
		HaltedBy:    outcome.HaltedBy,
		Unattempted: outcome.Unattempted,
		Results:     []summaryEntry{},
	}
	for _, n := range sortedNames(outcome.Results) {
		res := outcome.Results[n]
		output := res.Output
		if output == cty.NilVal {
			output = cty.EmptyObjectVal
		}
		out, err := ctyjson.Marshal(output, output.Type())
		if err != nil {
			return fmt.Errorf("encoding output of %s: %w", n, err)
		}
		entry := summaryEntry{
			Task:     n,
			Status:   statusText(res),
			Output:   out,
			Duration: res.Duration.Seconds(),
		}
		if !res.Success {
			entry.Error = res.Error()
		}
		doc.Results = append(doc.Results, entry)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func statusText(res task.Result) string {
	if res.Success {
		return "Success"
	}
	return "Failed"
}

func sortedNames(results map[string]task.Result) []string {
	names := make([]string, 0, len(results))
	for n := range results {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
