package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/andyballingall/swift-format-plugin/internal/diag"
)

// JSONReporter implements Reporter for JSON output.
type JSONReporter struct{}

type jsonInvocation struct {
	Name       string   `json:"name"`
	Subject    string   `json:"subject"`
	Executable string   `json:"executable"`
	Args       []string `json:"args"`
	ExitCode   int      `json:"exitCode"`
	Signaled   bool     `json:"signaled,omitempty"`
	Duration   string   `json:"duration"`
	DryRun     bool     `json:"dryRun,omitempty"`
	Success    bool     `json:"success"`
}

type jsonOutput struct {
	Mode          string `json:"mode"`
	Configuration struct {
		Path   string `json:"path"`
		Source string `json:"source"`
	} `json:"configuration"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Duration  string `json:"duration"`
	Stats     struct {
		TotalSucceeded int `json:"totalSucceeded"`
		TotalFailed    int `json:"totalFailed"`
	} `json:"stats"`
	Invocations []jsonInvocation `json:"invocations"`
	Diagnostics []diag.Entry     `json:"diagnostics"`
}

func (jr *JSONReporter) Write(w io.Writer, r *RunReport) error {
	out := jsonOutput{
		Mode:        string(r.Mode),
		StartTime:   r.StartTime.Format(time.RFC3339),
		EndTime:     r.EndTime.Format(time.RFC3339),
		Duration:    r.EndTime.Sub(r.StartTime).String(),
		Invocations: make([]jsonInvocation, 0, len(r.Results)),
		Diagnostics: r.Diagnostics,
	}
	out.Configuration.Path = r.ConfigPath
	out.Configuration.Source = r.ConfigSource
	if out.Diagnostics == nil {
		out.Diagnostics = []diag.Entry{}
	}

	for _, res := range r.Results {
		inv := res.Invocation
		out.Invocations = append(out.Invocations, jsonInvocation{
			Name:       inv.DisplayName(),
			Subject:    inv.Subject.String(),
			Executable: inv.Executable,
			Args:       inv.Args,
			ExitCode:   res.ExitCode,
			Signaled:   res.Signaled,
			Duration:   res.Duration.String(),
			DryRun:     res.DryRun,
			Success:    res.Success(),
		})
		if res.Success() {
			out.Stats.TotalSucceeded++
		} else {
			out.Stats.TotalFailed++
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
