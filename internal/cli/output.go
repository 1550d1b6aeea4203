package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/nbrumont/fly/internal/config"
	"github.com/nbrumont/fly/internal/input/report"
	"github.com/nbrumont/fly/internal/scenario"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type reportJSON struct {
	Text string `json:"text"`
	Hex  string `json:"hex"`
}

type resultJSON struct {
	Name      string       `json:"name"`
	ElapsedMs float64      `json:"elapsed_ms"`
	Layers    string       `json:"layers"`
	Reports   []reportJSON `json:"reports"`
	Decisions []string     `json:"decisions,omitempty"`
	Output    []string     `json:"output,omitempty"`
}

func hexFrame(f report.Frame) string {
	return fmt.Sprintf("% X", f.Bytes())
}

// writeResult prints a scenario result. Lines the script printed come
// first, marked with "# "; decisions are included when trace is set.
func writeResult(w io.Writer, format string, res *scenario.Result, trace bool) error {
	if format == config.OutputJSON {
		out := resultJSON{
			Name:      res.Name,
			ElapsedMs: float64(res.Elapsed) / float64(time.Millisecond),
			Layers:    res.Layers.String(),
			Reports:   make([]reportJSON, len(res.Frames)),
			Output:    res.Output,
		}
		for i, f := range res.Frames {
			out.Reports[i] = reportJSON{Text: f.String(), Hex: hexFrame(f)}
		}
		if trace {
			for _, r := range res.Resolutions {
				out.Decisions = append(out.Decisions, r.String())
			}
		}
		return printJSON(w, out)
	}

	for _, line := range res.Output {
		if _, err := fmt.Fprintf(w, "# %s\n", line); err != nil {
			return err
		}
	}
	if trace {
		for _, r := range res.Resolutions {
			if _, err := fmt.Fprintf(w, "> %s\n", r); err != nil {
				return err
			}
		}
	}
	for _, f := range res.Frames {
		line := f.String()
		if format == config.OutputHex {
			line = hexFrame(f)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
