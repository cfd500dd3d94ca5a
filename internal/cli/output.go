package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
)

var (
	headColor  = color.New(color.FgCyan, color.Bold)
	labelColor = color.New(color.FgHiBlack)
	warnColor  = color.New(color.FgYellow)
)

// printer renders either json or aligned tables
type printer struct {
	w    io.Writer
	json bool
}

// JSON writes v indented; used for every command under --json
func (p *printer) JSON(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Title prints a colored section heading
func (p *printer) Title(format string, a ...any) {
	fmt.Fprintln(p.w, headColor.Sprintf(format, a...))
}

// KV prints one aligned label and value
func (p *printer) KV(label string, value any) {
	fmt.Fprintf(p.w, "  %s %v\n", labelColor.Sprintf("%-18s", label+":"), value)
}

// Warn prints a yellow note
func (p *printer) Warn(format string, a ...any) {
	fmt.Fprintln(p.w, warnColor.Sprintf(format, a...))
}

// Table prints rows under a header with tab alignment
func (p *printer) Table(header []string, rows [][]string) error {
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  "+headColor.Sprint(strings.Join(header, "\t")))
	for _, r := range rows {
		fmt.Fprintln(tw, "  "+strings.Join(r, "\t"))
	}
	return tw.Flush()
}

// Blank prints an empty line
func (p *printer) Blank() { fmt.Fprintln(p.w) }

func fmtFloat(v float64) string { return fmt.Sprintf("%g", v) }

func fmtOptFloat(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmtFloat(*v)
}

// bar renders a proportional histogram bar
func bar(n, maxN, width int) string {
	if maxN <= 0 || n <= 0 {
		return ""
	}
	w := n * width / maxN
	if w == 0 {
		w = 1
	}
	return strings.Repeat("#", w)
}
