package diagnostics

import (
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
)

// AutoColor reports whether f looks like a terminal, the same
// isatty-gated decision the teacher's CLI makes before emitting ANSI color
// codes (SPEC_FULL.md §4.10).
func AutoColor(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// RenderWithSource formats diags with a caret pointing at each location in
// source, one block per diagnostic, following the teacher's
// CompilerError.FormatWithContext layout
// (_examples/CWBudde-go-dws/internal/errors/errors.go).
func RenderWithSource(diags []Diagnostic, source string, color bool) string {
	if len(diags) == 0 {
		return ""
	}
	lines := strings.Split(source, "\n")
	var sb strings.Builder
	for i, d := range diags {
		sb.WriteString(d.Pos.String())
		sb.WriteString(": ")
		sb.WriteString(d.Severity.String())
		sb.WriteString(": ")
		sb.WriteString(d.Message)
		sb.WriteString("\n")

		if d.Pos.IsValid() && d.Pos.Line >= 1 && d.Pos.Line <= len(lines) {
			lineText := lines[d.Pos.Line-1]
			prefix := fmt.Sprintf("%4d | ", d.Pos.Line)
			sb.WriteString(prefix)
			sb.WriteString(lineText)
			sb.WriteString("\n")
			sb.WriteString(strings.Repeat(" ", len(prefix)+d.Pos.Column-1))
			if color {
				sb.WriteString("\033[1;31m")
			}
			sb.WriteString("^")
			if color {
				sb.WriteString("\033[0m")
			}
			sb.WriteString("\n")
		}
		if i < len(diags)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// Summary renders the humanized one-line count the CLI prints after a
// `tinderc check` run (SPEC_FULL.md §4.10), e.g. "3 diagnostics (1 error,
// 2 warnings)".
func Summary(diags []Diagnostic) string {
	if len(diags) == 0 {
		return "no diagnostics"
	}
	var errs, warns int
	for _, d := range diags {
		if d.Severity == Error {
			errs++
		} else {
			warns++
		}
	}
	return fmt.Sprintf("%s diagnostic%s (%s error%s, %s warning%s)",
		humanize.Comma(int64(len(diags))), plural(len(diags)),
		humanize.Comma(int64(errs)), plural(errs),
		humanize.Comma(int64(warns)), plural(warns))
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
