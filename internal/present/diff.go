// Package present renders changes for a human to review.
package present

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/pmezard/go-difflib/difflib"
)

// DefaultContextLines is used when Options.ContextLines is not positive.
const DefaultContextLines = 3

// Options controls diff rendering.
type Options struct {
	// ContextLines is the number of unchanged lines kept around each hunk.
	ContextLines int

	// Color wraps removed lines in red and added lines in green.
	Color bool
}

// RenderDiff returns a line diff of old against new. Only hunks are shown,
// each preceded by a "@@ -a,b +c,d @@" header. Removed lines are prefixed
// with "- ", added lines with "+ " and context lines with two spaces.
// Returns an empty string when both texts have the same lines.
func RenderDiff(old, new string, opts Options) string {
	context := opts.ContextLines
	if context <= 0 {
		context = DefaultContextLines
	}

	red := color.New(color.FgRed)
	green := color.New(color.FgGreen)
	if opts.Color {
		red.EnableColor()
		green.EnableColor()
	} else {
		red.DisableColor()
		green.DisableColor()
	}

	a, b := splitLines(old), splitLines(new)
	matcher := difflib.NewMatcher(a, b)

	var out []string
	for _, group := range matcher.GetGroupedOpCodes(context) {
		first, last := group[0], group[len(group)-1]
		out = append(out, fmt.Sprintf("@@ -%s +%s @@",
			formatRange(first.I1, last.I2), formatRange(first.J1, last.J2)))

		for _, op := range group {
			switch op.Tag {
			case 'e':
				for _, line := range a[op.I1:op.I2] {
					out = append(out, "  "+line)
				}
			case 'r', 'd', 'i':
				for _, line := range a[op.I1:op.I2] {
					out = append(out, red.Sprint("- "+line))
				}
				for _, line := range b[op.J1:op.J2] {
					out = append(out, green.Sprint("+ "+line))
				}
			}
		}
	}

	return strings.Join(out, "\n")
}

// formatRange renders a half-open line range as a unified diff range.
func formatRange(start, stop int) string {
	beginning := start + 1
	length := stop - start
	if length == 1 {
		return fmt.Sprintf("%d", beginning)
	}
	if length == 0 {
		beginning--
	}
	return fmt.Sprintf("%d,%d", beginning, length)
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}
