// Package observability provides logging setup, attempt telemetry and the
// formatted CLI output for upload results.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/jobmatch/internal/failure"
	"github.com/jonathan/jobmatch/internal/prompts"
	"github.com/jonathan/jobmatch/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		for _, wrapped := range wrap(line, boxWidth-4) {
			fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, wrapped)
		}
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// wrap splits line on word boundaries into chunks of at most width runes.
func wrap(line string, width int) []string {
	if len([]rune(line)) <= width {
		return []string{line}
	}
	var out []string
	var cur strings.Builder
	for _, word := range strings.Fields(line) {
		if len([]rune(word)) > width {
			word = string([]rune(word)[:width-3]) + "..."
		}
		if cur.Len() > 0 && len([]rune(cur.String()))+1+len([]rune(word)) > width {
			out = append(out, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteString(" ")
		}
		cur.WriteString(word)
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}

// MethodMessage returns the user-facing explanation for a parsing method.
func MethodMessage(method types.ParsingMethod) string {
	key := "result-server-manual"
	switch method {
	case types.ParsingMethodServerAI:
		key = "result-server-ai"
	case types.ParsingMethodServerFallback:
		key = "result-server-fallback"
	case types.ParsingMethodClientAI:
		key = "result-client-ai"
	}
	msg, err := prompts.Get("resume.json", key)
	if err != nil {
		return string(method)
	}
	return msg
}

func writeList(sb *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(sb, "%s:\n", label)
	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		fmt.Fprintf(sb, "  • %s\n", items[i])
	}
	if len(items) > maxItemsToShow {
		fmt.Fprintf(sb, "  ... and %d more\n", len(items)-maxItemsToShow)
	}
}

// PrintProfile outputs a human-readable summary of a parsed resume.
func (p *Printer) PrintProfile(profile types.CanonicalProfile) {
	var sb strings.Builder

	sb.WriteString(MethodMessage(profile.ParsingMethod))
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "Experience: %d years\n", profile.ExperienceYears)
	if profile.Contact.Location != "" {
		fmt.Fprintf(&sb, "Location:   %s\n", profile.Contact.Location)
	}
	sb.WriteString("\n")

	writeList(&sb, "Skills", profile.Skills)
	writeList(&sb, "Job Titles", profile.JobTitles)

	if len(profile.Education) > 0 {
		edu := make([]string, 0, len(profile.Education))
		for _, e := range profile.Education {
			line := strings.TrimSpace(strings.Join(nonEmpty(e.Degree, e.Institution), ", "))
			if e.Year != "" {
				line += " (" + e.Year + ")"
			}
			edu = append(edu, line)
		}
		writeList(&sb, "Education", edu)
	}
	writeList(&sb, "Certifications", profile.Certifications)

	p.printBox("PARSED RESUME ("+string(profile.ParsingMethod)+")", strings.TrimSuffix(sb.String(), "\n"))
}

func nonEmpty(values ...string) []string {
	out := values[:0:0]
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

// PrintMergeSummary outputs what a merge added to the stored profile.
func (p *Printer) PrintMergeSummary(before, after types.ProfileState) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Skills:         %d → %d\n", len(before.Skills), len(after.Skills))
	fmt.Fprintf(&sb, "Job titles:     %d → %d\n", len(before.JobTitles), len(after.JobTitles))
	fmt.Fprintf(&sb, "Education:      %d → %d\n", len(before.Education), len(after.Education))
	fmt.Fprintf(&sb, "Certifications: %d → %d\n", len(before.Certifications), len(after.Certifications))
	fmt.Fprintf(&sb, "Experience:     %d years", after.Experience)
	p.printBox("PROFILE UPDATED", sb.String())
}

// PrintFailure outputs a terminal failure.
func (p *Printer) PrintFailure(err *failure.Error) {
	if err == nil {
		return
	}
	var sb strings.Builder
	sb.WriteString(err.UserMessage())
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "Reason: %s", err.Kind)
	if err.Status != 0 {
		fmt.Fprintf(&sb, " (HTTP %d)", err.Status)
	}
	if err.Retryable {
		sb.WriteString("\nYou can retry by running the upload again.")
	}
	p.printBox("⚠ UPLOAD FAILED", sb.String())
}

// PrintCapability outputs the result of a capability probe.
func (p *Printer) PrintCapability(sdkPresent, modelReady bool, reason string) {
	mark := func(ok bool) string {
		if ok {
			return "✓"
		}
		return "✗"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s model SDK configured\n", mark(sdkPresent))
	fmt.Fprintf(&sb, "%s model ready", mark(modelReady))
	if reason != "" {
		fmt.Fprintf(&sb, "\n\n%s", reason)
	}
	p.printBox("LOCAL AI CAPABILITY", sb.String())
}
