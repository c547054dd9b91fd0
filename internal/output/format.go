// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"tasker/internal/view"
)

const (
	ActionsAuthenticated = "[logout] [add]"
	ActionsAnonymous     = "[login]"

	Loading = "Loading..."
	NoTasks = "no tasks"

	// ErrorPrefix starts every error line on stderr.
	ErrorPrefix = "error: "

	descIndent = "        "
)

// RenderList writes the task list view: the action line followed by the
// loading text, the fetch error, or the rows. Without a session only the
// login action is shown.
func RenderList(w io.Writer, snap view.Snapshot) {
	if !snap.Authenticated {
		fmt.Fprintln(w, ActionsAnonymous)
		return
	}
	fmt.Fprintln(w, ActionsAuthenticated)

	switch snap.Status {
	case view.StatusLoading:
		fmt.Fprintln(w, Loading)
	case view.StatusError:
		fmt.Fprintln(w, snap.Err)
	case view.StatusReady:
		if len(snap.Rows) == 0 {
			fmt.Fprintln(w, NoTasks)
			return
		}
		for i, row := range snap.Rows {
			FormatTask(w, i+1, row)
		}
	}
}

// FormatTask formats a task row.
// Format: "{N:>4}  [x] {TITLE}\n", then the description on its own line
// indented by eight spaces.
func FormatTask(w io.Writer, num int, row view.Row) {
	mark := "[ ]"
	if row.MarkedAsDone {
		mark = "[x]"
	}
	fmt.Fprintf(w, "%4d  %s %s\n", num, mark, normalizeTitle(row.Title))
	if desc := strings.TrimSpace(row.Desc); desc != "" {
		for _, line := range strings.Split(desc, "\n") {
			fmt.Fprintln(w, descIndent+strings.TrimRight(line, "\r"))
		}
	}
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}

// Notifier prints notifications: successes to out, errors to errOut.
type Notifier struct {
	out    io.Writer
	errOut io.Writer
	quiet  bool
}

// NewNotifier creates a Notifier. With quiet set, successes are dropped.
func NewNotifier(out, errOut io.Writer, quiet bool) *Notifier {
	return &Notifier{out: out, errOut: errOut, quiet: quiet}
}

// Notify implements view.Notifier.
func (n *Notifier) Notify(note view.Notification) {
	if note.Level == view.LevelError {
		fmt.Fprintln(n.errOut, ErrorPrefix+note.Message)
		return
	}
	if !n.quiet {
		fmt.Fprintln(n.out, note.Message)
	}
}
