package app

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/maruel/natural"
	"github.com/pterm/pterm"

	"github.com/raminsharifi/time-logging/internal/models"
	"github.com/raminsharifi/time-logging/internal/timeutil"
	"github.com/raminsharifi/time-logging/internal/ui"
	"github.com/raminsharifi/time-logging/timer"
	"github.com/raminsharifi/time-logging/todo"
)

const (
	noTimersMsg  = "No active timers"
	noEntriesMsg = "No log entries found for the specified time range"
	noTodosMsg   = "No todos yet. Add one with `tl todo add <text>`"
)

const dateFormat = "Jan 02, 2006"

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}

func todoRef(id *int64) string {
	if id == nil {
		return ""
	}

	return "#" + strconv.FormatInt(*id, 10)
}

// printStatus prints every active timer. The running timer is listed first.
func printStatus(
	w io.Writer,
	statuses []timer.TimerStatus,
	now time.Time,
	timeFormat string,
) {
	if len(statuses) == 0 {
		fmt.Fprintln(w, pterm.Info.Sprint(noTimersMsg))
		return
	}

	sorted := make([]timer.TimerStatus, len(statuses))
	copy(sorted, statuses)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timer.IsRunning() && !sorted[j].Timer.IsRunning()
	})

	for _, st := range sorted {
		t := st.Timer

		state := ui.Yellow(string(t.State))
		if t.IsRunning() {
			state = ui.Green(string(t.State))
		}

		started := time.Unix(t.StartedAt, 0)

		fmt.Fprintf(
			w,
			"#%d %s [%s] %s\n",
			t.ID,
			ui.Highlight(t.Name),
			ui.Cyan(t.Category),
			state,
		)

		fmt.Fprintf(
			w,
			"   started %s (%s)\n",
			started.Format(timeFormat),
			humanize.RelTime(started, now, "ago", "from now"),
		)

		fmt.Fprintf(
			w,
			"   active %s, breaks %s\n",
			timeutil.FormatSeconds(st.ActiveSecs),
			timeutil.FormatSeconds(st.BreakSecs),
		)

		switch {
		case st.Todo != nil:
			fmt.Fprintf(w, "   todo #%d: %s\n", st.Todo.ID, st.Todo.Text)
		case t.TodoID != nil:
			fmt.Fprintf(w, "   todo %s\n", todoRef(t.TodoID))
		}
	}
}

// printLog prints the log entries as a table followed by the total active time
// per category.
func printLog(w io.Writer, lines []timer.LogLine, timeFormat string) {
	if len(lines) == 0 {
		fmt.Fprintln(w, pterm.Info.Sprint(noEntriesMsg))
		return
	}

	layout := "Jan 02 " + timeFormat

	header := []string{"#", "NAME", "CATEGORY", "START", "END", "ACTIVE", "BREAKS", "TODO"}

	rows := make([][]string, 0, len(lines)+1)

	var totalActive, totalBreaks int64

	perCategory := make(map[string]int64)

	for _, l := range lines {
		e := l.Entry

		rows = append(rows, []string{
			strconv.FormatInt(e.ID, 10),
			e.Name,
			e.Category,
			time.Unix(e.StartedAt, 0).Format(layout),
			time.Unix(e.EndedAt, 0).Format(layout),
			timeutil.FormatSeconds(e.ActiveSecs),
			timeutil.FormatSeconds(l.BreakSecs),
			todoRef(e.TodoID),
		})

		totalActive += e.ActiveSecs
		totalBreaks += l.BreakSecs
		perCategory[e.Category] += e.ActiveSecs
	}

	rows = append(rows, []string{
		"",
		ui.Highlight("TOTAL"),
		"",
		"",
		"",
		timeutil.FormatSeconds(totalActive),
		timeutil.FormatSeconds(totalBreaks),
	})

	ui.PrintTable(w, header, rows)

	categories := make([]string, 0, len(perCategory))
	for c := range perCategory {
		categories = append(categories, c)
	}

	sort.Sort(natural.StringSlice(categories))

	fmt.Fprintln(w, ui.Yellow("By category"))

	for _, c := range categories {
		fmt.Fprintf(
			w,
			"   %s: %s\n",
			c,
			timeutil.FormatSeconds(perCategory[c]),
		)
	}
}

func todoBox(t *models.Todo) string {
	if t.Done {
		return ui.Green("[x]")
	}

	return "[ ]"
}

// printTodos prints each todo with the time tracked against it.
func printTodos(w io.Writer, items []todo.Item) {
	if len(items) == 0 {
		fmt.Fprintln(w, pterm.Info.Sprint(noTodosMsg))
		return
	}

	header := []string{"", "#", "TODO", "CREATED", "TRACKED"}

	rows := make([][]string, 0, len(items))

	var done int

	for _, it := range items {
		if it.Done {
			done++
		}

		tracked := timeutil.FormatSeconds(it.TotalSecs())
		if it.LiveSecs > 0 {
			tracked += " " + ui.Magenta("(live)")
		}

		rows = append(rows, []string{
			todoBox(it.Todo),
			strconv.FormatInt(it.ID, 10),
			it.Text,
			time.Unix(it.CreatedAt, 0).Format(dateFormat),
			tracked,
		})
	}

	ui.PrintTable(w, header, rows)

	fmt.Fprintf(w, "%d/%d completed\n", done, len(items))
}
