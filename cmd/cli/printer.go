package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/sanLimbu/easy-tasks/internal"
)

const dateLayout = "2006-01-02"

var (
	bold  = color.New(color.Bold)
	title = color.New(color.Bold, color.Underline)
	faint = color.New(color.Faint, color.Italic)
)

func priorityColor(p internal.Priority) *color.Color {
	switch p {
	case internal.PriorityHigh:
		return color.New(color.FgHiRed)
	case internal.PriorityMedium:
		return color.New(color.FgHiYellow)
	case internal.PriorityLow:
		return color.New(color.FgHiBlue)
	}

	return color.New(color.Faint)
}

func formatDue(t internal.Task) string {
	if !t.HasDueDate() {
		return "-"
	}

	return t.DueDate.Format(dateLayout)
}

func printTasks(w io.Writer, tasks []internal.Task) {
	if len(tasks) == 0 {
		_, _ = faint.Fprintln(w, " none")
		return
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60

	tbl.AddRow(bold.Sprint("ID"), bold.Sprint("Title"), bold.Sprint("Status"), bold.Sprint("Priority"), bold.Sprint("Due"))

	for _, t := range tasks {
		tbl.AddRow(t.ID, t.Title, string(t.Status), priorityColor(t.Priority).Sprint(t.Priority.String()), formatDue(t))
	}

	_, _ = fmt.Fprintln(w, tbl)
}

func printBuckets(w io.Writer, buckets []internal.Bucket) {
	if len(buckets) == 0 {
		_, _ = faint.Fprintln(w, " none")
		return
	}

	tbl := uitable.New()
	tbl.Separator = "  "

	tbl.AddRow(bold.Sprint("ID"), bold.Sprint("Name"), bold.Sprint("Kind"), bold.Sprint("Order"), bold.Sprint("Archived"))

	for _, b := range buckets {
		archived := ""
		if b.Archived {
			archived = b.ArchivedAt.Format(dateLayout)
		}

		tbl.AddRow(b.ID, b.Name, b.Kind.String(), b.Order, archived)
	}

	_, _ = fmt.Fprintln(w, tbl)
}

func printTitle(w io.Writer, s string, count int) {
	_, _ = title.Fprint(w, s)
	_, _ = faint.Fprintf(w, " - %d\n", count)
}
