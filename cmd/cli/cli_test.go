package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()

	color.NoColor = true

	var out bytes.Buffer

	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--path", dir, "--organization", "site-a"}, args...))

	err := cmd.Execute()

	return out.String(), err
}

func mustExecute(t *testing.T, dir string, args ...string) string {
	t.Helper()

	out, err := execute(t, dir, args...)
	require.NoError(t, err, out)

	return out
}

func TestCLI_Buckets(t *testing.T) {
	dir := t.TempDir()

	out := mustExecute(t, dir, "buckets", "list")
	assert.Contains(t, out, "Today")
	assert.Contains(t, out, "Tomorrow")
	assert.Contains(t, out, "This Week")

	siteB := strings.TrimSpace(mustExecute(t, dir, "buckets", "add", "Site", "B"))
	require.NotEmpty(t, siteB)

	task := strings.TrimSpace(mustExecute(t, dir, "tasks", "add", "Order rebar", "--due", "2030-01-01"))
	require.NotEmpty(t, task)

	mustExecute(t, dir, "assign", task, siteB)

	out = mustExecute(t, dir, "buckets", "show", siteB)
	assert.Contains(t, out, "Site B")
	assert.Contains(t, out, "Order rebar")

	_, err := execute(t, dir, "buckets", "delete", siteB)
	assert.Error(t, err)

	mustExecute(t, dir, "buckets", "archive", siteB)

	out = mustExecute(t, dir, "buckets", "list")
	assert.NotContains(t, out, "Site B")

	out = mustExecute(t, dir, "buckets", "list", "--archived")
	assert.Contains(t, out, "Site B")

	mustExecute(t, dir, "buckets", "delete", siteB)

	_, err = execute(t, dir, "buckets", "show", siteB)
	assert.Error(t, err)
}

func TestCLI_BoardAndRollover(t *testing.T) {
	dir := t.TempDir()

	mustExecute(t, dir, "tasks", "add", "Pour slab", "--due", "today", "--priority", "high")

	overdue := time.Now().AddDate(0, 0, -10).Format("2006-01-02")
	late := strings.TrimSpace(mustExecute(t, dir, "tasks", "add", "Inspect formwork", "--due", overdue))

	out := mustExecute(t, dir, "board")
	assert.Contains(t, out, "Pour slab")
	assert.NotContains(t, out, "Inspect formwork")
	assert.Contains(t, out, "1 overdue")

	assert.Contains(t, mustExecute(t, dir, "rollover"), "1 tasks rolled over")
	assert.Contains(t, mustExecute(t, dir, "rollover"), "0 tasks rolled over")

	out = mustExecute(t, dir, "board")
	assert.Contains(t, out, "Inspect formwork")

	mustExecute(t, dir, "tasks", "complete", late)

	out = mustExecute(t, dir, "board")
	assert.NotContains(t, out, "Inspect formwork")

	out = mustExecute(t, dir, "tasks", "list")
	assert.Contains(t, out, "Inspect formwork")
	assert.Contains(t, out, "completed")

	out = mustExecute(t, dir, "tasks", "search", "slab")
	assert.Contains(t, out, "Pour slab")
	assert.NotContains(t, out, "Inspect formwork")
}

func TestCLI_InvalidInput(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, dir, "tasks", "add", "x", "--priority", "urgent")
	assert.Error(t, err)

	_, err = execute(t, dir, "tasks", "add", "x", "--due", "next week")
	assert.Error(t, err)

	_, err = execute(t, dir, "tasks", "complete", "missing")
	assert.Error(t, err)
}
