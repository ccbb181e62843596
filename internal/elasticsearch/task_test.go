package elasticsearch

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanLimbu/easy-tasks/internal"
)

func TestNewSearchQuery(t *testing.T) {
	t.Parallel()

	title := "rebar"
	priority := internal.PriorityHigh

	query := newSearchQuery(internal.SearchParams{
		OrganizationID: "acme",
		Title:          &title,
		Priority:       &priority,
		From:           10,
		Size:           5,
	})

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(query))

	body := buf.String()
	assert.Contains(t, body, `"organization_id.keyword":"acme"`)
	assert.Contains(t, body, `"title":"rebar"`)
	assert.Contains(t, body, `"priority":"high"`)
	assert.NotContains(t, body, `"status"`)
	assert.Contains(t, body, `"from":10`)
	assert.Contains(t, body, `"size":5`)
}

func TestIndexedTask(t *testing.T) {
	t.Parallel()

	task := internal.Task{
		ID:             "t1",
		OrganizationID: "acme",
		Title:          "pour slab",
		Status:         internal.TaskStatusPending,
		Priority:       internal.PriorityMedium,
		CreatedAt:      time.Date(2024, 3, 13, 10, 0, 0, 0, time.UTC),
	}

	got := newIndexedTask(task)
	assert.Zero(t, got.DateDue)
	assert.Equal(t, task, got.task())
}

func TestDecodeSearchResults(t *testing.T) {
	t.Parallel()

	body := `{"hits":{"total":{"value":2},"hits":[
		{"_source":{"id":"t1","organization_id":"acme","title":"pour slab","status":"pending","priority":"high","date_due":0}},
		{"_source":{"id":"t2","organization_id":"acme","title":"order rebar","status":"completed","priority":"none","date_due":1710288000000000000}}
	]}}`

	res, err := decodeSearchResults(strings.NewReader(body))
	require.NoError(t, err)

	assert.EqualValues(t, 2, res.Total)
	require.Len(t, res.Tasks, 2)
	assert.Equal(t, internal.PriorityHigh, res.Tasks[0].Priority)
	assert.False(t, res.Tasks[0].HasDueDate())
	assert.Equal(t, time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC), res.Tasks[1].DueDate)
	assert.Equal(t, internal.TaskStatusCompleted, res.Tasks[1].Status)

	_, err = decodeSearchResults(strings.NewReader(`{"hits":`))
	assert.Error(t, err)
}
