package rest

import (
	"net/http"
	"strconv"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/ghodss/yaml"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// NewOpenAPI3 instantiates the OpenAPI 3 document describing the REST API.
func NewOpenAPI3() openapi3.T {
	swagger := openapi3.T{
		OpenAPI: "3.0.0",
		Info: &openapi3.Info{
			Title:       "Easy Tasks API",
			Description: "REST APIs used for organizing site tasks into buckets",
			Version:     "0.0.1",
			License: &openapi3.License{
				Name: "MIT",
				URL:  "https://opensource.org/licenses/MIT",
			},
		},
		Servers: openapi3.Servers{
			&openapi3.Server{
				Description: "Local development",
				URL:         "http://127.0.0.1:9234",
			},
		},
	}

	taskSchema := openapi3.NewObjectSchema().
		WithProperty("id", openapi3.NewStringSchema()).
		WithProperty("title", openapi3.NewStringSchema()).
		WithProperty("description", openapi3.NewStringSchema()).
		WithProperty("status", statusSchema()).
		WithProperty("priority", prioritySchema()).
		WithProperty("due_date", openapi3.NewDateTimeSchema()).
		WithProperty("created_at", openapi3.NewDateTimeSchema()).
		WithProperty("updated_at", openapi3.NewDateTimeSchema())

	bucketSchema := openapi3.NewObjectSchema().
		WithProperty("id", openapi3.NewStringSchema()).
		WithProperty("name", openapi3.NewStringSchema()).
		WithProperty("kind", openapi3.NewStringSchema().WithEnum("today", "tomorrow", "this-week", "custom")).
		WithProperty("color", openapi3.NewStringSchema()).
		WithProperty("order", openapi3.NewIntegerSchema()).
		WithProperty("archived", openapi3.NewBoolSchema()).
		WithProperty("archived_at", openapi3.NewDateTimeSchema()).
		WithProperty("created_at", openapi3.NewDateTimeSchema())

	assignmentSchema := openapi3.NewObjectSchema().
		WithProperty("task_id", openapi3.NewStringSchema()).
		WithProperty("bucket_id", openapi3.NewStringSchema()).
		WithProperty("assigned_at", openapi3.NewDateTimeSchema()).
		WithProperty("moved_from", openapi3.NewStringSchema())

	tasksSchema := openapi3.NewObjectSchema().
		WithProperty("tasks", openapi3.NewArraySchema().WithItems(taskSchema))

	bucketsSchema := openapi3.NewObjectSchema().
		WithProperty("buckets", openapi3.NewArraySchema().WithItems(bucketSchema))

	oneTask := openapi3.NewObjectSchema().WithProperty("task", taskSchema)
	oneBucket := openapi3.NewObjectSchema().WithProperty("bucket", bucketSchema)

	errorSchema := openapi3.NewObjectSchema().
		WithProperty("error", openapi3.NewStringSchema()).
		WithProperty("validations", openapi3.NewObjectSchema())

	org := pathParam("organizationID")
	id := pathParam("id")
	taskID := pathParam("taskID")

	swagger.Paths = openapi3.Paths{
		"/organizations/{organizationID}/tasks": &openapi3.PathItem{
			Get: operation("ListTasks", "List all tasks", nil,
				responses(http.StatusOK, "Tasks", tasksSchema, errorSchema), org),
			Post: operation("CreateTask", "Create a task",
				requestBody(openapi3.NewObjectSchema().
					WithProperty("title", openapi3.NewStringSchema().WithMinLength(1)).
					WithProperty("description", openapi3.NewStringSchema()).
					WithProperty("priority", prioritySchema()).
					WithProperty("due_date", openapi3.NewDateTimeSchema())),
				responses(http.StatusCreated, "Task created", oneTask, errorSchema), org),
		},
		"/organizations/{organizationID}/tasks/search": &openapi3.PathItem{
			Post: operation("SearchTasks", "Search tasks",
				requestBody(openapi3.NewObjectSchema().
					WithProperty("title", openapi3.NewStringSchema()).
					WithProperty("priority", prioritySchema()).
					WithProperty("status", statusSchema()).
					WithProperty("from", openapi3.NewInt64Schema()).
					WithProperty("size", openapi3.NewInt64Schema())),
				responses(http.StatusOK, "Tasks found", openapi3.NewObjectSchema().
					WithProperty("tasks", openapi3.NewArraySchema().WithItems(taskSchema)).
					WithProperty("total", openapi3.NewInt64Schema()), errorSchema), org),
		},
		"/organizations/{organizationID}/tasks/{id}": &openapi3.PathItem{
			Get: operation("ReadTask", "Read a task", nil,
				responses(http.StatusOK, "Task", oneTask, errorSchema), org, id),
			Put: operation("UpdateTask", "Update a task",
				requestBody(openapi3.NewObjectSchema().
					WithProperty("title", openapi3.NewStringSchema().WithMinLength(1)).
					WithProperty("description", openapi3.NewStringSchema()).
					WithProperty("status", statusSchema()).
					WithProperty("priority", prioritySchema()).
					WithProperty("due_date", openapi3.NewDateTimeSchema())),
				responses(http.StatusOK, "Task updated", oneTask, errorSchema), org, id),
			Delete: operation("DeleteTask", "Delete a task", nil,
				responses(http.StatusOK, "Task deleted", openapi3.NewObjectSchema(), errorSchema), org, id),
		},
		"/organizations/{organizationID}/buckets": &openapi3.PathItem{
			Get: operation("ListBuckets", "List buckets, archived ones only when archived=true", nil,
				responses(http.StatusOK, "Buckets", bucketsSchema, errorSchema), org,
				&openapi3.ParameterRef{Value: openapi3.NewQueryParameter("archived").WithSchema(openapi3.NewBoolSchema())}),
			Post: operation("CreateBucket", "Create a custom bucket",
				requestBody(openapi3.NewObjectSchema().
					WithProperty("name", openapi3.NewStringSchema().WithMinLength(1).WithMaxLength(64))),
				responses(http.StatusCreated, "Bucket created", oneBucket, errorSchema), org),
		},
		"/organizations/{organizationID}/buckets/defaults": &openapi3.PathItem{
			Post: operation("SeedBuckets", "Create the Today, Tomorrow and This Week buckets when missing", nil,
				responses(http.StatusOK, "Buckets", bucketsSchema, errorSchema), org),
		},
		"/organizations/{organizationID}/buckets/{id}": &openapi3.PathItem{
			Get: operation("ReadBucket", "Read a bucket", nil,
				responses(http.StatusOK, "Bucket", oneBucket, errorSchema), org, id),
			Delete: operation("DeleteBucket", "Delete an archived bucket", nil,
				responses(http.StatusOK, "Bucket deleted", openapi3.NewObjectSchema(), errorSchema), org, id),
		},
		"/organizations/{organizationID}/buckets/{id}/archive": &openapi3.PathItem{
			Post: operation("ArchiveBucket", "Archive a custom bucket", nil,
				responses(http.StatusOK, "Bucket archived", oneBucket, errorSchema), org, id),
		},
		"/organizations/{organizationID}/buckets/{id}/restore": &openapi3.PathItem{
			Post: operation("RestoreBucket", "Restore an archived bucket", nil,
				responses(http.StatusOK, "Bucket restored", oneBucket, errorSchema), org, id),
		},
		"/organizations/{organizationID}/buckets/{id}/tasks": &openapi3.PathItem{
			Get: operation("BucketTasks", "Tasks currently shown in the bucket", nil,
				responses(http.StatusOK, "Tasks", tasksSchema, errorSchema), org, id),
		},
		"/organizations/{organizationID}/buckets/{id}/tasks/{taskID}": &openapi3.PathItem{
			Put: operation("AssignTask", "Pin a task into the bucket", nil,
				responses(http.StatusOK, "Task assigned", openapi3.NewObjectSchema().WithProperty("assignment", assignmentSchema), errorSchema), org, id, taskID),
		},
		"/organizations/{organizationID}/assignments/{taskID}": &openapi3.PathItem{
			Delete: operation("UnassignTask", "Drop the manual assignment of a task", nil,
				responses(http.StatusOK, "Task unassigned", openapi3.NewObjectSchema(), errorSchema), org, taskID),
		},
		"/organizations/{organizationID}/board": &openapi3.PathItem{
			Get: operation("Board", "Every active bucket with its tasks", nil,
				responses(http.StatusOK, "Board", openapi3.NewObjectSchema().
					WithProperty("columns", openapi3.NewArraySchema().WithItems(openapi3.NewObjectSchema().
						WithProperty("bucket", bucketSchema).
						WithProperty("tasks", openapi3.NewArraySchema().WithItems(taskSchema)))).
					WithProperty("summary", openapi3.NewObjectSchema().
						WithProperty("total", openapi3.NewIntegerSchema()).
						WithProperty("pending", openapi3.NewIntegerSchema()).
						WithProperty("in_progress", openapi3.NewIntegerSchema()).
						WithProperty("completed", openapi3.NewIntegerSchema()).
						WithProperty("cancelled", openapi3.NewIntegerSchema()).
						WithProperty("overdue", openapi3.NewIntegerSchema())), errorSchema), org),
		},
		"/organizations/{organizationID}/rollover": &openapi3.PathItem{
			Post: operation("Rollover", "Move overdue tasks into Today", nil,
				responses(http.StatusOK, "Changed assignments", openapi3.NewObjectSchema().
					WithProperty("changed", openapi3.NewArraySchema().WithItems(assignmentSchema)), errorSchema), org),
		},
	}

	return swagger
}

// RegisterOpenAPI serves the OpenAPI 3 document as JSON and YAML.
func RegisterOpenAPI(r chi.Router) {
	swagger := NewOpenAPI3()

	r.Get("/openapi3.json", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, &swagger)
	})

	r.Get("/openapi3.yaml", func(w http.ResponseWriter, r *http.Request) {
		data, err := yaml.Marshal(&swagger)
		if err != nil {
			renderErrorResponse(w, r, "marshal failed", err)
			return
		}

		w.Header().Set("Content-Type", "application/x-yaml")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	})
}

func prioritySchema() *openapi3.Schema {
	return openapi3.NewStringSchema().WithEnum("none", "low", "medium", "high")
}

func statusSchema() *openapi3.Schema {
	return openapi3.NewStringSchema().WithEnum("pending", "in-progress", "completed", "cancelled")
}

func pathParam(name string) *openapi3.ParameterRef {
	return &openapi3.ParameterRef{
		Value: openapi3.NewPathParameter(name).WithSchema(openapi3.NewStringSchema()),
	}
}

func requestBody(schema *openapi3.Schema) *openapi3.RequestBodyRef {
	return &openapi3.RequestBodyRef{
		Value: openapi3.NewRequestBody().
			WithRequired(true).
			WithJSONSchema(schema),
	}
}

func responses(status int, description string, schema, errorSchema *openapi3.Schema) openapi3.Responses {
	return openapi3.Responses{
		strconv.Itoa(status): &openapi3.ResponseRef{
			Value: openapi3.NewResponse().WithDescription(description).WithJSONSchema(schema),
		},
		"400": &openapi3.ResponseRef{
			Value: openapi3.NewResponse().WithDescription("Bad Request").WithJSONSchema(errorSchema),
		},
		"404": &openapi3.ResponseRef{
			Value: openapi3.NewResponse().WithDescription("Not Found").WithJSONSchema(errorSchema),
		},
		"409": &openapi3.ResponseRef{
			Value: openapi3.NewResponse().WithDescription("Conflict").WithJSONSchema(errorSchema),
		},
		"500": &openapi3.ResponseRef{
			Value: openapi3.NewResponse().WithDescription("Internal Server Error").WithJSONSchema(errorSchema),
		},
	}
}

func operation(id, summary string, body *openapi3.RequestBodyRef, res openapi3.Responses, params ...*openapi3.ParameterRef) *openapi3.Operation {
	return &openapi3.Operation{
		OperationID: id,
		Summary:     summary,
		Parameters:  openapi3.Parameters(params),
		RequestBody: body,
		Responses:   res,
	}
}
