// Package backup exports tasks to a JSON document and imports them back.
package backup

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/taskflow/internal/todo"
	"github.com/nibzard/taskflow/internal/utils"
)

// SchemaVersion is the version written by Export.
const SchemaVersion = 1

const schemaURL = "taskflow-export.schema.json"

//go:embed schema.json
var schemaJSON string

// Document is the on-disk export format.
type Document struct {
	SchemaVersion int         `json:"schema_version"`
	ExportedAt    time.Time   `json:"exported_at"`
	Tasks         []todo.Task `json:"tasks"`
}

// ValidationError is a problem at a location in an import document.
type ValidationError struct {
	Path string // dot path such as tasks[0].text
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Export writes tasks as an indented JSON document stamped with the
// current time.
func Export(w io.Writer, tasks []todo.Task) error {
	return Encode(w, NewDocument(tasks, time.Now()))
}

// NewDocument wraps tasks in a Document exported at now.
func NewDocument(tasks []todo.Task, now time.Time) Document {
	if tasks == nil {
		tasks = []todo.Task{}
	}
	return Document{
		SchemaVersion: SchemaVersion,
		ExportedAt:    now.UTC(),
		Tasks:         tasks,
	}
}

// Encode writes doc with two-space indentation and a trailing newline.
func Encode(w io.Writer, doc Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal export: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}

// Decode reads an export document and validates it against the embedded
// schema. Validation failures are returned joined, each a *ValidationError.
func Decode(r io.Reader) (Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Document{}, fmt.Errorf("read import: %w", err)
	}

	var raw interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return Document{}, fmt.Errorf("parse import: %w", err)
	}

	if err := validate(raw); err != nil {
		return Document{}, err
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("decode import: %w", err)
	}
	return doc, nil
}

// Apply upserts each task of doc through gw. Tasks with blank text are
// skipped. It stops at the first persistence error.
func Apply(ctx context.Context, gw todo.Gateway, doc Document) (imported, skipped int, err error) {
	for _, task := range doc.Tasks {
		task.Text = strings.TrimSpace(task.Text)
		if task.Text == "" {
			skipped++
			continue
		}
		if err := gw.Update(ctx, task); err != nil {
			return imported, skipped, fmt.Errorf("import task %d: %w", task.ID, err)
		}
		imported++
	}
	return imported, skipped, nil
}

func compileSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource(schemaURL, strings.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("load export schema: %w", err)
	}
	return compiler.Compile(schemaURL)
}

func validate(doc interface{}) error {
	schema, err := compileSchema()
	if err != nil {
		return err
	}
	err = schema.Validate(doc)
	if err == nil {
		return nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	var found []*ValidationError
	collectSchemaErrors(&found, ve)
	sort.SliceStable(found, func(i, j int) bool {
		return found[i].Path < found[j].Path
	})

	errs := make([]error, len(found))
	for i, e := range found {
		errs[i] = e
	}
	return errors.Join(errs...)
}

func collectSchemaErrors(found *[]*ValidationError, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}
	if len(err.Causes) == 0 {
		*found = append(*found, &ValidationError{
			Path: utils.JSONPointerToPath(err.InstanceLocation),
			Err:  errors.New(err.Message),
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(found, cause)
	}
}
