package backup

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nibzard/taskflow/internal/todo"
)

func sampleTasks() []todo.Task {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return []todo.Task{
		{ID: 3, Text: "Ship release", CreatedAt: base.Add(2 * time.Hour)},
		{ID: 2, Text: "Write changelog", Completed: true, CreatedAt: base.Add(time.Hour)},
		{ID: 1, Text: "Tag commit", CreatedAt: base},
	}
}

func TestEncodeFormat(t *testing.T) {
	var buf bytes.Buffer
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	if err := Encode(&buf, NewDocument(sampleTasks()[:1], now)); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	want := `{
  "schema_version": 1,
  "exported_at": "2026-03-02T10:00:00Z",
  "tasks": [
    {
      "id": 3,
      "text": "Ship release",
      "completed": false,
      "created_at": "2026-03-01T11:00:00Z"
    }
  ]
}
`
	if buf.String() != want {
		t.Errorf("Encode output mismatch:\ngot:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestExportDecodeRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := Export(&buf, sampleTasks()); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	doc, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if doc.SchemaVersion != SchemaVersion {
		t.Errorf("schema version: got %d, want %d", doc.SchemaVersion, SchemaVersion)
	}
	want := sampleTasks()
	if len(doc.Tasks) != len(want) {
		t.Fatalf("got %d tasks, want %d", len(doc.Tasks), len(want))
	}
	for i := range want {
		got := doc.Tasks[i]
		if got.ID != want[i].ID || got.Text != want[i].Text || got.Completed != want[i].Completed || !got.CreatedAt.Equal(want[i].CreatedAt) {
			t.Errorf("task %d: got %+v, want %+v", i, got, want[i])
		}
	}
}

func TestExportEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Export(&buf, nil); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if !strings.Contains(buf.String(), `"tasks": []`) {
		t.Errorf("expected empty tasks array, got %s", buf.String())
	}
	if _, err := Decode(&buf); err != nil {
		t.Errorf("Decode of empty export failed: %v", err)
	}
}

func TestDecodeInvalid(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantPath string
	}{
		{
			name:     "wrong schema version",
			input:    `{"schema_version": 2, "tasks": []}`,
			wantPath: "schema_version",
		},
		{
			name:     "missing tasks",
			input:    `{"schema_version": 1}`,
			wantPath: "",
		},
		{
			name:     "text not a string",
			input:    `{"schema_version": 1, "tasks": [{"id": 1, "text": 5, "completed": false, "created_at": "2026-03-01T09:00:00Z"}]}`,
			wantPath: "tasks[0].text",
		},
		{
			name:     "bad timestamp",
			input:    `{"schema_version": 1, "tasks": [{"id": 1, "text": "a", "completed": false, "created_at": "yesterday"}]}`,
			wantPath: "tasks[0].created_at",
		},
		{
			name:     "non-positive id",
			input:    `{"schema_version": 1, "tasks": [{"id": 0, "text": "a", "completed": false, "created_at": "2026-03-01T09:00:00Z"}]}`,
			wantPath: "tasks[0].id",
		},
		{
			name:     "missing completed",
			input:    `{"schema_version": 1, "tasks": [{"id": 1, "text": "a", "created_at": "2026-03-01T09:00:00Z"}]}`,
			wantPath: "tasks[0]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("expected validation error")
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected *ValidationError, got %T: %v", err, err)
			}
			if ve.Path != tt.wantPath {
				t.Errorf("path: got %q, want %q (%v)", ve.Path, tt.wantPath, err)
			}
		})
	}
}

func TestDecodeMalformedJSON(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"schema_version": 1,`))
	if err == nil {
		t.Fatal("expected parse error")
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		t.Errorf("syntax error should not be a validation error: %v", err)
	}
}

func TestValidationErrorString(t *testing.T) {
	err := &ValidationError{Path: "tasks[1].text", Err: errors.New("expected string")}
	if got := err.Error(); got != "tasks[1].text: expected string" {
		t.Errorf("Error(): got %q", got)
	}
	bare := &ValidationError{Err: errors.New("boom")}
	if got := bare.Error(); got != "boom" {
		t.Errorf("Error() without path: got %q", got)
	}
}

type recordingGateway struct {
	updated []todo.Task
	failOn  int64
}

func (g *recordingGateway) All(ctx context.Context) ([]todo.Task, error) { return g.updated, nil }
func (g *recordingGateway) Add(ctx context.Context, t todo.Task) error   { return nil }
func (g *recordingGateway) Delete(ctx context.Context, id int64) error   { return nil }
func (g *recordingGateway) DeleteBatch(ctx context.Context, ids []int64) error {
	return nil
}

func (g *recordingGateway) Update(ctx context.Context, t todo.Task) error {
	if t.ID == g.failOn {
		return errors.New("constraint failed")
	}
	g.updated = append(g.updated, t)
	return nil
}

func TestApply(t *testing.T) {
	doc := NewDocument([]todo.Task{
		{ID: 1, Text: "  keep me  "},
		{ID: 2, Text: "   "},
		{ID: 3, Text: "also keep", Completed: true},
	}, time.Now())

	gw := &recordingGateway{}
	imported, skipped, err := Apply(context.Background(), gw, doc)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if imported != 2 || skipped != 1 {
		t.Errorf("got imported=%d skipped=%d, want 2 and 1", imported, skipped)
	}
	if gw.updated[0].Text != "keep me" {
		t.Errorf("text not trimmed: %q", gw.updated[0].Text)
	}
}

func TestApplyStopsOnError(t *testing.T) {
	doc := NewDocument([]todo.Task{
		{ID: 1, Text: "first"},
		{ID: 2, Text: "second"},
		{ID: 3, Text: "third"},
	}, time.Now())

	gw := &recordingGateway{failOn: 2}
	imported, _, err := Apply(context.Background(), gw, doc)
	if err == nil {
		t.Fatal("expected error")
	}
	if imported != 1 {
		t.Errorf("imported: got %d, want 1", imported)
	}
	if !strings.Contains(err.Error(), "import task 2") {
		t.Errorf("error should name the task: %v", err)
	}
}
