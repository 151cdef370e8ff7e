package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/nibzard/taskflow/internal/todo"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "taskflow.db")
	s, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func task(id int64, text string, completed bool, created time.Time) todo.Task {
	return todo.Task{ID: id, Text: text, Completed: completed, CreatedAt: created}
}

func TestOpenEmptyPath(t *testing.T) {
	if _, err := Open(context.Background(), ""); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "taskflow.db")
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	s, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("first Open failed: %v", err)
	}
	if err := s.Add(ctx, task(1, "persisted", false, base)); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	s, err = Open(ctx, path)
	if err != nil {
		t.Fatalf("second Open failed: %v", err)
	}
	defer s.Close()

	tasks, err := s.All(ctx)
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Text != "persisted" {
		t.Errorf("All after reopen: got %+v", tasks)
	}
}

func TestAllNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	inputs := []todo.Task{
		task(10, "middle", false, base.Add(time.Minute)),
		task(20, "oldest", true, base),
		task(30, "newest", false, base.Add(2*time.Minute)),
	}
	for _, in := range inputs {
		if err := s.Add(ctx, in); err != nil {
			t.Fatalf("Add(%d) failed: %v", in.ID, err)
		}
	}

	tasks, err := s.All(ctx)
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	want := []string{"newest", "middle", "oldest"}
	if len(tasks) != len(want) {
		t.Fatalf("All count: got %d, want %d", len(tasks), len(want))
	}
	for i, text := range want {
		if tasks[i].Text != text {
			t.Errorf("All[%d]: got %q, want %q", i, tasks[i].Text, text)
		}
	}
	if !tasks[2].Completed {
		t.Error("oldest: Completed got false, want true")
	}
	if !tasks[0].CreatedAt.Equal(base.Add(2 * time.Minute)) {
		t.Errorf("CreatedAt: got %v, want %v", tasks[0].CreatedAt, base.Add(2*time.Minute))
	}
}

func TestAllEmpty(t *testing.T) {
	tasks, err := openTestStore(t).All(context.Background())
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if tasks == nil || len(tasks) != 0 {
		t.Errorf("All on empty store: got %#v, want empty slice", tasks)
	}
}

func TestAddDuplicateFails(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	now := time.Now()

	if err := s.Add(ctx, task(1, "first", false, now)); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := s.Add(ctx, task(1, "again", false, now)); err == nil {
		t.Error("expected error adding duplicate id")
	}
}

func TestUpdateUpserts(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	now := time.Now()

	if err := s.Update(ctx, task(5, "inserted", false, now)); err != nil {
		t.Fatalf("Update (insert) failed: %v", err)
	}
	if err := s.Update(ctx, task(5, "changed", true, now)); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	tasks, err := s.All(ctx)
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("All count: got %d, want 1", len(tasks))
	}
	if tasks[0].Text != "changed" || !tasks[0].Completed {
		t.Errorf("after Update: got %+v", tasks[0])
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	now := time.Now()

	for i := int64(1); i <= 3; i++ {
		if err := s.Add(ctx, task(i, "task", false, now.Add(time.Duration(i)*time.Second))); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	if err := s.Delete(ctx, 2); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := s.Delete(ctx, 99); err != nil {
		t.Errorf("Delete of unknown id: got %v, want nil", err)
	}

	tasks, err := s.All(ctx)
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("All count: got %d, want 2", len(tasks))
	}
	for _, tk := range tasks {
		if tk.ID == 2 {
			t.Error("deleted id 2 still present")
		}
	}
}

func TestDeleteBatch(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	now := time.Now()

	for i := int64(1); i <= 4; i++ {
		if err := s.Add(ctx, task(i, "task", i%2 == 0, now.Add(time.Duration(i)*time.Second))); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	if err := s.DeleteBatch(ctx, nil); err != nil {
		t.Errorf("DeleteBatch(nil): got %v, want nil", err)
	}
	if err := s.DeleteBatch(ctx, []int64{2, 4, 42}); err != nil {
		t.Fatalf("DeleteBatch failed: %v", err)
	}

	tasks, err := s.All(ctx)
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("All count: got %d, want 2", len(tasks))
	}
	for _, tk := range tasks {
		if tk.Completed {
			t.Errorf("completed task %d survived batch delete", tk.ID)
		}
	}
}

func TestSettings(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	if _, ok, err := s.Setting(ctx, "theme"); err != nil || ok {
		t.Fatalf("Setting before write: ok=%v err=%v, want ok=false err=nil", ok, err)
	}
	if err := s.SetSetting(ctx, "theme", "dark"); err != nil {
		t.Fatalf("SetSetting failed: %v", err)
	}
	if err := s.SetSetting(ctx, "theme", "light"); err != nil {
		t.Fatalf("SetSetting overwrite failed: %v", err)
	}
	got, ok, err := s.Setting(ctx, "theme")
	if err != nil || !ok {
		t.Fatalf("Setting: ok=%v err=%v", ok, err)
	}
	if got != "light" {
		t.Errorf("Setting: got %q, want light", got)
	}
}

func TestClosedStore(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close: got %v, want nil", err)
	}

	if _, err := s.All(ctx); !errors.Is(err, ErrClosed) {
		t.Errorf("All after close: got %v, want ErrClosed", err)
	}
	if err := s.Add(ctx, task(1, "x", false, time.Now())); !errors.Is(err, ErrClosed) {
		t.Errorf("Add after close: got %v, want ErrClosed", err)
	}
	if err := s.DeleteBatch(ctx, []int64{1}); !errors.Is(err, ErrClosed) {
		t.Errorf("DeleteBatch after close: got %v, want ErrClosed", err)
	}
}

func TestControllerRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	c := todo.NewController(s)
	if err := c.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	first, err := c.Add(ctx, "first")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if _, err := c.Add(ctx, "second"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := c.Toggle(ctx, first.ID); err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	if err := c.ClearCompleted(ctx); err != nil {
		t.Fatalf("ClearCompleted failed: %v", err)
	}

	reloaded := todo.NewController(s)
	if err := reloaded.Load(ctx); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	tasks := reloaded.Tasks()
	if len(tasks) != 1 || tasks[0].Text != "second" {
		t.Errorf("reloaded tasks: got %+v, want only 'second'", tasks)
	}
}

func TestCreatedAtOutsideNanosecondRange(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	future := time.Date(3000, 1, 1, 0, 0, 0, 0, time.UTC)
	past := time.Date(1500, 1, 1, 0, 0, 0, 0, time.UTC)
	recent := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	for _, tk := range []todo.Task{
		task(1, "recent", false, recent),
		task(2, "future", false, future),
	} {
		if err := s.Add(ctx, tk); err != nil {
			t.Fatalf("Add(%d) failed: %v", tk.ID, err)
		}
	}
	if err := s.Update(ctx, task(3, "past", true, past)); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	tasks, err := s.All(ctx)
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	want := []struct {
		text    string
		created time.Time
	}{
		{"future", future},
		{"recent", recent},
		{"past", past},
	}
	if len(tasks) != len(want) {
		t.Fatalf("All count: got %d, want %d", len(tasks), len(want))
	}
	for i, w := range want {
		if tasks[i].Text != w.text {
			t.Errorf("tasks[%d].Text: got %q, want %q", i, tasks[i].Text, w.text)
		}
		if !tasks[i].CreatedAt.Equal(w.created) {
			t.Errorf("tasks[%d].CreatedAt: got %v, want %v", i, tasks[i].CreatedAt, w.created)
		}
	}
}

func TestMigrateConvertsNanosecondTimestamps(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "taskflow.db")
	created := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("sql.Open failed: %v", err)
	}
	for _, m := range []string{migrationV1, migrationV2} {
		if _, err := db.ExecContext(ctx, m); err != nil {
			t.Fatalf("applying migration: %v", err)
		}
	}
	_, err = db.ExecContext(ctx,
		"INSERT INTO todos (id, text, completed, created_at) VALUES (?, ?, 0, ?)",
		created.UnixMilli(), "old row", created.UnixNano())
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	s, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer s.Close()

	tasks, err := s.All(ctx)
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(tasks) != 1 || !tasks[0].CreatedAt.Equal(created) {
		t.Errorf("All after migration: got %+v, want created_at %v", tasks, created)
	}
}

func TestSchemaVersion(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	version, err := s.schemaVersion(ctx)
	if err != nil {
		t.Fatalf("schemaVersion failed: %v", err)
	}
	if version != 3 {
		t.Errorf("schemaVersion: got %d, want 3", version)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := s.schemaVersion(cancelled); !errors.Is(err, context.Canceled) {
		t.Errorf("schemaVersion with cancelled context: got %v, want context.Canceled", err)
	}
	if err := s.migrate(cancelled); !errors.Is(err, context.Canceled) {
		t.Errorf("migrate with cancelled context: got %v, want context.Canceled", err)
	}
}

func TestSchemaVersionNewDatabase(t *testing.T) {
	ctx := context.Background()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "empty.db"))
	if err != nil {
		t.Fatalf("sql.Open failed: %v", err)
	}
	s := &Store{db: db}
	defer s.Close()

	version, err := s.schemaVersion(ctx)
	if err != nil {
		t.Fatalf("schemaVersion failed: %v", err)
	}
	if version != 0 {
		t.Errorf("schemaVersion: got %d, want 0", version)
	}
}
