package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/nibzard/taskflow/internal/config"
	"github.com/nibzard/taskflow/internal/todo"
)

// addCommand adds one task from the remaining arguments.
func addCommand(ctx context.Context, cfg *config.Config, args []string) error {
	text := strings.Join(args, " ")
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("usage: taskflow add <text...>")
	}

	a, err := openLoaded(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	task, err := a.ctrl.Add(ctx, text)
	if err != nil {
		return fmt.Errorf("adding task: %w", err)
	}
	fmt.Printf("Added %d: %s\n", task.ID, task.Text)
	return nil
}

// lsCommand lists tasks through the view filter.
func lsCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("taskflow ls", flag.ContinueOnError)
	filterArg := fs.String("filter", string(todo.FilterAll), "Show all, active or completed tasks")
	asJSON := fs.Bool("json", false, "Print tasks as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	remaining := fs.Args()
	if len(remaining) > 1 {
		return fmt.Errorf("unexpected arguments: %v", remaining[1:])
	}
	if len(remaining) == 1 {
		*filterArg = remaining[0]
	}
	filter, err := todo.ParseFilter(*filterArg)
	if err != nil {
		return err
	}

	a, err := openLoaded(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	a.ctrl.SetFilter(filter)
	tasks := a.ctrl.Filtered()

	if *asJSON {
		data, err := json.MarshalIndent(tasks, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding tasks: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	printTaskList(tasks)
	fmt.Println()
	fmt.Printf("%s (%d completed)\n", itemsLeft(a.ctrl.ActiveCount()), a.ctrl.CompletedCount())
	return nil
}

// toggleCommand flips the completed flag of one task.
func toggleCommand(ctx context.Context, cfg *config.Config, args []string) error {
	id, err := singleID("toggle", args)
	if err != nil {
		return err
	}

	a, err := openLoaded(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.ctrl.Toggle(ctx, id); err != nil {
		return taskError(id, err)
	}
	task, _ := a.ctrl.Find(id)
	printTask(task)
	return nil
}

// editCommand replaces the text of one task. Blank text deletes it.
func editCommand(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: taskflow edit <id> <text...>")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	text := strings.Join(args[1:], " ")

	a, err := openLoaded(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	task, ok := a.ctrl.Find(id)
	if !ok {
		return taskError(id, todo.ErrNotFound)
	}
	a.ctrl.StartEdit(task)
	a.ctrl.SetEditText(text)
	if err := a.ctrl.SaveEdit(ctx, id); err != nil {
		return taskError(id, err)
	}

	if updated, ok := a.ctrl.Find(id); ok {
		printTask(updated)
	} else {
		fmt.Printf("Deleted %d\n", id)
	}
	return nil
}

// rmCommand deletes one task.
func rmCommand(ctx context.Context, cfg *config.Config, args []string) error {
	id, err := singleID("rm", args)
	if err != nil {
		return err
	}

	a, err := openLoaded(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	if _, ok := a.ctrl.Find(id); !ok {
		return taskError(id, todo.ErrNotFound)
	}
	if err := a.ctrl.Delete(ctx, id); err != nil {
		return taskError(id, err)
	}
	fmt.Printf("Deleted %d\n", id)
	return nil
}

// clearCommand deletes every completed task.
func clearCommand(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}

	a, err := openLoaded(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	n := a.ctrl.CompletedCount()
	if err := a.ctrl.ClearCompleted(ctx); err != nil {
		return fmt.Errorf("clearing completed tasks: %w", err)
	}
	fmt.Printf("Cleared %d completed task(s)\n", n)
	return nil
}

func singleID(command string, args []string) (int64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("usage: taskflow %s <id>", command)
	}
	return parseID(args[0])
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task id %q", s)
	}
	return id, nil
}

func taskError(id int64, err error) error {
	if errors.Is(err, todo.ErrNotFound) {
		return fmt.Errorf("task %d: %w", id, err)
	}
	return fmt.Errorf("updating task %d: %w", id, err)
}

// printTaskList prints tasks in list order.
func printTaskList(tasks []todo.Task) {
	if len(tasks) == 0 {
		fmt.Println("No tasks found.")
		return
	}
	for _, t := range tasks {
		printTask(t)
	}
}

// printTask prints a single task.
func printTask(t todo.Task) {
	box := "[ ]"
	if t.Completed {
		box = "[x]"
	}
	fmt.Printf("  %s %d  %s\n", box, t.ID, t.Text)
}

func itemsLeft(n int) string {
	if n == 1 {
		return "1 item left"
	}
	return fmt.Sprintf("%d items left", n)
}
