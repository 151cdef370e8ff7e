package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/nibzard/taskflow/internal/backup"
	"github.com/nibzard/taskflow/internal/config"
	"github.com/nibzard/taskflow/internal/theme"
)

// exportCommand writes every task as an export document to a file or stdout.
func exportCommand(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("unexpected arguments: %v", args[1:])
	}

	a, err := openLoaded(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	tasks := a.ctrl.Tasks()
	if len(args) == 0 || args[0] == "-" {
		return backup.Export(os.Stdout, tasks)
	}

	path := args[0]
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	if err := backup.Export(f, tasks); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing export file: %w", err)
	}

	a.logger.Info("Exported tasks", "count", len(tasks), "path", path)
	fmt.Printf("Exported %d task(s) to %s\n", len(tasks), path)
	return nil
}

// importCommand upserts the tasks of an export document. The whole
// document is validated before anything is written.
func importCommand(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: taskflow import <file>")
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening import file: %w", err)
	}
	doc, err := backup.Decode(f)
	_ = f.Close()
	if err != nil {
		return fmt.Errorf("invalid import file %s: %w", args[0], err)
	}

	a, err := openApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	imported, skipped, err := backup.Apply(ctx, a.store, doc)
	if err != nil {
		a.logger.Error("Failed to import tasks", "imported", imported, "err", err)
		return err
	}
	if err := a.ctrl.Load(ctx); err != nil {
		return fmt.Errorf("reloading tasks: %w", err)
	}

	a.logger.Info("Imported tasks", "count", imported, "skipped", skipped, "path", args[0])
	fmt.Printf("Imported %d task(s)", imported)
	if skipped > 0 {
		fmt.Printf(", skipped %d with empty text", skipped)
	}
	fmt.Printf(". %s\n", itemsLeft(a.ctrl.ActiveCount()))
	return nil
}

// themeCommand shows, sets or toggles the saved theme.
func themeCommand(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("usage: taskflow theme [dark|light|toggle]")
	}

	a, err := openApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	themes := a.themes()
	if len(args) == 0 {
		fmt.Println(themes.Resolve(ctx))
		return nil
	}

	if args[0] == "toggle" {
		themes.Resolve(ctx)
		fmt.Println(themes.Toggle(ctx))
		return nil
	}
	mode, err := theme.ParseMode(args[0])
	if err != nil {
		return err
	}
	fmt.Println(themes.Set(ctx, mode))
	return nil
}
