// Package todo holds the task list state and its mutation operations.
//
// A Controller owns the in-memory list of tasks together with the derived
// view state: the active filter, the task being edited and the counts shown
// in the footer. Every mutating operation writes through a Gateway first and
// only touches memory once the write succeeded:
//
//	ctrl := todo.NewController(store, todo.WithLogger(logger))
//	ctrl.Load(ctx)
//	task, err := ctrl.Add(ctx, "  buy milk ")
//	ctrl.Toggle(ctx, task.ID)
//	ctrl.SetFilter(todo.FilterActive)
//	visible := ctrl.Filtered()
//
// # Failure handling
//
// A failed write is logged and returned. Memory is left as it was; there is
// no optimistic update and no rollback.
//
// # Ordering
//
// Tasks are kept newest first. New tasks are prepended and ids are derived
// from the creation time in milliseconds, bumped by one when the clock has
// not moved past the newest id.
//
// # Filters
//
//   - "all": every task
//   - "active": tasks with completed=false
//   - "completed": tasks with completed=true
//
// The controller is not safe for concurrent use; callers process events
// serially.
package todo
