// Package controller implements the task manager that keeps a cached task
// list in sync with the backend across the list, create, update, and delete
// calls.
//
// Each operation is an independent unit of work triggered by a user event.
// Network calls are the only suspension points. The cached list changes only
// after the backend confirms a call, through task.Reduce, so a failed call
// leaves the cache exactly as it was. Calls are not coordinated with one
// another: two rapid toggles both reach the server, and nothing is
// cancelled or de-duplicated.
//
// The manager never touches a UI directly. It talks to a View for rendering,
// a Dialog for confirmations and prompts, and a notify.Notifier for toasts,
// all supplied at construction.
package controller
