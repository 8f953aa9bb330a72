// Package task holds the task and stats records mirrored from the backend and
// the pure reducer that keeps a cached list in step with server responses.
//
// The wire format matches the backend contract:
//
//	{
//	  "id": 3,
//	  "title": "Buy milk",
//	  "completed": false,
//	  "created_at": "2026-01-12"
//	}
//
// # Reducer
//
// Reduce never mutates the list it is given. Each event yields a fresh slice
// that differs from the input by at most one insert, removal, or update:
//
//   - Loaded replaces the list wholesale
//   - Added appends a server-created task
//   - CompletionSet sets the completed flag of the task with the given id
//   - Retitled sets the title of the task with the given id
//   - Removed drops the task with the given id
//
// Events naming an id that is not present leave the list unchanged.
//
// # Validation
//
// Payloads decoded from the backend can be checked against the embedded JSON
// Schemas (ValidateList, ValidateCreated, ValidateStats). Schema failures are
// reported as *ValidationError values whose Path is a dot-notation location.
package task
