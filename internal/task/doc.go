// Package task holds the task model and the operations that act on a task
// collection.
//
// A collection is persisted as a flat JSON array (tasks.json):
//
//	[
//	  {
//	    "title": "Pay rent",
//	    "category": "Home",
//	    "priority": "High",
//	    "due_date": "2026-11-01",
//	    "completed": false,
//	    "comments": null
//	  }
//	]
//
// # Lookup
//
// Titles are the lookup key. They are compared case-insensitively and stored
// with their original casing. Duplicate titles are allowed; operations that
// take a title act on the first match in collection order.
//
// # Validation
//
//   - priority: one of "Low", "Medium", "High" after normalization
//     (first letter upper, rest lower)
//   - due_date: YYYY-MM-DD, not earlier than today
//
// # Persistence
//
// A Service writes the whole collection through its Store after every
// successful mutation. Failed operations leave both the collection and the
// file untouched.
//
// # Queries
//
// FilterByCompletion and the Sort* functions return new slices and never
// reorder the collection itself.
package task
