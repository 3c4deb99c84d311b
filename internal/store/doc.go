// Package store executes compiled queries against SQLite.
//
// Records are seeded into schemaless tables: every column is declared
// without a type, so each value keeps the storage class it was written
// with (INTEGER, REAL, TEXT or NULL). Arrays and objects are stored as
// canonical JSON text for the json_each and json_array_length functions.
// Dates are stored as ISO-8601 text, which the date and strftime
// functions read directly.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - REGEXP: Go RE2 semantics, registered on every connection
//
// CRITICAL: Callers pass compiled SQL with ? placeholders and a parameter
// slice. The store never builds SQL from record values except through
// placeholders.
package store
