// Package store provides SQLite-backed storage for saved panels and the
// apply log.
//
// The store holds two tables:
//   - panels: named filters, persisted as canonical filter strings
//   - apply_log: append-only record of apply attempts and their outcomes
//
// # Critical Patterns
//
// Filters Are Stored Canonical
//   - SavePanel parses the filter and stores its serialization
//   - Invalid filters are refused before anything is written
//
// Logical Ordering
//   - Both tables carry a seq INTEGER assigned inside the writing
//     transaction; ordering never depends on timestamps
//   - All list queries use ORDER BY seq ASC, id ASC COLLATE BINARY
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Row ids are UUIDv7 (github.com/google/uuid), so they also sort by
// creation time.
package store
