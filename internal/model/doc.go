// Package model provides the issue-tracker records that filters are evaluated
// against and mutated by.
//
// This package contains the record types and the read-only Model capability.
// It imports nothing internal; filter, engine, catalog and store all import it.
//
// Key design constraints:
//   - Issues reference labels by name, milestones by id and assignees by login.
//     The Model resolves those references to full records.
//   - Issue fields are written only by filter.Apply (through the mutators in
//     this package) or by the collaborator that owns the issue.
//   - All JSON/YAML tags use snake_case.
package model
