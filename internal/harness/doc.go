// Package harness runs conformance scenarios against the filter engine.
//
// A scenario names a catalog, a flow of steps and final-state assertions:
//
//	name: label_triage
//	description: Labels applied to one issue become visible to queries
//	catalog: ../catalogs/tracker.yaml
//	now: 2024-03-15T12:00:00Z
//	flow:
//	  - query: "label:type.bug"
//	    expect:
//	      matches: ["acme/widgets#1"]
//	  - apply: "label:type.bug"
//	    issue: acme/widgets#2
//	    expect:
//	      outcome: APPLIED
//	assertions:
//	  - type: issue_labels
//	    issue: acme/widgets#2
//	    labels: [type.feature, type.bug]
//
// Each run loads the catalog fresh, opens an in-memory store for the apply
// log and drives a running engine, so the trace reflects real selection and
// apply behaviour. Steps are:
//
//   - parse: the filter is parsed; the event carries the canonical form or
//     the parse error code
//   - query: the filter is parsed and selected; the event lists the
//     matching issues as "owner/name#id"
//   - apply: the filter is applied to one issue; the event carries APPLIED
//     or the rejection code
//
// Time-relative qualifiers read the scenario's fixed "now", which keeps
// traces reproducible and golden files stable (see RunWithGolden).
package harness
