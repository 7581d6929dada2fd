// Package catalog loads repository catalogs (repositories with their labels,
// milestones, users and issues) from files into a model.Catalog.
//
// Two formats are accepted:
//
//   - YAML (.yaml, .yml), decoded with gopkg.in/yaml.v3
//   - CUE (.cue files, or a directory holding one CUE package), evaluated
//     with cuelang.org/go and decoded from the resulting value
//
// Both share one document shape:
//
//	default_repo: acme/widgets     # optional; first repository otherwise
//	repositories:
//	  - id: acme/widgets
//	    labels:     [{name: type.bug, color: ee0701}]
//	    milestones: [{id: 1, title: v1.0, open: true}]
//	    users:      [{login: alice, name: Alice Liddell}]
//	    issues:
//	      - id: 1
//	        title: Crash on startup
//	        author: alice
//	        assignee: alice
//	        milestone: 1
//	        labels: [type.bug]
//	        created_at: 2024-01-10T09:30:00Z
//	        updated_at: 2024-03-14T06:00:00Z
//	        open: true
//
// Every document is validated before a catalog is built. All problems are
// reported together as a go-multierror inside a *LoadError.
package catalog
