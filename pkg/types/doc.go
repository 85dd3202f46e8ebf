// Package types defines the core data model shared across the search
// pipeline: candidates, graph metrics, filter specs, ranked results, and
// the error taxonomy.
package types
