// Package report consolidates a job's stage outputs into a single
// document-understanding report.
//
// Stage outputs are stored as opaque bytes; this package knows the JSON
// shapes the built-in stages produce and folds them into the report's
// typed fields. Stages that were skipped or failed leave their sections
// empty, and unknown stages contribute only execution accounting.
package report
