// Package mock provides test doubles for the ai backend contracts.
//
// MockLoader and MockModel support behavior injection through function
// fields and record call counts and batch sizes for assertions. They are
// safe for concurrent use, which matters for tests that exercise the
// inference manager's load deduplication and batching windows.
package mock
