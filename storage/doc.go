// Copyright 2025 Docucore Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package storage provides the storage abstraction layer for docucore.
//
// This package defines repository interfaces that decouple storage
// implementation from job orchestration. It allows different storage
// backends (BadgerDB, in-memory, etc.) to be used interchangeably.
//
// # Constructor Return Type Pattern
//
// Public constructors return interfaces to enforce abstraction:
//
//	repos, err := badger.NewRepositories(path)
//
// Internal package constructors may return concrete types since they're
// only used within the implementation package.
//
// # Architecture
//
// The storage layer follows the Repository pattern:
//
//   - Repository: lifecycle and transaction support
//   - JobRepository: job records, stage results, and attempt history
//   - DocumentRepository: normalized documents
//
// # Write Semantics
//
// Stage results are write-once: a second RecordStageResult for the same
// job and stage fails with ErrDuplicateKey. Attempt records are
// append-only. Terminal jobs reject further updates.
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
package storage
