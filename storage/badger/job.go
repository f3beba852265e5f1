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

package badger

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/docucore/docucore/core"
	"github.com/docucore/docucore/storage"
)

// JobRepository implements storage.JobRepository for BadgerDB.
//
// The job record itself carries status, progress, and timestamps. Stage
// results and attempt history live under their own keys so that a result,
// once written, is never rewritten as part of a job update. GetJob
// assembles the full picture.
type JobRepository struct {
	backend *Backend
}

var _ storage.JobRepository = (*JobRepository)(nil)

// NewJobRepository creates a new JobRepository.
func NewJobRepository(backend *Backend) *JobRepository {
	return &JobRepository{backend: backend}
}

// Close is a no-op; the backend owns the database lifecycle.
func (r *JobRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *JobRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddJob persists a newly created job and indexes it by status.
func (r *JobRepository) AddJob(ctx context.Context, job *core.Job) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeJobKey(job.Id)

		_, err := tx.Get(key)
		if err == nil {
			return fmt.Errorf("%w: job %s", storage.ErrDuplicateKey, job.Id)
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		if err := writeJobRecord(tx, job); err != nil {
			return err
		}
		statusKey := makeJobStatusKey(job.Status, job.CreatedAt, job.Id)
		if err := tx.Set(statusKey, []byte(job.Id)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetJob retrieves a job together with its recorded stage results.
func (r *JobRepository) GetJob(ctx context.Context, id string) (*core.Job, error) {
	var result *core.Job
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		job, err := readJobRecord(tx, makeJobKey(id))
		if err != nil {
			return err
		}
		if job == nil {
			return fmt.Errorf("%w: job %s", storage.ErrNotFound, id)
		}

		job.Results, err = readStageResults(tx, id)
		if err != nil {
			return err
		}

		result = job
		return nil
	}, false)
	return result, err
}

// UpdateJob persists the job's mutable fields. Updates against a stored
// record that is already terminal are rejected.
func (r *JobRepository) UpdateJob(ctx context.Context, job *core.Job) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		old, err := readJobRecord(tx, makeJobKey(job.Id))
		if err != nil {
			return err
		}
		if old == nil {
			return fmt.Errorf("%w: job %s", storage.ErrNotFound, job.Id)
		}
		if old.Status.Terminal() {
			return fmt.Errorf("%w: job %s is %s", core.ErrTerminalJob, job.Id, old.Status)
		}

		if err := writeJobRecord(tx, job); err != nil {
			return err
		}

		if old.Status != job.Status {
			oldStatusKey := makeJobStatusKey(old.Status, old.CreatedAt, old.Id)
			if err := tx.Delete(oldStatusKey); err != nil {
				return err
			}
			newStatusKey := makeJobStatusKey(job.Status, old.CreatedAt, job.Id)
			if err := tx.Set(newStatusKey, []byte(job.Id)); err != nil {
				return err
			}
		}

		return tx.Commit()
	}, true)
}

// RecordStageResult writes the final result for one stage. The record is
// write-once: a second write for the same (job, stage) fails.
func (r *JobRepository) RecordStageResult(ctx context.Context, jobID string, result core.StageResult) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeStageResultKey(jobID, result.Stage)

		_, err := tx.Get(key)
		if err == nil {
			return fmt.Errorf("%w: result for job %s stage %s", storage.ErrDuplicateKey, jobID, result.Stage)
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		buf := make([]byte, core.StageResultMUS.Size(result))
		core.StageResultMUS.Marshal(result, buf)
		if err := tx.Set(key, buf); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// AppendStageAttempt appends one execution attempt record.
func (r *JobRepository) AppendStageAttempt(ctx context.Context, jobID string, attempt core.StageAttempt) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeStageAttemptKey(jobID, attempt.Stage, attempt.Attempt)
		value := storage.MarshalStageAttempt(&attempt)
		if err := tx.Set(key, value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetStageAttempts returns the recorded attempts for (job, stage) in
// attempt order.
func (r *JobRepository) GetStageAttempts(ctx context.Context, jobID, stageName string) ([]core.StageAttempt, error) {
	attempts := make([]core.StageAttempt, 0)
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialStageAttemptKey(jobID, stageName)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				attempt, err := storage.UnmarshalStageAttempt(val)
				if err != nil {
					return err
				}
				attempts = append(attempts, *attempt)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	return attempts, err
}

// ListJobsByStatus returns up to limit jobs in the given status, newest
// first.
func (r *JobRepository) ListJobsByStatus(ctx context.Context, status core.JobStatus, limit int) ([]*core.Job, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", storage.ErrInvalidQuery)
	}

	var results []*core.Job
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		iter := tx.NewIterator(opts)
		defer iter.Close()

		prefix := makePartialJobStatusKey(status)
		// Seek past the last possible key in this status bucket.
		startKey := append(bytes.Clone(prefix), 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff)

		for iter.Seek(startKey); iter.Valid() && len(results) < limit; iter.Next() {
			key := iter.Item().Key()
			if !bytes.HasPrefix(key, prefix) {
				break
			}

			var jobID string
			if err := iter.Item().Value(func(val []byte) error {
				jobID = string(val)
				return nil
			}); err != nil {
				return err
			}

			job, err := readJobRecord(tx, makeJobKey(jobID))
			if err != nil {
				return err
			}
			if job == nil {
				continue
			}
			job.Results, err = readStageResults(tx, jobID)
			if err != nil {
				return err
			}
			results = append(results, job)
		}
		return nil
	}, false)

	return results, err
}

// writeJobRecord stores the job without its stage results; results live
// under their own keys.
func writeJobRecord(tx *badger.Txn, job *core.Job) error {
	record := *job
	record.Results = nil
	return tx.Set(makeJobKey(job.Id), storage.MarshalJob(&record))
}

// readJobRecord reads a raw job record, returning nil when absent.
func readJobRecord(tx *badger.Txn, key []byte) (*core.Job, error) {
	item, err := tx.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var job *core.Job
	err = item.Value(func(val []byte) error {
		job, err = storage.UnmarshalJob(val)
		return err
	})
	return job, err
}

// readStageResults collects all stage results recorded for a job.
func readStageResults(tx *badger.Txn, jobID string) (map[string]core.StageResult, error) {
	results := make(map[string]core.StageResult)

	opts := badger.DefaultIteratorOptions
	opts.Prefix = makePartialStageResultKey(jobID)
	iter := tx.NewIterator(opts)
	defer iter.Close()

	for iter.Rewind(); iter.Valid(); iter.Next() {
		err := iter.Item().Value(func(val []byte) error {
			result, _, err := core.StageResultMUS.Unmarshal(val)
			if err != nil {
				return err
			}
			results[result.Stage] = result
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
