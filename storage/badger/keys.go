package badger

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/docucore/docucore/core"
)

// Key prefixes for different data types
const (
	jobRecordPrefix    = "jobrec"
	jobStatusPrefix    = "jobst"
	stageResultPrefix  = "stgres"
	stageAttemptPrefix = "stgatt"
	documentPrefix     = "docrec"
)

// makeJobKey generates a key for a job by id.
func makeJobKey(id string) []byte {
	return []byte(fmt.Sprintf("%s:%s", jobRecordPrefix, id))
}

// makeJobStatusKey generates a composite key for the status index.
// Format: prefix:status:createdAt:id
func makeJobStatusKey(status core.JobStatus, createdAt time.Time, id string) []byte {
	prefix := jobStatusPrefix + ":"
	prefixBytes := []byte(prefix)
	totalSize := len(prefixBytes) + 1 + 8 + len(id)
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	buf[offset] = byte(status)
	offset++
	// Write in BigEndian order so lexicographic sort follows creation time
	binary.BigEndian.PutUint64(buf[offset:], uint64(createdAt.UnixMicro()))
	offset += 8
	copy(buf[offset:], id)
	return buf
}

// makePartialJobStatusKey generates the prefix shared by all status index
// entries for one status.
func makePartialJobStatusKey(status core.JobStatus) []byte {
	prefix := jobStatusPrefix + ":"
	prefixBytes := []byte(prefix)
	buf := make([]byte, len(prefixBytes)+1)
	offset := copy(buf, prefixBytes)
	buf[offset] = byte(status)
	return buf
}

// makeStageResultKey generates a key for one stage result of a job.
func makeStageResultKey(jobID, stage string) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s", stageResultPrefix, jobID, stage))
}

// makePartialStageResultKey generates the prefix covering all stage
// results of one job.
func makePartialStageResultKey(jobID string) []byte {
	return []byte(fmt.Sprintf("%s:%s:", stageResultPrefix, jobID))
}

// makeStageAttemptKey generates a composite key for one stage attempt.
// Format: prefix:jobID:stage:attempt
func makeStageAttemptKey(jobID, stage string, attempt int) []byte {
	prefix := []byte(fmt.Sprintf("%s:%s:%s:", stageAttemptPrefix, jobID, stage))
	buf := make([]byte, len(prefix)+4)
	offset := copy(buf, prefix)
	// Write in BigEndian order so attempts iterate in order
	binary.BigEndian.PutUint32(buf[offset:], uint32(attempt))
	return buf
}

// makePartialStageAttemptKey generates the prefix covering all attempts
// for (job, stage).
func makePartialStageAttemptKey(jobID, stage string) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s:", stageAttemptPrefix, jobID, stage))
}

// makeDocumentKey generates a key for a document by id.
func makeDocumentKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", documentPrefix, id))
}
