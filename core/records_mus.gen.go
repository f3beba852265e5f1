// Code generated by musgen-go. DO NOT EDIT.

package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

var (
	map9z4NΣFpQCRMUxΔMvB8BzbwΞΞ   = ord.NewMapSer[string, string](ord.String, ord.String)
	mapIjΔLuRM6tElXXdMc9U9b1AΞΞ   = ord.NewMapSer[string, StageResult](ord.String, StageResultMUS)
	sliceΔz9MscjNRecKPRySK1P8BQΞΞ = ord.NewSliceSer[PageSpan](PageSpanMUS)
)

var IDMUS = iDMUS{}

type iDMUS struct{}

func (s iDMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (s iDMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	tmp, n, err := varint.Uint64.Unmarshal(bs)
	if err != nil {
		return
	}
	v = ID(tmp)
	return
}

func (s iDMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

func (s iDMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

var FormatTypeMUS = formatTypeMUS{}

type formatTypeMUS struct{}

func (s formatTypeMUS) Marshal(v FormatType, bs []byte) (n int) {
	return varint.Int.Marshal(int(v), bs)
}

func (s formatTypeMUS) Unmarshal(bs []byte) (v FormatType, n int, err error) {
	tmp, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	v = FormatType(tmp)
	return
}

func (s formatTypeMUS) Size(v FormatType) (size int) {
	return varint.Int.Size(int(v))
}

func (s formatTypeMUS) Skip(bs []byte) (n int, err error) {
	return varint.Int.Skip(bs)
}

var JobStatusMUS = jobStatusMUS{}

type jobStatusMUS struct{}

func (s jobStatusMUS) Marshal(v JobStatus, bs []byte) (n int) {
	return varint.Int.Marshal(int(v), bs)
}

func (s jobStatusMUS) Unmarshal(bs []byte) (v JobStatus, n int, err error) {
	tmp, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	v = JobStatus(tmp)
	return
}

func (s jobStatusMUS) Size(v JobStatus) (size int) {
	return varint.Int.Size(int(v))
}

func (s jobStatusMUS) Skip(bs []byte) (n int, err error) {
	return varint.Int.Skip(bs)
}

var StageStatusMUS = stageStatusMUS{}

type stageStatusMUS struct{}

func (s stageStatusMUS) Marshal(v StageStatus, bs []byte) (n int) {
	return varint.Int.Marshal(int(v), bs)
}

func (s stageStatusMUS) Unmarshal(bs []byte) (v StageStatus, n int, err error) {
	tmp, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	v = StageStatus(tmp)
	return
}

func (s stageStatusMUS) Size(v StageStatus) (size int) {
	return varint.Int.Size(int(v))
}

func (s stageStatusMUS) Skip(bs []byte) (n int, err error) {
	return varint.Int.Skip(bs)
}

var DurationMUS = durationMUS{}

type durationMUS struct{}

func (s durationMUS) Marshal(v time.Duration, bs []byte) (n int) {
	return varint.Int64.Marshal(int64(v), bs)
}

func (s durationMUS) Unmarshal(bs []byte) (v time.Duration, n int, err error) {
	tmp, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return
	}
	v = time.Duration(tmp)
	return
}

func (s durationMUS) Size(v time.Duration) (size int) {
	return varint.Int64.Size(int64(v))
}

func (s durationMUS) Skip(bs []byte) (n int, err error) {
	return varint.Int64.Skip(bs)
}

var PageSpanMUS = pageSpanMUS{}

type pageSpanMUS struct{}

func (s pageSpanMUS) Marshal(v PageSpan, bs []byte) (n int) {
	n = varint.Int.Marshal(v.Page, bs)
	n += varint.Int.Marshal(v.Offset, bs[n:])
	return n + varint.Int.Marshal(v.Length, bs[n:])
}

func (s pageSpanMUS) Unmarshal(bs []byte) (v PageSpan, n int, err error) {
	v.Page, n, err = varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Offset, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Length, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	return
}

func (s pageSpanMUS) Size(v PageSpan) (size int) {
	size = varint.Int.Size(v.Page)
	size += varint.Int.Size(v.Offset)
	return size + varint.Int.Size(v.Length)
}

func (s pageSpanMUS) Skip(bs []byte) (n int, err error) {
	n, err = varint.Int.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	return
}

var DocumentMUS = documentMUS{}

type documentMUS struct{}

func (s documentMUS) Marshal(v Document, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.Text, bs[n:])
	n += FormatTypeMUS.Marshal(v.Format, bs[n:])
	n += sliceΔz9MscjNRecKPRySK1P8BQΞΞ.Marshal(v.Pages, bs[n:])
	n += map9z4NΣFpQCRMUxΔMvB8BzbwΞΞ.Marshal(v.Metadata, bs[n:])
	return n + raw.TimeUnixMicro.Marshal(v.NormalizedAt, bs[n:])
}

func (s documentMUS) Unmarshal(bs []byte) (v Document, n int, err error) {
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Text, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Format, n1, err = FormatTypeMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Pages, n1, err = sliceΔz9MscjNRecKPRySK1P8BQΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Metadata, n1, err = map9z4NΣFpQCRMUxΔMvB8BzbwΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.NormalizedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return
}

func (s documentMUS) Size(v Document) (size int) {
	size = IDMUS.Size(v.Id)
	size += ord.String.Size(v.Text)
	size += FormatTypeMUS.Size(v.Format)
	size += sliceΔz9MscjNRecKPRySK1P8BQΞΞ.Size(v.Pages)
	size += map9z4NΣFpQCRMUxΔMvB8BzbwΞΞ.Size(v.Metadata)
	return size + raw.TimeUnixMicro.Size(v.NormalizedAt)
}

func (s documentMUS) Skip(bs []byte) (n int, err error) {
	n, err = IDMUS.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = FormatTypeMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = sliceΔz9MscjNRecKPRySK1P8BQΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = map9z4NΣFpQCRMUxΔMvB8BzbwΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	return
}

var StageResultMUS = stageResultMUS{}

type stageResultMUS struct{}

func (s stageResultMUS) Marshal(v StageResult, bs []byte) (n int) {
	n = ord.String.Marshal(v.Stage, bs)
	n += StageStatusMUS.Marshal(v.Status, bs[n:])
	n += ord.ByteSlice.Marshal(v.Output, bs[n:])
	n += ord.String.Marshal(v.ErrorDetail, bs[n:])
	n += varint.Int.Marshal(v.Attempts, bs[n:])
	n += DurationMUS.Marshal(v.Duration, bs[n:])
	return n + raw.TimeUnixMicro.Marshal(v.CompletedAt, bs[n:])
}

func (s stageResultMUS) Unmarshal(bs []byte) (v StageResult, n int, err error) {
	v.Stage, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Status, n1, err = StageStatusMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Output, n1, err = ord.ByteSlice.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.ErrorDetail, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Attempts, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Duration, n1, err = DurationMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.CompletedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return
}

func (s stageResultMUS) Size(v StageResult) (size int) {
	size = ord.String.Size(v.Stage)
	size += StageStatusMUS.Size(v.Status)
	size += ord.ByteSlice.Size(v.Output)
	size += ord.String.Size(v.ErrorDetail)
	size += varint.Int.Size(v.Attempts)
	size += DurationMUS.Size(v.Duration)
	return size + raw.TimeUnixMicro.Size(v.CompletedAt)
}

func (s stageResultMUS) Skip(bs []byte) (n int, err error) {
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = StageStatusMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.ByteSlice.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = DurationMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	return
}

var StageAttemptMUS = stageAttemptMUS{}

type stageAttemptMUS struct{}

func (s stageAttemptMUS) Marshal(v StageAttempt, bs []byte) (n int) {
	n = ord.String.Marshal(v.Stage, bs)
	n += varint.Int.Marshal(v.Attempt, bs[n:])
	n += StageStatusMUS.Marshal(v.Status, bs[n:])
	n += ord.String.Marshal(v.ErrorDetail, bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.StartedAt, bs[n:])
	return n + DurationMUS.Marshal(v.Duration, bs[n:])
}

func (s stageAttemptMUS) Unmarshal(bs []byte) (v StageAttempt, n int, err error) {
	v.Stage, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Attempt, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Status, n1, err = StageStatusMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.ErrorDetail, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.StartedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Duration, n1, err = DurationMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (s stageAttemptMUS) Size(v StageAttempt) (size int) {
	size = ord.String.Size(v.Stage)
	size += varint.Int.Size(v.Attempt)
	size += StageStatusMUS.Size(v.Status)
	size += ord.String.Size(v.ErrorDetail)
	size += raw.TimeUnixMicro.Size(v.StartedAt)
	return size + DurationMUS.Size(v.Duration)
}

func (s stageAttemptMUS) Skip(bs []byte) (n int, err error) {
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = StageStatusMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = DurationMUS.Skip(bs[n:])
	n += n1
	return
}

var JobMUS = jobMUS{}

type jobMUS struct{}

func (s jobMUS) Marshal(v Job, bs []byte) (n int) {
	n = ord.String.Marshal(v.Id, bs)
	n += IDMUS.Marshal(v.DocumentId, bs[n:])
	n += ord.String.Marshal(v.Pipeline, bs[n:])
	n += JobStatusMUS.Marshal(v.Status, bs[n:])
	n += mapIjΔLuRM6tElXXdMc9U9b1AΞΞ.Marshal(v.Results, bs[n:])
	n += varint.Int.Marshal(v.Progress, bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.CreatedAt, bs[n:])
	return n + raw.TimeUnixMicro.Marshal(v.CompletedAt, bs[n:])
}

func (s jobMUS) Unmarshal(bs []byte) (v Job, n int, err error) {
	v.Id, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.DocumentId, n1, err = IDMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Pipeline, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Status, n1, err = JobStatusMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Results, n1, err = mapIjΔLuRM6tElXXdMc9U9b1AΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Progress, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.CreatedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.CompletedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return
}

func (s jobMUS) Size(v Job) (size int) {
	size = ord.String.Size(v.Id)
	size += IDMUS.Size(v.DocumentId)
	size += ord.String.Size(v.Pipeline)
	size += JobStatusMUS.Size(v.Status)
	size += mapIjΔLuRM6tElXXdMc9U9b1AΞΞ.Size(v.Results)
	size += varint.Int.Size(v.Progress)
	size += raw.TimeUnixMicro.Size(v.CreatedAt)
	return size + raw.TimeUnixMicro.Size(v.CompletedAt)
}

func (s jobMUS) Skip(bs []byte) (n int, err error) {
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = IDMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = JobStatusMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = mapIjΔLuRM6tElXXdMc9U9b1AΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	return
}
