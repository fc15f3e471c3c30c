package metrics

import (
	"context"
	"time"

	"github.com/karbonfx/leadform/internal/airtable"
	"github.com/karbonfx/leadform/internal/form"
)

// instrumentedUpserter decorates a record store client with write metrics.
type instrumentedUpserter struct {
	next form.Upserter
}

// WrapUpserter returns an Upserter that records operation durations.
func WrapUpserter(next form.Upserter) form.Upserter {
	return &instrumentedUpserter{next: next}
}

func (u *instrumentedUpserter) Upsert(ctx context.Context, fields map[string]string, recordID string) (*airtable.UpsertResult, error) {
	operation := "create"
	if recordID != "" {
		operation = "update"
	}

	start := time.Now()
	result, err := u.next.Upsert(ctx, fields, recordID)
	RecordUpsertDuration(operation, time.Since(start))

	return result, err
}
