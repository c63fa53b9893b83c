// Package report publishes benchmark records to the results endpoint.
// Publishing is best-effort from the harness's point of view: a failed
// publish is reported to the operator but never fails the run.
package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"apibench/internal/core"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

const resultsIndex = "benchmark-results"

// Sink bulk-indexes labeled records through the report-side transport.
type Sink struct {
	transport core.Transport
	runID     string
}

// NewSink wraps the report transport. All publishes from one Sink
// share a run id, so records from one benchmark pass group together
// downstream.
func NewSink(t core.Transport) *Sink {
	return &Sink{
		transport: t,
		runID:     uuid.NewString(),
	}
}

// RunID returns the identity shared by this sink's documents.
func (s *Sink) RunID() string { return s.runID }

// Publish bulk-indexes one document per record, labeled with the run
// metadata and the action's resolved category and environment. It
// fails on a transport error, a non-success bulk status, or a bulk
// acknowledgement reporting rejected documents.
func (s *Sink) Publish(ctx context.Context, meta Meta, action core.Action, category, environment string, records []core.Record) error {
	if len(records) == 0 {
		return nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, rec := range records {
		header := map[string]any{
			"index": map[string]any{
				"_index": resultsIndex,
				"_id":    uuid.NewString(),
			},
		}
		if err := enc.Encode(header); err != nil {
			return fmt.Errorf("encoding bulk header: %w", err)
		}
		if err := enc.Encode(newDocument(s.runID, meta, action, category, environment, rec)); err != nil {
			return fmt.Errorf("encoding record: %w", err)
		}
	}

	headers := http.Header{"Content-Type": []string{"application/x-ndjson"}}
	resp, err := s.transport.Send(ctx, http.MethodPost, "/_bulk", headers, nil, buf.Bytes())
	if err != nil {
		return err
	}
	if err := resp.ErrorForStatus(); err != nil {
		return err
	}

	body := resp.Body()
	if !gjson.GetBytes(body, "errors").Bool() {
		return nil
	}
	var rejected int
	gjson.GetBytes(body, "items").ForEach(func(_, item gjson.Result) bool {
		if item.Get("index.status").Int() >= 300 {
			rejected++
		}
		return true
	})
	return fmt.Errorf("bulk publish: %d of %d documents rejected", rejected, len(records))
}
