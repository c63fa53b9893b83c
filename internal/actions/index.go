package actions

import (
	"context"
	"fmt"
	"net/http"

	"apibench/internal/core"

	"github.com/tidwall/gjson"
)

// scratchIndex is the index the benchmark writes into; created during
// setup, one small document indexed per repetition.
const scratchIndex = "apibench-test"

var (
	scratchIndexSettings = []byte(`{"settings":{"number_of_shards":1,"number_of_replicas":0}}`)
	indexDocument        = []byte(`{"title":"apibench","tags":["bench","http"],"published":true,"counter":1}`)
)

// Index measures single-document indexing throughput against a scratch
// index created once during setup.
func Index() core.Action {
	return core.Action{
		Name:        "index",
		Warmups:     10,
		Repetitions: 10000,
		Operations:  1,
		Op:          indexOp{},
	}
}

type indexOp struct{}

func (indexOp) Setup(ctx context.Context, t core.Transport) error {
	resp, err := t.Send(ctx, http.MethodPut, "/"+scratchIndex, jsonHeaders(), nil, scratchIndexSettings)
	if err != nil {
		return err
	}
	if err := resp.ErrorForStatus(); err != nil {
		return err
	}
	// The create call can answer 200 with acknowledged=false when the
	// cluster times out internally; a half-created index would skew
	// every subsequent measurement.
	if !gjson.GetBytes(resp.Body(), "acknowledged").Bool() {
		return fmt.Errorf("create index %s: not acknowledged", scratchIndex)
	}
	return nil
}

func (indexOp) Measure(ctx context.Context, i int, t core.Transport) (core.Response, error) {
	return t.Send(ctx, http.MethodPost, "/"+scratchIndex+"/_doc", jsonHeaders(), nil, indexDocument)
}

func jsonHeaders() http.Header {
	return http.Header{"Content-Type": []string{"application/json"}}
}
