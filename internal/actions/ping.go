package actions

import (
	"context"
	"net/http"

	"apibench/internal/core"
)

// Ping measures the cheapest round trip the target offers: a GET
// against its root endpoint.
func Ping() core.Action {
	return core.Action{
		Name:        "ping",
		Warmups:     10,
		Repetitions: 10000,
		Op:          pingOp{},
	}
}

type pingOp struct{}

func (pingOp) Setup(ctx context.Context, t core.Transport) error { return nil }

func (pingOp) Measure(ctx context.Context, i int, t core.Transport) (core.Response, error) {
	return t.Send(ctx, http.MethodGet, "/", nil, nil, nil)
}
