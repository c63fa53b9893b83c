package testserver

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tidwall/gjson"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewServer().Handler())
	t.Cleanup(srv.Close)
	return srv
}

func readBody(t *testing.T, resp *http.Response) []byte {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	return body
}

func TestPing(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	body := readBody(t, resp)

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	if gjson.GetBytes(body, "version.number").String() != "8.0.0" {
		t.Errorf("expected version in ping body, got %s", body)
	}
}

func TestCreateIndex(t *testing.T) {
	srv := newTestServer(t)

	req, _ := http.NewRequest(http.MethodPut, srv.URL+"/my-index", strings.NewReader(`{"settings":{}}`))
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	body := readBody(t, resp)

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	if !gjson.GetBytes(body, "acknowledged").Bool() {
		t.Errorf("expected acknowledged=true, got %s", body)
	}
	if gjson.GetBytes(body, "index").String() != "my-index" {
		t.Errorf("expected index name echoed, got %s", body)
	}
}

func TestCreateIndex_ForcedRefusal(t *testing.T) {
	srv := newTestServer(t)

	req, _ := http.NewRequest(http.MethodPut, srv.URL+"/my-index?ack=false", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	body := readBody(t, resp)

	if gjson.GetBytes(body, "acknowledged").Bool() {
		t.Errorf("expected acknowledged=false, got %s", body)
	}
}

func TestIndexDoc(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/my-index/_doc", "application/json", strings.NewReader(`{"title":"doc"}`))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	body := readBody(t, resp)

	if resp.StatusCode != http.StatusCreated {
		t.Errorf("expected 201, got %d", resp.StatusCode)
	}
	if gjson.GetBytes(body, "result").String() != "created" {
		t.Errorf("expected result=created, got %s", body)
	}
	if gjson.GetBytes(body, "_id").String() == "" {
		t.Errorf("expected an assigned id, got %s", body)
	}
}

func TestIndexDoc_AssignsIncrementingIDs(t *testing.T) {
	srv := newTestServer(t)

	first, err := http.Post(srv.URL+"/my-index/_doc", "application/json", strings.NewReader(`{}`))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	second, err := http.Post(srv.URL+"/my-index/_doc", "application/json", strings.NewReader(`{}`))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	firstID := gjson.GetBytes(readBody(t, first), "_id").String()
	secondID := gjson.GetBytes(readBody(t, second), "_id").String()
	if firstID == secondID {
		t.Errorf("expected distinct ids, got %q twice", firstID)
	}
}

func TestBulk(t *testing.T) {
	srv := newTestServer(t)

	bulk := `{"index":{"_index":"benchmark-results","_id":"a"}}
{"action":"ping","duration_ns":100}
{"index":{"_index":"benchmark-results","_id":"b"}}
{"action":"ping","duration_ns":200}
`
	resp, err := http.Post(srv.URL+"/_bulk", "application/x-ndjson", strings.NewReader(bulk))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	body := readBody(t, resp)

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	if gjson.GetBytes(body, "errors").Bool() {
		t.Errorf("expected errors=false, got %s", body)
	}
	if n := gjson.GetBytes(body, "items.#").Int(); n != 2 {
		t.Errorf("expected 2 items, got %d", n)
	}
}

func TestBulk_ForcedErrors(t *testing.T) {
	srv := newTestServer(t)

	bulk := "{\"index\":{}}\n{\"a\":1}\n"
	resp, err := http.Post(srv.URL+"/_bulk?errors=true", "application/x-ndjson", strings.NewReader(bulk))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	body := readBody(t, resp)

	if !gjson.GetBytes(body, "errors").Bool() {
		t.Errorf("expected errors=true, got %s", body)
	}
	if st := gjson.GetBytes(body, "items.0.index.status").Int(); st < 300 {
		t.Errorf("expected rejection status, got %d", st)
	}
}

func TestBulk_RequiresPost(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/_bulk")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", resp.StatusCode)
	}
}

func TestStatus(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		path     string
		expected int
	}{
		{"/status/200", 200},
		{"/status/404", 404},
		{"/status/503", 503},
	}

	for _, tt := range tests {
		resp, err := http.Get(srv.URL + tt.path)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != tt.expected {
			t.Errorf("%s: expected %d, got %d", tt.path, tt.expected, resp.StatusCode)
		}
	}
}

func TestStatus_Invalid(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/status/abc")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestDelay(t *testing.T) {
	srv := newTestServer(t)

	start := time.Now()
	resp, err := http.Get(srv.URL + "/delay/50")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	elapsed := time.Since(start)

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	if elapsed < 50*time.Millisecond {
		t.Errorf("expected at least 50ms delay, got %v", elapsed)
	}
}

func TestUnknownPath(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/no/such/endpoint")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}
