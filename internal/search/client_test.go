package search

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/abelbrown/cardscope/internal/card"
)

// newTestClient points a Client at srv with tiny backoffs.
func newTestClient(srv *httptest.Server, retries int) *Client {
	c := NewClient(ClientOptions{
		BaseURL:      srv.URL,
		Timeout:      5 * time.Second,
		RateInterval: time.Millisecond,
		MaxRetries:   retries,
	})
	c.backoffs = []time.Duration{time.Millisecond, time.Millisecond, time.Millisecond}
	return c
}

func TestClientSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("unexpected method: %s", r.Method)
		}
		if r.URL.Path != "/cards/search" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if q := r.URL.Query().Get("q"); q != "luke skywalker" {
			t.Errorf("unexpected query: %q", q)
		}
		if accept := r.Header.Get("Accept"); accept != "application/json" {
			t.Errorf("unexpected accept: %s", accept)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"total_cards":2,"data":[
			{"Set":"SOR","Number":"001","Name":"Luke","Cost":"0"},
			{"Set":"SOR","Number":"002","Name":"Leia","Cost":"3","Power":"2"}]}`))
	}))
	defer server.Close()

	c := newTestClient(server, 0)
	res, err := c.Search(context.Background(), "luke skywalker")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Total != 2 {
		t.Errorf("Total = %d, want 2", res.Total)
	}

	raws := res.Records()
	if len(raws) != 2 {
		t.Fatalf("len(Records) = %d, want 2", len(raws))
	}
	if raws[1].Name != "Leia" || raws[1].Cost != 3 || raws[1].Power != 2 {
		t.Errorf("unexpected second record: %+v", raws[1])
	}
}

func TestClientNonArrayData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"message":"no cards"}}`))
	}))
	defer server.Close()

	res, err := newTestClient(server, 0).Search(context.Background(), "zzz")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if got := res.Records(); got == nil || len(got) != 0 {
		t.Errorf("Records() = %#v, want empty slice", got)
	}
}

func TestClientRetriesOnServerError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"data":[{"Name":"Yoda"}]}`))
	}))
	defer server.Close()

	res, err := newTestClient(server, 3).Search(context.Background(), "yoda")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
	if raws := res.Records(); len(raws) != 1 || raws[0].Name != "Yoda" {
		t.Errorf("unexpected records: %+v", raws)
	}
}

func TestClientRetriesExhausted(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Retry-After", "0")
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := newTestClient(server, 2).Search(context.Background(), "x")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "all retries exhausted") || !strings.Contains(err.Error(), "429") {
		t.Errorf("unexpected error: %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestClientNoRetryOnClientError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad query", http.StatusBadRequest)
	}))
	defer server.Close()

	_, err := newTestClient(server, 3).Search(context.Background(), "x")
	if err == nil || !strings.Contains(err.Error(), "status 400") {
		t.Fatalf("expected status 400 error, got %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestClientMalformedBodyRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"data":[`))
	}))
	defer server.Close()

	_, err := newTestClient(server, 1).Search(context.Background(), "x")
	if err == nil || !strings.Contains(err.Error(), "failed to parse response") {
		t.Fatalf("expected parse error, got %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
}

func TestClientContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := newTestClient(server, 0).Search(ctx, "x")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestWithTimeout(t *testing.T) {
	stuck := SearcherFunc(func(ctx context.Context, term string) (Result, error) {
		time.Sleep(200 * time.Millisecond) // ignores ctx on purpose
		return Result{}, nil
	})

	start := time.Now()
	_, err := WithTimeout(stuck, 20*time.Millisecond).Search(context.Background(), "x")
	if err == nil || !strings.Contains(err.Error(), "timed out") {
		t.Fatalf("expected timeout error, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 150*time.Millisecond {
		t.Errorf("timeout took %s, want well under the searcher's 200ms", elapsed)
	}
}

func TestWithTimeoutPassesThrough(t *testing.T) {
	want, _ := NewResult([]card.Raw{{Name: "Rey"}})
	fast := SearcherFunc(func(ctx context.Context, term string) (Result, error) {
		return want, nil
	})

	if got := WithTimeout(fast, 0); got == nil {
		t.Fatal("WithTimeout(0) returned nil")
	}

	res, err := WithTimeout(fast, time.Second).Search(context.Background(), "rey")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if raws := res.Records(); len(raws) != 1 || raws[0].Name != "Rey" {
		t.Errorf("unexpected records: %+v", raws)
	}
}

func TestNewResultNil(t *testing.T) {
	res, err := NewResult(nil)
	if err != nil {
		t.Fatalf("NewResult: %v", err)
	}
	if string(res.Data) != "[]" || res.Total != 0 {
		t.Errorf("NewResult(nil) = %s total=%d", res.Data, res.Total)
	}
}

func TestClientSharesInflightSearch(t *testing.T) {
	var hits atomic.Int32
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		<-release
		w.Write([]byte(`{"total_cards":1,"data":[{"Set":"SOR","Number":"005","Name":"Luke"}]}`))
	}))
	defer server.Close()

	c := newTestClient(server, 0)
	results := make(chan Result, 2)
	for i := 0; i < 2; i++ {
		go func() {
			res, err := c.Search(context.Background(), "luke")
			if err != nil {
				t.Errorf("Search: %v", err)
			}
			results <- res
		}()
	}

	deadline := time.Now().Add(2 * time.Second)
	for hits.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(50 * time.Millisecond) // let the second search join
	close(release)

	for i := 0; i < 2; i++ {
		res := <-results
		if raws := res.Records(); len(raws) != 1 || raws[0].Name != "Luke" {
			t.Errorf("unexpected records: %+v", raws)
		}
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("server hit %d times, want 1", got)
	}
}
