package notifications_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"reclockd/internal/notifications"
	"reclockd/internal/testsupport"
)

func TestNewServiceReturnsNoopWhenURLMissing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	svc := notifications.NewService(cfg)
	err := svc.NotifyLeaderAcquired(context.Background(), notifications.Event{Node: "node1"})
	if err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestHTTPServicePostsLeadershipEvent(t *testing.T) {
	var got notifications.Event
	var contentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t, testsupport.WithNotifyURL(server.URL))
	svc := notifications.NewService(cfg)
	event := notifications.Event{Node: "node1", Volume: "ctdb_shared", ReclockPath: ".CTDB-lockfile", Pid: 4242}
	if err := svc.NotifyLeaderAcquired(context.Background(), event); err != nil {
		t.Fatalf("NotifyLeaderAcquired returned error: %v", err)
	}

	if contentType != "application/json" {
		t.Fatalf("unexpected content type %q", contentType)
	}
	if got.Node != "node1" || got.Volume != "ctdb_shared" || got.Pid != 4242 {
		t.Fatalf("unexpected event payload: %+v", got)
	}
	if got.AcquiredAt == "" {
		t.Fatal("expected acquisition timestamp to be filled in")
	}
}

func TestHTTPServiceReportsEndpointFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "queue full", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t, testsupport.WithNotifyURL(server.URL))
	svc := notifications.NewService(cfg)
	err := svc.NotifyLeaderAcquired(context.Background(), notifications.Event{Node: "node1"})
	if err == nil {
		t.Fatal("expected error for 503 response")
	}
}

func TestFireAndForgetSwallowsFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithNotifyURL("http://127.0.0.1:1/unreachable"))
	svc := notifications.NewService(cfg)

	// Must not panic or propagate anything.
	notifications.FireAndForget(context.Background(), svc, testsupport.Logger(t), notifications.Event{Node: "node1"})
}
