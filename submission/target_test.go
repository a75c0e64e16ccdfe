package submission

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"courtflow/order"
)

func TestHTTPTarget_PostsOrderPayload(t *testing.T) {
	var received submitPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected json content type, got %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	target := NewHTTPTarget(srv.URL)
	err := target.Submit(context.Background(), order.Order{
		ID:                 "o-1",
		CourtFileID:        "F-1",
		JudgeID:            "J-1",
		ReferredDocumentID: "DOC-1",
		ReviewStatus:       order.ReviewApproved,
		Signed:             true,
		DocumentPayload:    []byte("%PDF-1.7"),
	})
	if err != nil {
		t.Fatalf("submit: unexpected error: %v", err)
	}

	if received.OrderID != "o-1" || received.ReviewStatus != "approved" {
		t.Fatalf("unexpected payload %+v", received)
	}
	if string(received.Document) != "%PDF-1.7" {
		t.Fatal("expected document payload round-trip")
	}
}

func TestHTTPTarget_RejectionIncludesDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "document checksum mismatch", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	target := NewHTTPTarget(srv.URL)
	err := target.Submit(context.Background(), order.Order{ID: "o-1"})
	if err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}
