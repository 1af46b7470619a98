package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestRequestIDMiddleware_GeneratesID(t *testing.T) {
	mw := NewRequestIDMiddleware()

	var gotID string
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := RequestIDFromContext(r.Context())
		if err != nil {
			t.Errorf("RequestIDFromContext failed: %v", err)
		}
		gotID = id
	}))

	req := httptest.NewRequest(http.MethodGet, "/ideas", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if gotID == "" {
		t.Fatal("expected generated request id")
	}
	if _, err := uuid.Parse(gotID); err != nil {
		t.Errorf("request id %q is not a UUID: %v", gotID, err)
	}
	if header := w.Result().Header.Get(RequestIDHeader); header != gotID {
		t.Errorf("response header = %q, want %q", header, gotID)
	}
}

func TestRequestIDMiddleware_PreservesClientID(t *testing.T) {
	mw := NewRequestIDMiddleware()

	var gotID string
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/ideas", nil)
	req.Header.Set(RequestIDHeader, "client-supplied-id")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if gotID != "client-supplied-id" {
		t.Errorf("request id = %q, want %q", gotID, "client-supplied-id")
	}
}

func TestRequestIDFromContext_MissingID_ReturnsError(t *testing.T) {
	_, err := RequestIDFromContext(context.Background())
	if err != ErrNoRequestID {
		t.Errorf("err = %v, want ErrNoRequestID", err)
	}
}
