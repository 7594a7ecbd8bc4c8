package httpfetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/streamcore/playback/internal/domain"
)

func TestFetchSucceedsOnOKResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("some bytes of video data"))
	}))
	defer srv.Close()

	f := New(1000, 8)
	if err := f.Fetch(context.Background(), domain.Uri(srv.URL)); err != nil {
		t.Fatalf("Fetch() error = %v, want nil", err)
	}
}

func TestFetchSendsRangeHeaderWhenConfigured(t *testing.T) {
	var gotRange string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRange = r.Header.Get("Range")
		w.Write([]byte("data"))
	}))
	defer srv.Close()

	f := New(1000, 16)
	if err := f.Fetch(context.Background(), domain.Uri(srv.URL)); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if gotRange != "bytes=0-15" {
		t.Fatalf("Range header = %q, want %q", gotRange, "bytes=0-15")
	}
}

func TestFetchReturnsErrorOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := New(1000, 0)
	if err := f.Fetch(context.Background(), domain.Uri(srv.URL)); err == nil {
		t.Fatal("expected an error for a 500 response")
	}
}

func TestFetchRespectsContextCancellation(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	f := New(1000, 0)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := f.Fetch(ctx, domain.Uri(srv.URL)); err == nil {
		t.Fatal("expected a context deadline error")
	}
}
