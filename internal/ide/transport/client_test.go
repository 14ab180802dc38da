package transport_test

import (
	"compress/gzip"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"ojide/internal/ide/transport"
	"ojide/internal/testutil"
)

func TestJSONSendsHeadersAndDecodes(t *testing.T) {
	var gotQuery, gotToken, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		gotToken = r.Header.Get("X-Auth-Token")
		buf, _ := io.ReadAll(r.Body)
		gotBody = string(buf)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token":"abc"}`))
	}))
	defer srv.Close()

	client := transport.New(srv.URL+"/", time.Second, map[string]string{"X-Auth-Token": "secret"})
	var out struct {
		Token string `json:"token"`
	}
	_, err := client.JSON(context.Background(), http.MethodPost, "/submissions",
		url.Values{"wait": {"false"}}, map[string]int{"language_id": 71}, &out)
	testutil.MustNoError(t, err)
	testutil.AssertEqual(t, out.Token, "abc")
	testutil.AssertEqual(t, gotQuery, "wait=false")
	testutil.AssertEqual(t, gotToken, "secret")
	testutil.AssertEqual(t, gotBody, `{"language_id":71}`)
}

func TestJSONNon2xxIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"language_id":["can't be blank"]}`))
	}))
	defer srv.Close()

	client := transport.New(srv.URL, time.Second, nil)
	_, err := client.JSON(context.Background(), http.MethodPost, "/submissions", nil, struct{}{}, nil)
	te, ok := transport.AsTransportError(err)
	if !ok {
		t.Fatalf("expected TransportError, got %v", err)
	}
	testutil.AssertEqual(t, te.StatusCode, http.StatusUnprocessableEntity)
	testutil.AssertEqual(t, te.StatusText(), "Unprocessable Entity")
	testutil.AssertEqual(t, string(te.Body), `{"language_id":["can't be blank"]}`)
}

func TestJSONMalformedBodyIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>oops</html>`))
	}))
	defer srv.Close()

	client := transport.New(srv.URL, time.Second, nil)
	var out map[string]interface{}
	_, err := client.JSON(context.Background(), http.MethodGet, "/", nil, nil, &out)
	te, ok := transport.AsTransportError(err)
	if !ok {
		t.Fatalf("expected TransportError, got %v", err)
	}
	testutil.AssertEqual(t, te.StatusCode, http.StatusOK)
	testutil.AssertEqual(t, te.StatusText(), "parsererror")
	testutil.AssertEqual(t, string(te.Body), "<html>oops</html>")
}

func TestNetworkFailureHasZeroStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := transport.New(srv.URL, time.Second, nil)
	_, err := client.JSON(context.Background(), http.MethodGet, "/", nil, nil, nil)
	te, ok := transport.AsTransportError(err)
	if !ok {
		t.Fatalf("expected TransportError, got %v", err)
	}
	testutil.AssertEqual(t, te.StatusCode, 0)
	testutil.AssertEqual(t, te.StatusText(), "error")
}

func TestCanceledContextUnwraps(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	client := transport.New(srv.URL, time.Second, nil)
	_, err := client.Do(ctx, http.MethodGet, "/", nil, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled in chain, got %v", err)
	}
}

func TestGzipResponseIsDecompressed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		_, _ = gz.Write([]byte(`{"stdout":"MQ=="}`))
		_ = gz.Close()
	}))
	defer srv.Close()

	client := transport.New(srv.URL, time.Second, nil)
	var out map[string]string
	_, err := client.JSON(context.Background(), http.MethodGet, "/", nil, nil, &out)
	testutil.MustNoError(t, err)
	testutil.AssertEqual(t, out["stdout"], "MQ==")
}
