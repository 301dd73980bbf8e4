package fixture

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, srv *httptest.Server, path string) (int, string) {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestPageRendersContract(t *testing.T) {
	srv := httptest.NewServer(Handler(Options{}))
	defer srv.Close()

	status, body := get(t, srv, "/test-fridge-list")
	require.Equal(t, http.StatusOK, status)

	assert.Contains(t, body, "새 냉장고 추가")
	assert.Contains(t, body, `placeholder="예: 김치냉장고"`)
	assert.Contains(t, body, "추가하기")
	for _, f := range DefaultFridges() {
		assert.Contains(t, body, f.Name)
	}
	assert.Regexp(t, `skipDuplicateCheck =\s*false`, body)
	assert.NotContains(t, body, "fetch('/hang')")
}

func TestPageOptions(t *testing.T) {
	srv := httptest.NewServer(Handler(Options{
		Fridges:            []Fridge{{ID: "9", Name: `Bob's "Cold" Box`, Type: "fridge"}},
		AlertOnAdd:         true,
		SkipDuplicateCheck: true,
		HangingRequest:     true,
	}))
	defer srv.Close()

	_, body := get(t, srv, "/test-fridge-list")
	assert.Regexp(t, `alertOnAdd =\s*true`, body)
	assert.Regexp(t, `skipDuplicateCheck =\s*true`, body)
	assert.Contains(t, body, "fetch('/hang')")
	assert.NotContains(t, body, "Main Fridge")
	// html context is escaped
	assert.Contains(t, body, "Bob&#39;s &#34;Cold&#34; Box")
}

func TestHealthz(t *testing.T) {
	srv := httptest.NewServer(Handler(Options{}))
	defer srv.Close()

	status, body := get(t, srv, "/healthz")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body)
}

func TestHangRespectsLimit(t *testing.T) {
	srv := httptest.NewServer(Handler(Options{HangLimit: 50 * time.Millisecond}))
	defer srv.Close()

	start := time.Now()
	status, _ := get(t, srv, "/hang")
	assert.Equal(t, http.StatusNoContent, status)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestServeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ready := make(chan string, 1)
	done := make(chan error, 1)

	go func() {
		done <- Serve(ctx, "127.0.0.1:0", Options{}, ready)
	}()

	addr := <-ready
	resp, err := http.Get("http://" + addr + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
