package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectBase64Subscription(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("dHJvamFuOi8vcHdAYS5leGFtcGxlOjQ0MyNhCnNzOi8vWVdWekxUSTFOaTFuWTIwNmNIY0AxLjIuMy40OjgzODgjYgo="))
	}))
	defer srv.Close()

	links, err := (&URLCollector{}).Collect(context.Background(), map[string]interface{}{
		"url":        srv.URL,
		"timeout":    5,
		"user_agent": "v2rayN/6.0",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"trojan://pw@a.example:443#a",
		"ss://YWVzLTI1Ni1nY206cHc@1.2.3.4:8388#b",
	}, links)
	assert.Equal(t, "v2rayN/6.0", gotUA)
}

func TestCollectNonOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	_, err := (&URLCollector{}).Collect(context.Background(), map[string]interface{}{"url": srv.URL})
	assert.ErrorContains(t, err, "410")
}

func TestCollectRequiresURL(t *testing.T) {
	_, err := (&URLCollector{}).Collect(context.Background(), map[string]interface{}{})
	assert.Error(t, err)
}

func TestCollectHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := (&URLCollector{}).Collect(ctx, map[string]interface{}{"url": srv.URL})
	assert.Error(t, err)
}
