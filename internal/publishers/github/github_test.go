package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"raycompile/internal/model"
	"raycompile/internal/publishers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishUpdatesExistingFile(t *testing.T) {
	var put githubFileRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/me/subs/contents/out/sub.txt", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		switch r.Method {
		case http.MethodGet:
			assert.Equal(t, "main", r.URL.Query().Get("ref"))
			_ = json.NewEncoder(w).Encode(githubFileResponse{Sha: "abc"})
		case http.MethodPut:
			require.NoError(t, json.NewDecoder(r.Body).Decode(&put))
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer srv.Close()

	p := model.NewProfile()
	p.Remark = "s"
	p.Protocol = model.ProtocolSocks
	p.Address = "1.2.3.4"
	p.Port = 1080

	err := (&Publisher{}).Publish(context.Background(), []model.Profile{*p}, map[string]interface{}{
		"api_url": srv.URL,
		"token":   "tok",
		"owner":   "me",
		"repo":    "subs",
		"path":    "/out/sub.txt",
		"branch":  "main",
	})
	require.NoError(t, err)

	assert.Equal(t, "abc", put.Sha)
	assert.Equal(t, "main", put.Branch)
	content, err := base64.StdEncoding.DecodeString(put.Content)
	require.NoError(t, err)
	want, err := publishers.GenerateSubscriptionPayload([]model.Profile{*p}, nil)
	require.NoError(t, err)
	assert.Equal(t, want, string(content))
}

func TestPublishCreatesMissingFile(t *testing.T) {
	var put githubFileRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&put)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	err := (&Publisher{}).Publish(context.Background(), nil, map[string]interface{}{
		"api_url": srv.URL, "token": "t", "owner": "o", "repo": "r", "path": "p",
	})
	require.NoError(t, err)
	assert.Empty(t, put.Sha)
}

func TestPublishRetriesThenFails(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		attempts++
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	err := (&Publisher{}).Publish(context.Background(), nil, map[string]interface{}{
		"api_url": srv.URL, "token": "t", "owner": "o", "repo": "r", "path": "p", "retries": 1,
	})
	assert.ErrorContains(t, err, "status 403")
	assert.Equal(t, 2, attempts)
}

func TestPublishRequiresSettings(t *testing.T) {
	err := (&Publisher{}).Publish(context.Background(), nil, map[string]interface{}{"token": "t"})
	assert.Error(t, err)
}
