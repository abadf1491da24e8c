package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"raycompile/internal/logger"
	"raycompile/internal/model"
	"raycompile/internal/publishers"
)

// Publisher commits the subscription to a file in a GitHub repository
// through the contents API.
type Publisher struct{}

type githubFileRequest struct {
	Message string `json:"message"`
	Content string `json:"content"` // Base64 encoded content
	Sha     string `json:"sha,omitempty"`
	Branch  string `json:"branch,omitempty"`
}

type githubFileResponse struct {
	Sha string `json:"sha"`
}

type target struct {
	client  *http.Client
	apiURL  string
	token   string
	branch  string
	retries int
}

func (p *Publisher) Publish(ctx context.Context, profiles []model.Profile, config map[string]interface{}) error {
	payload, err := publishers.GenerateSubscriptionPayload(profiles, config)
	if err != nil {
		return err
	}

	token, _ := config["token"].(string)
	owner, _ := config["owner"].(string)
	repo, _ := config["repo"].(string)
	path, _ := config["path"].(string)
	msg, _ := config["message"].(string)
	if token == "" || owner == "" || repo == "" || path == "" {
		return fmt.Errorf("github publisher requires token, owner, repo, and path")
	}
	if msg == "" {
		msg = "Update proxy subscription [raycompile]"
	}

	apiBase, _ := config["api_url"].(string)
	if apiBase == "" {
		apiBase = "https://api.github.com"
	}

	t := target{
		client: &http.Client{Timeout: 30 * time.Second},
		apiURL: fmt.Sprintf("%s/repos/%s/%s/contents/%s",
			strings.TrimRight(apiBase, "/"), owner, repo, strings.TrimPrefix(path, "/")),
		token: token,
	}
	t.branch, _ = config["branch"].(string)
	t.retries, _ = config["retries"].(int)

	if proxyStr, ok := config["_proxy_url"].(string); ok && proxyStr != "" {
		if u, err := url.Parse(proxyStr); err == nil {
			t.client.Transport = &http.Transport{Proxy: http.ProxyURL(u)}
			logger.Log.Debugf("GitHub publisher using proxy: %s", proxyStr)
		}
	}

	sha, err := t.currentSha(ctx)
	if err != nil {
		return err
	}

	body, _ := json.Marshal(githubFileRequest{
		Message: msg,
		Content: base64.StdEncoding.EncodeToString([]byte(payload)),
		Sha:     sha,
		Branch:  t.branch,
	})
	return t.upload(ctx, body)
}

func (t *target) newRequest(ctx context.Context, method string, body []byte) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, t.apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+t.token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// do runs the request until accept returns true or retries are exhausted.
func (t *target) do(ctx context.Context, method string, body []byte, accept func(int) bool) (*http.Response, error) {
	var lastErr error
	for i := 0; i <= t.retries; i++ {
		req, err := t.newRequest(ctx, method, body)
		if err != nil {
			return nil, err
		}
		if method == http.MethodGet && t.branch != "" {
			q := req.URL.Query()
			q.Set("ref", t.branch)
			req.URL.RawQuery = q.Encode()
		}

		logger.Log.Debugf("GitHub: %s %s (attempt %d/%d)", method, t.apiURL, i+1, t.retries+1)
		resp, err := t.client.Do(req)
		if err == nil && accept(resp.StatusCode) {
			return resp, nil
		}
		if err == nil {
			msg, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			err = fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
		}
		lastErr = err

		if i < t.retries {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Second):
			}
		}
	}
	return nil, lastErr
}

// currentSha returns the blob sha of the existing file, or "" if absent.
func (t *target) currentSha(ctx context.Context) (string, error) {
	resp, err := t.do(ctx, http.MethodGet, nil, func(code int) bool {
		return code == http.StatusOK || code == http.StatusNotFound
	})
	if err != nil {
		return "", fmt.Errorf("github fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		logger.Log.Debugf("GitHub: file not found, creating new")
		return "", nil
	}

	var existing githubFileResponse
	if err := json.NewDecoder(resp.Body).Decode(&existing); err != nil {
		return "", fmt.Errorf("failed to parse github response: %w", err)
	}
	logger.Log.Debugf("GitHub: file exists (sha %s), updating", existing.Sha)
	return existing.Sha, nil
}

func (t *target) upload(ctx context.Context, body []byte) error {
	resp, err := t.do(ctx, http.MethodPut, body, func(code int) bool {
		return code >= 200 && code < 300
	})
	if err != nil {
		return fmt.Errorf("github upload failed: %w", err)
	}
	resp.Body.Close()
	return nil
}

func init() {
	publishers.Register("github", func() publishers.Publisher { return &Publisher{} })
}
