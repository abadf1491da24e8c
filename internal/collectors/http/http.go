package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"raycompile/internal/collectors"
	"raycompile/internal/logger"
)

const defaultTimeout = 120 * time.Second

// URLCollector downloads a subscription URL.
type URLCollector struct{}

func (c *URLCollector) Collect(ctx context.Context, config map[string]interface{}) ([]string, error) {
	// 1. Get URL
	targetURL, _ := config["url"].(string)
	if targetURL == "" {
		return nil, fmt.Errorf("missing 'url' in collector config")
	}

	// 2. Setup Client
	timeout := defaultTimeout
	if secs, ok := config["timeout"].(int); ok && secs > 0 {
		timeout = time.Duration(secs) * time.Second
	}
	client := &http.Client{Timeout: timeout}

	// 3. Optional upstream proxy
	if proxyStr, ok := config["_proxy_url"].(string); ok && proxyStr != "" {
		pURL, err := url.Parse(proxyStr)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy url: %w", err)
		}
		client.Transport = &http.Transport{Proxy: http.ProxyURL(pURL)}
		logger.Log.Debugf("HTTP Collector using proxy: %s", proxyStr)
	}

	// 4. Fetch
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if ua, ok := config["user_agent"].(string); ok && ua != "" {
		req.Header.Set("User-Agent", ua)
	}

	logger.Log.Debugf("Fetching URL: %s", targetURL)
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch url: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("non-200 status code: %d", resp.StatusCode)
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}

	return collectors.LinksFromBody(string(bodyBytes)), nil
}

func init() {
	collectors.Register("http", func() collectors.Collector {
		return &URLCollector{}
	})
}
