package collectors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const encodedBody = "dHJvamFuOi8vcHdAYS5leGFtcGxlOjQ0MyNhCnNzOi8vWVdWekxUSTFOaTFuWTIwNmNIY0AxLjIuMy40OjgzODgjYgo="

var wantLinks = []string{
	"trojan://pw@a.example:443#a",
	"ss://YWVzLTI1Ni1nY206cHc@1.2.3.4:8388#b",
}

func TestLinksFromBodyPlain(t *testing.T) {
	body := "trojan://pw@a.example:443#a\r\nss://YWVzLTI1Ni1nY206cHc@1.2.3.4:8388#b\n"
	assert.Equal(t, wantLinks, LinksFromBody(body))
}

func TestLinksFromBodyBase64(t *testing.T) {
	assert.Equal(t, wantLinks, LinksFromBody(encodedBody))

	// some providers wrap the encoded list
	wrapped := encodedBody[:40] + "\n" + encodedBody[40:]
	assert.Equal(t, wantLinks, LinksFromBody(wrapped))
}

func TestLinksFromBodyGarbage(t *testing.T) {
	assert.Empty(t, LinksFromBody("<html>not found</html>"))
}

type stubCollector struct{}

func (stubCollector) Collect(context.Context, map[string]interface{}) ([]string, error) {
	return []string{"x"}, nil
}

func TestRegistry(t *testing.T) {
	Register("stub", func() Collector { return stubCollector{} })

	c, err := Get("stub")
	require.NoError(t, err)
	links, err := c.Collect(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, links)
	assert.Contains(t, Names(), "stub")

	_, err = Get("missing")
	assert.Error(t, err)
}
