package browser

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//integration test: run against a real browser (requires playwright install)
func TestDriver_Fetch_Real(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	driver, err := NewDriver(Options{
		Headless:    true,
		MaxScrolls:  1,
		ScrollPause: 100 * time.Millisecond,
	})
	require.NoError(t, err)
	defer driver.Close()

	html, err := driver.Fetch(context.Background(),
		"data:text/html,<html><body><main><p>hello</p></main></body></html>")
	require.NoError(t, err)
	assert.Contains(t, html, "hello")

	//a second page on the same driver still works
	html, err = driver.Fetch(context.Background(),
		"data:text/html,<html><body><main><p>again</p></main></body></html>")
	require.NoError(t, err)
	assert.Contains(t, html, "again")

	require.NoError(t, driver.Close())
	assert.NoError(t, driver.Close(), "close is idempotent")
}
