package ollama

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/huvtsp/alumni/internal/config"
)

// idleCounter counts CloseIdleConnections calls and fails every request.
type idleCounter struct{ closes int32 }

func (t *idleCounter) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, errors.New("no network in tests")
}
func (t *idleCounter) CloseIdleConnections() { atomic.AddInt32(&t.closes, 1) }

func TestClose(t *testing.T) {
	tr := &idleCounter{}
	c, err := NewClient(config.OllamaConfig{BaseURL: "http://localhost:11434", Timeout: 1}, &http.Client{Transport: tr})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := c.Close(); err != nil {
			t.Fatalf("Close #%d: %v", i+1, err)
		}
	}
	if got := atomic.LoadInt32(&tr.closes); got != 1 {
		t.Fatalf("CloseIdleConnections called %d times, want 1", got)
	}

	if _, err := c.Embed(context.Background(), "m", "python"); !errors.Is(err, ErrClosed) {
		t.Fatalf("Embed after Close: got %v, want ErrClosed", err)
	}
}

func TestClose_NilClient(t *testing.T) {
	var c *Client
	if err := c.Close(); err != nil {
		t.Fatalf("nil Close: %v", err)
	}
}
