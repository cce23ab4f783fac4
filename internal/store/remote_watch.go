package store

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// watch opens a server-sent-events stream for one document path. The
// backend pushes the full current value as the first event; that one is
// delivered synchronously before watch returns, so subscribers start
// with a populated view. Later events arrive on a goroutine. The
// returned CancelFunc tears the stream down; it must run before a new
// identity opens its own watches.
func (c *RemoteClient) watch(ctx context.Context, path string, deliver func(json.RawMessage) error, onErr func(error)) (CancelFunc, error) {
	ctx, cancel := context.WithCancel(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/"+path+"/watch", nil)
	if err != nil {
		cancel()
		return nil, err
	}
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.watchClient.Do(req)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to open watch on %s: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		cancel()
		return nil, fmt.Errorf("watch on %s refused: %s", path, resp.Status)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	next := func() (json.RawMessage, bool) {
		for scanner.Scan() {
			line := scanner.Text()
			if !strings.HasPrefix(line, "data:") {
				continue
			}
			payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if payload != "" {
				return json.RawMessage(payload), true
			}
		}
		return nil, false
	}

	// First event is the current value; hand it over before returning.
	payload, ok := next()
	if !ok {
		resp.Body.Close()
		cancel()
		return nil, fmt.Errorf("watch on %s closed before first value", path)
	}
	if err := deliver(payload); err != nil {
		resp.Body.Close()
		cancel()
		return nil, fmt.Errorf("bad watch payload on %s: %w", path, err)
	}

	go func() {
		defer resp.Body.Close()

		for {
			payload, ok := next()
			if !ok {
				break
			}
			if err := deliver(payload); err != nil && onErr != nil {
				onErr(fmt.Errorf("bad watch payload on %s: %w", path, err))
			}
		}

		// Scanner exit is either cancellation or a dropped stream.
		if err := scanner.Err(); err != nil && ctx.Err() == nil && onErr != nil {
			onErr(fmt.Errorf("watch on %s closed: %w", path, err))
		}
	}()

	return func() { cancel() }, nil
}
