// Package client provides the HTTP client side of the dual-token session
// protocol: it attaches the cached access token to outgoing requests and,
// when one expires, refreshes it transparently without ever issuing more
// than one refresh call at a time.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"sync"
)

type refreshResult struct {
	accessToken string
	err         error
}

// Coordinator owns the refresh state explicitly, so separate coordinators
// (one per test, one per app) never share it. The zero value is not usable;
// construct with New.
//
// Concurrency contract: under N requests racing against one expired access
// token, exactly one refresh round-trip reaches the server. The first caller
// to observe the 401 flips refreshing before any network call; everyone else
// queues and is released in FIFO order with the outcome of that single call.
type Coordinator struct {
	http       *http.Client
	baseURL    string
	onAuthLost func()

	mu          sync.Mutex
	accessToken string
	refreshing  bool
	queue       []chan refreshResult
}

// New builds a coordinator around httpClient. The client must carry a cookie
// jar so the HttpOnly refresh cookie set at login flows back to the refresh
// endpoint; one is installed when the client has none. onAuthLost is invoked
// after a terminal refresh failure, once per failed refresh round-trip.
func New(baseURL string, httpClient *http.Client, onAuthLost func()) *Coordinator {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if httpClient.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err == nil {
			httpClient.Jar = jar
		}
	}

	return &Coordinator{
		http:       httpClient,
		baseURL:    baseURL,
		onAuthLost: onAuthLost,
	}
}

// SetCredentials caches the access token attached to subsequent requests.
// Called after a successful login.
func (c *Coordinator) SetCredentials(accessToken string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = accessToken
}

func (c *Coordinator) ClearCredentials() {
	c.SetCredentials("")
}

func (c *Coordinator) AccessToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken
}

// Do sends the request with the cached access token. On a 401 it performs
// (or joins) one refresh round-trip and retries the request once with the
// new token; a second 401 is returned to the caller as-is. Any non-401
// response and any transport error propagate immediately.
func (c *Coordinator) Do(req *http.Request) (*http.Response, error) {
	resp, err := c.send(req, c.AccessToken())
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}

	drain(resp)

	accessToken, err := c.refreshAccessToken(req.Context())
	if err != nil {
		return nil, err
	}

	return c.send(req, accessToken)
}

// send issues a fresh clone so the request stays replayable. Requests built
// via http.NewRequest with a byte-backed body carry GetBody and can be
// retried; others can only be sent while their body is unread.
func (c *Coordinator) send(req *http.Request, accessToken string) (*http.Response, error) {
	clone := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, fmt.Errorf("replay request body: %w", err)
		}
		clone.Body = body
	}

	if accessToken != "" {
		clone.Header.Set("Authorization", "Bearer "+accessToken)
	}

	return c.http.Do(clone)
}

// refreshAccessToken serializes concurrent refresh attempts. The refreshing
// flag is flipped under the lock before the network call starts, closing the
// window where two callers could both see it unset.
func (c *Coordinator) refreshAccessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.refreshing {
		wait := make(chan refreshResult, 1)
		c.queue = append(c.queue, wait)
		c.mu.Unlock()

		// No independent timeout here: queued callers resolve when the
		// in-flight refresh does.
		result := <-wait
		return result.accessToken, result.err
	}
	c.refreshing = true
	c.mu.Unlock()

	accessToken, err := c.callRefresh(ctx)

	c.mu.Lock()
	waiters := c.queue
	c.queue = nil
	c.refreshing = false
	if err != nil {
		c.accessToken = ""
	} else {
		c.accessToken = accessToken
	}
	c.mu.Unlock()

	for _, wait := range waiters {
		wait <- refreshResult{accessToken: accessToken, err: err}
	}

	if err != nil && c.onAuthLost != nil {
		c.onAuthLost()
	}

	return accessToken, err
}

func (c *Coordinator) callRefresh(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/refresh-token", nil)
	if err != nil {
		return "", err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("refresh token: %w", err)
	}
	defer drain(resp)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("refresh token: unexpected status %d", resp.StatusCode)
	}

	var body struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode refresh response: %w", err)
	}
	if body.AccessToken == "" {
		return "", fmt.Errorf("refresh response missing access token")
	}

	return body.AccessToken, nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
