package client

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

// authServer simulates the session endpoints: /data wants the fresh access
// token, /auth/refresh-token hands it out. The refresh handler can be gated
// so it does not resolve until a given number of stale requests got their
// 401, which pins down the interleaving the concurrency tests need.
type authServer struct {
	*httptest.Server
	refreshCalls   atomic.Int64
	staleSeen      atomic.Int64
	refreshGate    chan struct{}
	gateAfter      int64
	gateOnce       sync.Once
	refreshStatus  int
	freshToken     string
	protectedCalls atomic.Int64
}

func newAuthServer(t *testing.T, gateAfter int64, refreshStatus int) *authServer {
	t.Helper()

	s := &authServer{
		refreshGate:   make(chan struct{}),
		gateAfter:     gateAfter,
		refreshStatus: refreshStatus,
		freshToken:    "fresh-token",
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		s.refreshCalls.Add(1)
		<-s.refreshGate
		if s.refreshStatus != http.StatusOK {
			w.WriteHeader(s.refreshStatus)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"accessToken":"` + s.freshToken + `"}`))
	})
	mux.HandleFunc("/data", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		s.protectedCalls.Add(1)
		if r.Header.Get("Authorization") != "Bearer "+s.freshToken {
			if s.staleSeen.Add(1) >= s.gateAfter {
				s.gateOnce.Do(func() { close(s.refreshGate) })
			}
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte("ok"))
	})

	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

func TestConcurrentRequestsShareOneRefresh(t *testing.T) {
	t.Parallel()

	const workers = 5
	server := newAuthServer(t, workers, http.StatusOK)

	coordinator := New(server.URL, nil, nil)
	coordinator.SetCredentials("stale-token")

	var wg sync.WaitGroup
	statuses := make([]int, workers)
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()

			req, err := http.NewRequest(http.MethodGet, server.URL+"/data", nil)
			if err != nil {
				errs[i] = err
				return
			}

			resp, err := coordinator.Do(req)
			if err != nil {
				errs[i] = err
				return
			}
			defer resp.Body.Close()
			statuses[i] = resp.StatusCode
		}()
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		require.Equal(t, http.StatusOK, statuses[i], "request %d must be replayed with the new token", i)
	}

	require.EqualValues(t, 1, server.refreshCalls.Load(), "exactly one refresh call must reach the server")
	require.Equal(t, "fresh-token", coordinator.AccessToken())
}

func TestFailedRefreshRejectsAllQueuedRequests(t *testing.T) {
	t.Parallel()

	const workers = 3
	server := newAuthServer(t, workers, http.StatusUnauthorized)

	var authLost atomic.Int64
	coordinator := New(server.URL, nil, func() { authLost.Add(1) })
	coordinator.SetCredentials("stale-token")

	var wg sync.WaitGroup
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()

			req, err := http.NewRequest(http.MethodGet, server.URL+"/data", nil)
			if err != nil {
				errs[i] = err
				return
			}

			resp, err := coordinator.Do(req)
			if err == nil {
				resp.Body.Close()
			}
			errs[i] = err
		}()
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.Error(t, errs[i], "request %d must fail with the refresh error", i)
	}

	require.EqualValues(t, 1, server.refreshCalls.Load())
	require.EqualValues(t, 1, authLost.Load())
	require.Empty(t, coordinator.AccessToken(), "credentials are cleared on terminal refresh failure")
}

func TestRetriedRequestIsNotRetriedTwice(t *testing.T) {
	t.Parallel()

	// The data endpoint 401s even after a successful refresh; the second 401
	// must surface instead of looping through another refresh.
	var refreshCalls, dataCalls atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("/data", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		dataCalls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/auth/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		refreshCalls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"accessToken":"rotated-token"}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	coordinator := New(server.URL, nil, nil)
	coordinator.SetCredentials("stale-token")

	req, err := http.NewRequest(http.MethodGet, server.URL+"/data", nil)
	require.NoError(t, err)

	resp, err := coordinator.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.EqualValues(t, 1, refreshCalls.Load())
	require.EqualValues(t, 2, dataCalls.Load(), "original send plus exactly one retry")
}

func TestNon401ResponsesBypassRefresh(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/data", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	})
	refreshCalled := false
	mux.HandleFunc("/auth/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		refreshCalled = true
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	coordinator := New(server.URL, nil, nil)
	coordinator.SetCredentials("some-token")

	req, err := http.NewRequest(http.MethodGet, server.URL+"/data", nil)
	require.NoError(t, err)

	resp, err := coordinator.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	require.False(t, refreshCalled, "only 401 triggers the refresh path")
}

func TestAttachesBearerToken(t *testing.T) {
	t.Parallel()

	var seen string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get("Authorization")
	}))
	t.Cleanup(server.Close)

	coordinator := New(server.URL, nil, nil)
	coordinator.SetCredentials("cached-token")

	req, err := http.NewRequest(http.MethodGet, server.URL+"/anything", nil)
	require.NoError(t, err)

	resp, err := coordinator.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, "Bearer cached-token", seen)

	t.Run("no header without cached credentials", func(t *testing.T) {
		coordinator.ClearCredentials()

		req, err := http.NewRequest(http.MethodGet, server.URL+"/anything", nil)
		require.NoError(t, err)

		resp, err := coordinator.Do(req)
		require.NoError(t, err)
		resp.Body.Close()

		require.Empty(t, seen)
	})
}
