package page

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStoreCookieRoundTrip(t *testing.T) {
	st := NewStore()

	w := httptest.NewRecorder()
	s1 := st.FromRequest(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, 1, st.Len())

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, sessionCookie, cookies[0].Name)
	require.True(t, cookies[0].HttpOnly)

	second := httptest.NewRequest(http.MethodGet, "/", nil)
	second.AddCookie(cookies[0])
	s2 := st.FromRequest(httptest.NewRecorder(), second)
	require.Same(t, s1, s2)
	require.Equal(t, 1, st.Len())
}

func TestStoreUnknownCookieMintsFreshSession(t *testing.T) {
	st := NewStore()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: sessionCookie, Value: "swept-away"})

	w := httptest.NewRecorder()
	s := st.FromRequest(w, r)
	require.NotNil(t, s)
	require.Equal(t, 1, st.Len())
	require.Len(t, w.Result().Cookies(), 1, "a replacement cookie goes out")
}

func TestStoreSweep(t *testing.T) {
	st := NewStore()

	stale := &Session{}
	stale.mu.Lock()
	stale.lastSeen = time.Now().Add(-time.Hour)
	stale.mu.Unlock()
	st.mu.Lock()
	st.sessions["stale"] = stale
	st.mu.Unlock()

	st.FromRequest(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, 2, st.Len())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		st.Sweep(ctx, 30*time.Minute, 10*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return st.Len() == 1 }, time.Second, 10*time.Millisecond)
	cancel()
	<-done
}
