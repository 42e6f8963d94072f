package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clock is a manually advanced time source
type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestLimiter(t *testing.T, cfg *Config) (*Limiter, *clock) {
	t.Helper()
	c := &clock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := NewLimiter(cfg)
	l.now = c.now
	t.Cleanup(l.Stop)
	return l, c
}

func testConfig() *Config {
	return &Config{
		Enabled:       true,
		DefaultLimit:  60,
		DefaultWindow: time.Minute,
		DefaultBurst:  3,
		Whitelist:     map[string]bool{"10.0.0.1": true},
		Blacklist:     map[string]bool{"10.0.0.2": true},
		EndpointConfigs: []EndpointConfig{
			{Path: "/profiles/*/tailor", Method: "POST", Limit: 2, Window: time.Hour, Burst: 1},
		},
	}
}

func TestLimiter_BurstThenDeny(t *testing.T) {
	l, _ := newTestLimiter(t, testConfig())

	for i := 0; i < 3; i++ {
		allowed, info := l.Allow("1.2.3.4", "/jobs", "GET")
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 60, info.Limit)
		assert.Equal(t, 2-i, info.Remaining)
	}

	allowed, info := l.Allow("1.2.3.4", "/jobs", "GET")
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.InDelta(t, time.Second.Seconds(), info.RetryAfter.Seconds(), 0.01)
}

func TestLimiter_Refill(t *testing.T) {
	l, c := newTestLimiter(t, testConfig())

	for i := 0; i < 3; i++ {
		l.Allow("1.2.3.4", "/jobs", "GET")
	}
	allowed, _ := l.Allow("1.2.3.4", "/jobs", "GET")
	require.False(t, allowed)

	c.advance(time.Second)
	allowed, _ = l.Allow("1.2.3.4", "/jobs", "GET")
	assert.True(t, allowed)

	allowed, _ = l.Allow("1.2.3.4", "/jobs", "GET")
	assert.False(t, allowed)
}

func TestLimiter_ClientsAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(t, testConfig())

	for i := 0; i < 3; i++ {
		l.Allow("1.2.3.4", "/jobs", "GET")
	}
	allowed, _ := l.Allow("5.6.7.8", "/jobs", "GET")
	assert.True(t, allowed)
}

func TestLimiter_PatternSharesBucket(t *testing.T) {
	l, _ := newTestLimiter(t, testConfig())

	allowed, info := l.Allow("1.2.3.4", "/profiles/alice/tailor", "POST")
	require.True(t, allowed)
	assert.Equal(t, 2, info.Limit)

	allowed, info = l.Allow("1.2.3.4", "/profiles/bob/tailor", "POST")
	assert.False(t, allowed)
	assert.InDelta(t, (30 * time.Minute).Seconds(), info.RetryAfter.Seconds(), 1)
}

func TestLimiter_Lists(t *testing.T) {
	l, _ := newTestLimiter(t, testConfig())

	for i := 0; i < 10; i++ {
		allowed, _ := l.Allow("10.0.0.1", "/jobs", "GET")
		assert.True(t, allowed)
	}
	allowed, _ := l.Allow("10.0.0.2", "/jobs", "GET")
	assert.False(t, allowed)
}

func TestLimiter_Disabled(t *testing.T) {
	l, _ := newTestLimiter(t, NewConfig(0, 0, ""))
	for i := 0; i < 100; i++ {
		allowed, _ := l.Allow("1.2.3.4", "/jobs", "GET")
		require.True(t, allowed)
	}
}

func TestLimiter_HealthUnlimited(t *testing.T) {
	l, _ := newTestLimiter(t, testConfig())
	for i := 0; i < 100; i++ {
		allowed, _ := l.Allow("1.2.3.4", "/health", "GET")
		require.True(t, allowed)
	}
	assert.Equal(t, 0, l.size())
}

func TestLimiter_CleanupIdleBuckets(t *testing.T) {
	cfg := testConfig()
	cfg.IdleTTL = time.Minute
	l, c := newTestLimiter(t, cfg)

	l.Allow("1.2.3.4", "/jobs", "GET")
	c.advance(30 * time.Second)
	l.Allow("5.6.7.8", "/jobs", "GET")
	require.Equal(t, 2, l.size())

	c.advance(45 * time.Second)
	l.cleanupBuckets()
	assert.Equal(t, 1, l.size())
}

func TestLimiter_Concurrent(t *testing.T) {
	l, _ := newTestLimiter(t, testConfig())

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := l.Allow("1.2.3.4", "/jobs", "GET"); ok {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 3, allowed)
}

func TestMatchEndpoint(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/jobs", Method: "POST", Limit: 1},
		{Path: "/profiles/*/tailor", Method: "POST", Limit: 2},
		{Path: "/profiles/", Method: "PUT", Limit: 3},
	}
	tests := []struct {
		path, method string
		want         int // Limit of the match, -1 for none
	}{
		{"/jobs", "POST", 1},
		{"/jobs", "GET", -1},
		{"/profiles/alice/tailor", "POST", 2},
		{"/profiles/alice/tailor/x", "POST", -1},
		{"/profiles/alice", "PUT", 3},
		{"/health", "GET", 0},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s %s", tt.method, tt.path), func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			if tt.want < 0 {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Limit)
		})
	}
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig(5, 10, "127.0.0.1, ::1")
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 300, cfg.DefaultLimit)
	assert.Equal(t, 10, cfg.DefaultBurst)
	assert.True(t, cfg.Whitelist["::1"])
	assert.NotEmpty(t, cfg.EndpointConfigs)

	assert.False(t, NewConfig(-1, 0, "").Enabled)
}
