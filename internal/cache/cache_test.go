package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestMemory() (*Memory, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	m := NewMemory()
	m.now = clock.now
	return m, clock
}

func TestMemoryExpiry(t *testing.T) {
	m, clock := newTestMemory()

	require.NoError(t, m.Set("addr", []byte("0xabc"), 5*time.Minute))

	val, err := m.Get("addr")
	require.NoError(t, err)
	assert.Equal(t, []byte("0xabc"), val)

	clock.advance(4*time.Minute + 59*time.Second)
	val, _ = m.Get("addr")
	assert.NotNil(t, val)

	clock.advance(time.Second)
	val, err = m.Get("addr")
	require.NoError(t, err)
	assert.Nil(t, val, "entry must not be served at its expiry instant")
}

func TestMemoryNoExpiry(t *testing.T) {
	m, clock := newTestMemory()

	require.NoError(t, m.Set("k", []byte("v"), 0))
	clock.advance(365 * 24 * time.Hour)

	val, _ := m.Get("k")
	assert.Equal(t, []byte("v"), val)
}

func TestMemoryDeleteReset(t *testing.T) {
	m, _ := newTestMemory()

	require.NoError(t, m.Set("a", []byte("1"), time.Minute))
	require.NoError(t, m.Set("b", []byte("2"), time.Minute))

	require.NoError(t, m.Delete("a"))
	val, _ := m.Get("a")
	assert.Nil(t, val)
	assert.Equal(t, 1, m.Len())

	require.NoError(t, m.Reset())
	assert.Equal(t, 0, m.Len())
}

func TestMemorySetCopiesValue(t *testing.T) {
	m, _ := newTestMemory()

	buf := []byte("abc")
	require.NoError(t, m.Set("k", buf, time.Minute))
	buf[0] = 'z'

	val, _ := m.Get("k")
	assert.Equal(t, []byte("abc"), val)
}

func TestMemorySweep(t *testing.T) {
	m, clock := newTestMemory()

	require.NoError(t, m.Set("short", []byte("1"), time.Second))
	require.NoError(t, m.Set("long", []byte("2"), time.Hour))
	clock.advance(time.Minute)

	assert.Equal(t, 1, m.Sweep())
	assert.Equal(t, 1, m.Len())
}

func TestMemoryJanitorStops(t *testing.T) {
	m := NewMemory()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		m.RunJanitor(ctx, time.Millisecond)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop after cancel")
	}
}

func TestJSONHelpers(t *testing.T) {
	m, _ := newTestMemory()

	type payload struct {
		Address string `json:"address"`
	}

	ok, err := GetJSON(m, "missing", &payload{})
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, SetJSON(m, "p", payload{Address: "0x1"}, time.Minute))

	var got payload
	ok, err = GetJSON(m, "p", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "0x1", got.Address)
}
