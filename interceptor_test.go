package aspectlog

import (
	"context"
	stderrs "errors"
	"fmt"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type station struct {
	Callsign string
	Grid     string
}

// newTestInterceptor builds an interceptor gated by level/enabled over a
// backend that accepts everything, so the gate alone decides what is emitted.
func newTestInterceptor(t *testing.T, level string, enabled bool) (*Interceptor, *threadSafeBuffer) {
	t.Helper()
	svc, buf := newBufferService(t, validLoggingConfig())

	cfg := DefaultConfig()
	cfg.Level = level
	cfg.Enabled = enabled
	ic, err := NewInterceptor(cfg, svc)
	require.NoError(t, err)
	require.True(t, ic.Installed())
	return ic, buf
}

func messages(entries []logEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e["message"].(string))
	}
	return out
}

func TestInterceptor_NormalReturnAtInfo(t *testing.T) {
	ic, buf := newTestInterceptor(t, "info", true)

	add := Func2(ic, "Add", func(a, b int) (int, error) { return a + b, nil })
	got, err := add(2, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, got)

	entries := decodeEntries(t, buf.String())
	require.Len(t, entries, 2)
	assert.Equal(t, []string{
		"Calling method: Add with args: [2, 3]",
		"Method: Add executed successfully with result: 5",
	}, messages(entries))
	for _, e := range entries {
		assert.Equal(t, "info", e["level"])
		assert.Equal(t, "Add", e["method"])
	}
}

func TestInterceptor_ErrorAtErrorLevel(t *testing.T) {
	ic, buf := newTestInterceptor(t, "error", true)
	errBad := stderrs.New("bad")

	explode := Func1(ic, "Explode", func(s station) (string, error) { return "", errBad })
	_, err := explode(station{Callsign: "M0ABC"})
	require.Error(t, err)
	assert.True(t, err == errBad, "error must reach the caller unchanged")

	entries := decodeEntries(t, buf.String())
	require.Len(t, entries, 1)
	assert.Equal(t, "error", entries[0]["level"])
	assert.Equal(t, "Exception in method: Explode - bad", entries[0]["message"])
	assert.Equal(t, "bad", entries[0]["error"])
}

func TestInterceptor_PanicPropagatesUnchanged(t *testing.T) {
	ic, buf := newTestInterceptor(t, "debug", true)
	errBad := stderrs.New("bad")

	boom := Func0(ic, "Boom", func() (int, error) { panic(errBad) })
	assert.PanicsWithError(t, "bad", func() { _, _ = boom() })

	entries := decodeEntries(t, buf.String())
	require.Len(t, entries, 3)
	assert.Equal(t, "Calling method: Boom with args: []", entries[0]["message"])
	assert.Equal(t, "Exception in method: Boom - bad", entries[1]["message"])
	assert.Equal(t, true, entries[1]["panic"])
	assert.Equal(t, "debug", entries[2]["level"])
	assert.Contains(t, entries[2]["message"], "Method: Boom executed in")

	t.Run("non-error panic value", func(t *testing.T) {
		buf.Reset()
		fail := Func0(ic, "Fail", func() (int, error) { panic("lost carrier") })
		assert.PanicsWithValue(t, "lost carrier", func() { _, _ = fail() })

		entries := decodeEntries(t, buf.String())
		require.Len(t, entries, 3)
		assert.Equal(t, "Exception in method: Fail - lost carrier", entries[1]["message"])
	})
}

func TestInterceptor_ErrorAtDebugSkipsAfterReturn(t *testing.T) {
	ic, buf := newTestInterceptor(t, "debug", true)

	failing := Action(ic, "Sync", func() error { return fmt.Errorf("sync: %w", stderrs.New("offline")) })
	require.EqualError(t, failing(), "sync: offline")

	entries := decodeEntries(t, buf.String())
	require.Len(t, entries, 3)
	assert.Equal(t, "info", entries[0]["level"])
	assert.Equal(t, "error", entries[1]["level"])
	assert.Equal(t, "Exception in method: Sync - sync: offline", entries[1]["message"])
	assert.Equal(t, "offline", entries[1]["error_root"])
	assert.Equal(t, "debug", entries[2]["level"])
}

func TestInterceptor_TimingAtDebug(t *testing.T) {
	ic, buf := newTestInterceptor(t, "debug", true)

	slow := Func0(ic, "Slow", func() (string, error) {
		time.Sleep(50 * time.Millisecond)
		return "done", nil
	})
	got, err := slow()
	require.NoError(t, err)
	assert.Equal(t, "done", got)

	entries := decodeEntries(t, buf.String())
	require.Len(t, entries, 3)
	assert.Equal(t, "Method: Slow executed successfully with result: done", entries[1]["message"])

	timing := entries[2]
	assert.Equal(t, "debug", timing["level"])
	elapsed, ok := timing["elapsed_ms"].(float64)
	require.True(t, ok)
	assert.GreaterOrEqual(t, elapsed, float64(50))
	assert.Less(t, elapsed, float64(5000))
	assert.Equal(t, fmt.Sprintf("Method: Slow executed in %d ms", int64(elapsed)), timing["message"])
}

func TestInterceptor_TimingSuppressedAboveDebug(t *testing.T) {
	for _, level := range []string{"info", "warn", "error"} {
		t.Run(level, func(t *testing.T) {
			ic, buf := newTestInterceptor(t, level, true)
			_, _ = Func0(ic, "Quick", func() (int, error) { return 1, nil })()

			for _, e := range decodeEntries(t, buf.String()) {
				assert.NotContains(t, e, "elapsed_ms")
			}
		})
	}
}

func TestInterceptor_WarnLevelMutesInfoObservers(t *testing.T) {
	ic, buf := newTestInterceptor(t, "warn", true)

	_, err := Func0(ic, "Quiet", func() (int, error) { return 1, nil })()
	require.NoError(t, err)
	assert.Empty(t, buf.String())

	_, err = Func0(ic, "Loud", func() (int, error) { return 0, stderrs.New("nope") })()
	require.Error(t, err)
	entries := decodeEntries(t, buf.String())
	require.Len(t, entries, 1)
	assert.Equal(t, "Exception in method: Loud - nope", entries[0]["message"])
}

func TestInterceptor_DisabledEmitsNothing(t *testing.T) {
	ic, buf := newTestInterceptor(t, "debug", false)

	got, err := Func1(ic, "Echo", func(s string) (string, error) { return s, nil })("hi")
	require.NoError(t, err)
	assert.Equal(t, "hi", got)

	_, err = Func0(ic, "Fail", func() (int, error) { return 0, stderrs.New("bad") })()
	require.Error(t, err)

	assert.Empty(t, buf.String())
}

func TestInterceptor_NotInstalled(t *testing.T) {
	svc, buf := newBufferService(t, validLoggingConfig())
	cfg := DefaultConfig()
	cfg.Level = "debug"
	off := false
	cfg.AspectEnabled = &off

	ic, err := NewInterceptor(cfg, svc)
	require.NoError(t, err)
	assert.False(t, ic.Installed())

	errBad := stderrs.New("bad")
	res, err := ic.Invoke("Anything", []any{1}, func() (any, error) { return 42, errBad })
	assert.Equal(t, 42, res)
	assert.True(t, err == errBad)
	assert.Empty(t, buf.String())

	t.Run("nil logger allowed when not installed", func(t *testing.T) {
		ic, err := NewInterceptor(cfg, nil)
		require.NoError(t, err)
		assert.False(t, ic.Installed())
	})
}

func TestNewInterceptor_Errors(t *testing.T) {
	t.Run("nil logger", func(t *testing.T) {
		_, err := NewInterceptor(DefaultConfig(), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), errMsgNilLogger)
	})

	t.Run("invalid level", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Level = "verbose"
		_, err := NewInterceptor(cfg, Nop())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidConfig)
		assert.ErrorIs(t, err, ErrInvalidLevel)
	})
}

func TestInterceptor_IndependentSequences(t *testing.T) {
	ic, buf := newTestInterceptor(t, "info", true)
	lookup := Func1(ic, "Lookup", func(s station) (station, error) {
		s.Grid = "IO91"
		return s, nil
	})

	_, err := lookup(station{Callsign: "M0ABC"})
	require.NoError(t, err)
	_, err = lookup(station{Callsign: "M0ABC"})
	require.NoError(t, err)

	msgs := messages(decodeEntries(t, buf.String()))
	require.Len(t, msgs, 4)
	assert.Equal(t, msgs[:2], msgs[2:])
	assert.Equal(t, "Calling method: Lookup with args: [station{Callsign:M0ABC, Grid:}]", msgs[0])
	assert.Equal(t, "Method: Lookup executed successfully with result: station{Callsign:M0ABC, Grid:IO91}", msgs[1])
}

func TestInterceptor_Registry(t *testing.T) {
	base, buf := newTestInterceptor(t, "info", true)
	reg := NewRegistry("Designated")
	ic := base.WithRegistry(reg)

	_, _ = Func0(ic, "Designated", func() (int, error) { return 1, nil })()
	_, _ = Func0(ic, "Other", func() (int, error) { return 2, nil })()

	entries := decodeEntries(t, buf.String())
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, "Designated", e["method"])
	}

	buf.Reset()
	reg.Revoke("Designated")
	_, _ = Func0(ic, "Designated", func() (int, error) { return 1, nil })()
	assert.Empty(t, buf.String())

	// The original interceptor is unaffected by WithRegistry.
	_, _ = Func0(base, "Other", func() (int, error) { return 2, nil })()
	assert.Len(t, decodeEntries(t, buf.String()), 2)
}

func TestCtxFunc1_PassesContext(t *testing.T) {
	ic, buf := newTestInterceptor(t, "info", true)
	type ctxKey struct{}

	fetch := CtxFunc1(ic, "Fetch", func(ctx context.Context, id int) (string, error) {
		return ctx.Value(ctxKey{}).(string), nil
	})
	got, err := fetch(context.WithValue(context.Background(), ctxKey{}, "from-ctx"), 7)
	require.NoError(t, err)
	assert.Equal(t, "from-ctx", got)

	msgs := messages(decodeEntries(t, buf.String()))
	require.Len(t, msgs, 2)
	assert.Equal(t, "Calling method: Fetch with args: [7]", msgs[0])
}

func TestAction_NilResult(t *testing.T) {
	ic, buf := newTestInterceptor(t, "info", true)
	require.NoError(t, Action(ic, "Flush", func() error { return nil })())

	msgs := messages(decodeEntries(t, buf.String()))
	require.Len(t, msgs, 2)
	assert.Equal(t, "Method: Flush executed successfully with result: <nil>", msgs[1])
}

func TestInterceptor_Concurrent(t *testing.T) {
	ic, buf := newTestInterceptor(t, "info", true)
	square := Func1(ic, "Square", func(n int) (int, error) { return n * n, nil })

	const workers = 50
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(n int) {
			defer wg.Done()
			got, err := square(n)
			assert.NoError(t, err)
			assert.Equal(t, n*n, got)
		}(i)
	}
	wg.Wait()

	assert.Len(t, decodeEntries(t, buf.String()), workers*2)
}

func TestInterceptor_NilPointerValues(t *testing.T) {
	ic, buf := newTestInterceptor(t, "info", true)

	t.Run("nil result", func(t *testing.T) {
		buf.Reset()
		find := Func0(ic, "Find", func() (*url.URL, error) { return nil, nil })

		var got *url.URL
		var err error
		require.NotPanics(t, func() { got, err = find() })
		require.NoError(t, err)
		assert.Nil(t, got)
		assert.Equal(t, []string{
			"Calling method: Find with args: []",
			"Method: Find executed successfully with result: <nil>",
		}, messages(decodeEntries(t, buf.String())))
	})

	t.Run("nil argument", func(t *testing.T) {
		buf.Reset()
		ran := false
		open := Func1(ic, "Open", func(u *url.URL) (int, error) {
			ran = true
			return 7, nil
		})

		var got int
		require.NotPanics(t, func() { got, _ = open(nil) })
		assert.True(t, ran)
		assert.Equal(t, 7, got)
		assert.Equal(t, []string{
			"Calling method: Open with args: [<nil>]",
			"Method: Open executed successfully with result: 7",
		}, messages(decodeEntries(t, buf.String())))
	})

	t.Run("typed nil error argument", func(t *testing.T) {
		buf.Reset()
		report := Func1(ic, "Report", func(e *lookupError) (bool, error) { return e == nil, nil })

		got, err := report(nil)
		require.NoError(t, err)
		assert.True(t, got)
		msgs := messages(decodeEntries(t, buf.String()))
		require.Len(t, msgs, 2)
		assert.Equal(t, "Calling method: Report with args: [<nil>]", msgs[0])
	})
}
