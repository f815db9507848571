package locate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bundle = `var x = 1;
var _jsxFileName = "src/App.x";
function App() {
  return null;
}
var _jsxFileName = "src/Other \"quoted\".x";
function Other() {}
`

func TestParseFrame(t *testing.T) {
	cases := []struct {
		raw  string
		want Frame
	}{
		{"App@http://localhost:3000/static/js/main.js:120:13", Frame{"http://localhost:3000/static/js/main.js", 120, 13}},
		{"    at App (http://localhost:3000/main.js:4:2)", Frame{"http://localhost:3000/main.js", 4, 2}},
		{"at http://localhost:3000/main.js:4:2", Frame{"http://localhost:3000/main.js", 4, 2}},
		{"http://localhost:3000/@fs/main.js:7:1", Frame{"http://localhost:3000/@fs/main.js", 7, 1}},
		{"/tmp/bundle.js:2:9", Frame{"/tmp/bundle.js", 2, 9}},
	}

	for _, tc := range cases {
		got, err := ParseFrame(tc.raw)
		require.NoError(t, err, tc.raw)
		assert.Equal(t, tc.want, got, tc.raw)
	}
}

func TestParseFrameErrors(t *testing.T) {
	for _, raw := range []string{"", "main.js", "main.js:1", "main.js:x:1", ":1:2"} {
		_, err := ParseFrame(raw)
		assert.Error(t, err, raw)
	}
}

func TestFindOriginalFile(t *testing.T) {
	lines := strings.Split(bundle, "\n")

	file, ok := findOriginalFile(lines, 3, DefaultMarker)
	require.True(t, ok)
	assert.Equal(t, "src/App.x", file)

	file, ok = findOriginalFile(lines, 6, DefaultMarker)
	require.True(t, ok)
	assert.Equal(t, `src/Other "quoted".x`, file)

	_, ok = findOriginalFile(lines, 0, DefaultMarker)
	assert.False(t, ok)

	file, ok = findOriginalFile(lines, 1000, DefaultMarker)
	require.True(t, ok, "start beyond the end is clamped")
	assert.Equal(t, `src/Other "quoted".x`, file)
}

func TestDecodeLiteralEscapes(t *testing.T) {
	got, ok := decodeLiteral(`"C:\\src\\App.js";`)
	require.True(t, ok)
	assert.Equal(t, `C:\src\App.js`, got)

	_, ok = decodeLiteral(`"unterminated`)
	assert.False(t, ok)
}

type countingFetcher struct {
	calls atomic.Int32
	delay time.Duration
	text  string
	err   error
}

func (f *countingFetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	f.calls.Add(1)
	time.Sleep(f.delay)
	return f.text, f.err
}

func TestSourceCacheCoalescesFetches(t *testing.T) {
	fetcher := &countingFetcher{text: bundle, delay: 50 * time.Millisecond}
	cache := NewSourceCache(fetcher)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			text, err := cache.Text(context.Background(), "http://x/main.js")
			assert.NoError(t, err)
			assert.Equal(t, bundle, text)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), fetcher.calls.Load())

	_, err := cache.Text(context.Background(), "http://x/main.js")
	require.NoError(t, err)
	assert.Equal(t, int32(1), fetcher.calls.Load(), "cached text is reused")
	assert.Equal(t, 1, cache.Len())
}

func TestSourceCacheDoesNotCacheFailures(t *testing.T) {
	fetcher := &countingFetcher{err: errors.New("boom")}
	cache := NewSourceCache(fetcher)

	_, err := cache.Text(context.Background(), "http://x/main.js")
	assert.Error(t, err)
	_, err = cache.Text(context.Background(), "http://x/main.js")
	assert.Error(t, err)

	assert.Equal(t, int32(2), fetcher.calls.Load())
	assert.Equal(t, 0, cache.Len())
}

func TestSourceCacheCancelledCallerDoesNotStopFetch(t *testing.T) {
	fetcher := &countingFetcher{text: bundle, delay: 100 * time.Millisecond}
	cache := NewSourceCache(fetcher)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := cache.Text(ctx, "http://x/main.js")
	assert.ErrorIs(t, err, context.Canceled)

	text, err := cache.Text(context.Background(), "http://x/main.js")
	require.NoError(t, err)
	assert.Equal(t, bundle, text)
	assert.Equal(t, int32(1), fetcher.calls.Load())
}

func TestResolveOverHTTP(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != "/static/js/main.js" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, bundle)
	}))
	defer srv.Close()

	r := NewResolver(NewSourceCache(NewDefaultFetcher()), "")

	p := r.Resolve(context.Background(), "App@"+srv.URL+"/static/js/main.js:3:10")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	loc, err := p.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, Location{File: "src/App.x"}, loc)

	p = r.Resolve(context.Background(), srv.URL+"/static/js/main.js:7:1")
	loc, err = p.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, `src/Other "quoted".x`, loc.File)
	assert.Equal(t, int32(1), hits.Load())
}

func TestResolveFailuresAreUnknown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	r := NewResolver(NewSourceCache(NewDefaultFetcher()), "")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, frame := range []string{
		"not a frame",
		srv.URL + "/main.js:1:1",
	} {
		loc, err := r.Resolve(context.Background(), frame).Wait(ctx)
		require.NoError(t, err)
		assert.False(t, loc.Known(), frame)
	}
}

func TestResolveMissingMarker(t *testing.T) {
	fetcher := FetcherFunc(func(ctx context.Context, rawURL string) (string, error) {
		return "var a = 1;\nvar b = 2;\n", nil
	})
	r := NewResolver(NewSourceCache(fetcher), "")

	loc, err := r.ResolveNow(context.Background(), "http://x/main.js:2:1")
	assert.Error(t, err)
	assert.False(t, loc.Known())
}

func TestResolveLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bundle.js")
	require.NoError(t, os.WriteFile(path, []byte(bundle), 0644))

	r := NewResolver(NewSourceCache(NewDefaultFetcher()), "")

	loc, err := r.ResolveNow(context.Background(), "file://"+path+":4:1")
	require.NoError(t, err)
	assert.Equal(t, "src/App.x", loc.File)

	loc, err = r.ResolveNow(context.Background(), path+":4:1")
	require.NoError(t, err)
	assert.Equal(t, "src/App.x", loc.File)
}

func TestCustomMarker(t *testing.T) {
	fetcher := FetcherFunc(func(ctx context.Context, rawURL string) (string, error) {
		return "// @source \"lib/widget.ts\"\ncode();\n", nil
	})
	r := NewResolver(NewSourceCache(fetcher), "@source ")

	loc, err := r.ResolveNow(context.Background(), "http://x/w.js:1:1")
	require.NoError(t, err)
	assert.Equal(t, "lib/widget.ts", loc.File)
}

func TestPending(t *testing.T) {
	p := newPending()
	_, ok := p.Result()
	assert.False(t, ok)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := p.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	p.settle(Location{File: "a.js"})
	loc, ok := p.Result()
	assert.True(t, ok)
	assert.Equal(t, "a.js", loc.File)

	known := NewResolver(nil, "").Known("src/B.js", 12)
	loc, ok = known.Result()
	assert.True(t, ok)
	assert.Equal(t, Location{File: "src/B.js", Line: 12}, loc)
}

func TestEditorLink(t *testing.T) {
	e := DefaultEditor()

	assert.Equal(t,
		"http://localhost:3000/__open-stack-frame-in-editor?fileName=src%2FMy%20App.js&lineNumber=1&colNumber=1",
		e.Link(Location{File: "src/My App.js"}))

	assert.Equal(t,
		"http://localhost:3000/__open-stack-frame-in-editor?fileName=a.js&lineNumber=12&colNumber=4",
		e.Link(Location{File: "a.js", Line: 12, Column: 4}))

	assert.Equal(t, "", e.Link(Location{}))

	custom := Editor{BaseURL: "http://127.0.0.1:5173/", Endpoint: "/__open-in-editor"}
	assert.Equal(t,
		"http://127.0.0.1:5173/__open-in-editor?fileName=a.js&lineNumber=1&colNumber=1",
		custom.Link(Location{File: "a.js"}))
}
