package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/b11005/blink-idl-diff/internal/adapters/webidl"
	"github.com/b11005/blink-idl-diff/internal/domain/idl"
	"github.com/b11005/blink-idl-diff/internal/domain/record"
)

const fooIDL = `interface Foo { readonly attribute long x; void bar(); };`

func newTestCollector(fs afero.Fs) *Collector {
	return &Collector{
		Fs:         fs,
		Parser:     webidl.NewParser(),
		RelativeTo: "/src",
		Indent:     record.DefaultIndent,
	}
}

// memCache is an in-memory ports.RecordCache.
type memCache struct {
	mu      sync.Mutex
	entries map[string]string
	records map[string]*record.FileRecords
}

func newMemCache() *memCache {
	return &memCache{entries: map[string]string{}, records: map[string]*record.FileRecords{}}
}

func (m *memCache) Lookup(path, digest string) (*record.FileRecords, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entries[path] != digest {
		return nil, false, nil
	}
	return m.records[path], true, nil
}

func (m *memCache) Store(path, digest string, fr *record.FileRecords) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[path] = digest
	m.records[path] = fr
	return nil
}

func (m *memCache) Close() error { return nil }

func TestRun_SingleInterface(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{"/src/Foo.idl": fooIDL})

	res, err := newTestCollector(fs).Run(context.Background(), []string{"/src/Foo.idl"}, "/out.json")
	require.NoError(t, err)
	assert.Equal(t, &CollectResult{Files: 1, Interfaces: 1}, res)

	data, err := afero.ReadFile(fs, "/out.json")
	require.NoError(t, err)
	want := `{
    "Foo": {
        "Attributes": [
            {
                "ExtAttributes": [],
                "Name": "x",
                "Readonly": true,
                "Static": false,
                "Type": "long"
            }
        ],
        "Consts": [],
        "ExtAttributes": [],
        "FilePath": "Foo.idl",
        "Inherit": null,
        "Name": "Foo",
        "Operations": [
            {
                "Arguments": [],
                "ExtAttributes": [],
                "Name": "bar",
                "Static": false,
                "Type": "void"
            }
        ]
    }
}
`
	assert.Equal(t, want, string(data))
}

func TestCollect_PartialInterface(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"/src/Foo.idl":        fooIDL,
		"/src/FooPartial.idl": `partial interface Foo { const long Y = 1; };`,
	})

	set, res, err := newTestCollector(fs).Collect(context.Background(), []string{"/src/Foo.idl", "/src/FooPartial.idl"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Partials)

	foo := set["Foo"]
	require.NotNil(t, foo)
	assert.Equal(t, []record.ConstRecord{{
		ExtAttributes: []record.ExtAttributeRecord{},
		Name:          "Y",
		Type:          "long",
		Value:         "1",
	}}, foo.Consts)
	assert.Equal(t, []string{"FooPartial.idl"}, foo.PartialFilePaths)
}

func TestCollect_Implements(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"/src/A.idl": "interface A { void m(); };\nA implements B;",
		"/src/B.idl": "interface B { void n(); };",
	})

	set, res, err := newTestCollector(fs).Collect(context.Background(), []string{"/src/A.idl", "/src/B.idl"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Inclusions)

	_, ops, _ := memberNames(set["A"])
	assert.Equal(t, []string{"m", "n"}, ops)
	_, ops, _ = memberNames(set["B"])
	assert.Equal(t, []string{"n"}, ops)
}

func TestCollect_MixinIncludes(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"/src/Body.idl":     "interface mixin Body { readonly attribute boolean bodyUsed; };",
		"/src/Response.idl": "interface Response {};\nResponse includes Body;",
	})

	set, _, err := newTestCollector(fs).Collect(context.Background(), []string{"/src/Body.idl", "/src/Response.idl"})
	require.NoError(t, err)
	attrs, _, _ := memberNames(set["Response"])
	assert.Equal(t, []string{"bodyUsed"}, attrs)
}

func TestRun_Idempotent(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"/src/Foo.idl":        fooIDL,
		"/src/FooPartial.idl": `partial interface Foo { const long Y = 1; };`,
		"/src/Bar.idl":        `[Exposed=Window] interface Bar : Foo { getter any (unsigned long i); };`,
	})
	paths, err := Discover(fs, DiscoveryConfig{Root: "/src", Sort: true})
	require.NoError(t, err)

	c := newTestCollector(fs)
	_, err = c.Run(context.Background(), paths, "/one.json")
	require.NoError(t, err)
	_, err = c.Run(context.Background(), paths, "/two.json")
	require.NoError(t, err)

	one, err := afero.ReadFile(fs, "/one.json")
	require.NoError(t, err)
	two, err := afero.ReadFile(fs, "/two.json")
	require.NoError(t, err)
	assert.Equal(t, string(one), string(two))
}

func TestCollect_ParallelMatchesSequential(t *testing.T) {
	fs := afero.NewMemMapFs()
	var paths []string
	for i := 0; i < 40; i++ {
		path := fmt.Sprintf("/src/I%02d.idl", i)
		writeFiles(t, fs, map[string]string{path: fmt.Sprintf("interface I%02d { attribute long a%d; };", i, i)})
		paths = append(paths, path)
	}
	for i := 0; i < 10; i++ {
		path := fmt.Sprintf("/src/P%02d.idl", i)
		writeFiles(t, fs, map[string]string{path: fmt.Sprintf("partial interface I00 { void p%d(); };", i)})
		paths = append(paths, path)
	}

	seq := newTestCollector(fs)
	par := newTestCollector(fs)
	par.Workers = 8

	seqSet, _, err := seq.Collect(context.Background(), paths)
	require.NoError(t, err)
	parSet, _, err := par.Collect(context.Background(), paths)
	require.NoError(t, err)

	seqJSON, err := record.Encode(seqSet, 4)
	require.NoError(t, err)
	parJSON, err := record.Encode(parSet, 4)
	require.NoError(t, err)
	assert.Equal(t, string(seqJSON), string(parJSON))

	_, ops, _ := memberNames(parSet["I00"])
	assert.Equal(t, []string{"p0", "p1", "p2", "p3", "p4", "p5", "p6", "p7", "p8", "p9"}, ops)
}

func TestCollect_MissingBaseFails(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{"/src/Orphan.idl": `partial interface Ghost { attribute long x; };`})

	_, err := newTestCollector(fs).Run(context.Background(), []string{"/src/Orphan.idl"}, "/out.json")
	require.Error(t, err)

	var merr *record.MergeError
	require.True(t, errors.As(err, &merr))
	assert.Equal(t, record.MergePartial, merr.Op)
	assert.Equal(t, "Ghost", merr.Target)
	assert.True(t, IsInputError(err))

	exists, _ := afero.Exists(fs, "/out.json")
	assert.False(t, exists, "no output on failure")
}

func TestCollect_ReportsEarliestFailingFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	var paths []string
	for i := 0; i < 20; i++ {
		path := fmt.Sprintf("/src/F%02d.idl", i)
		src := fmt.Sprintf("interface F%02d {};", i)
		if i == 7 || i == 15 {
			src = "interface {"
		}
		writeFiles(t, fs, map[string]string{path: src})
		paths = append(paths, path)
	}

	for _, workers := range []int{1, 4, 16} {
		c := newTestCollector(fs)
		c.Workers = workers
		_, _, err := c.Collect(context.Background(), paths)
		require.Error(t, err)

		var syn *idl.SyntaxError
		require.True(t, errors.As(err, &syn), "workers=%d", workers)
		assert.Equal(t, "/src/F07.idl", syn.Path, "workers=%d", workers)
		assert.True(t, IsInputError(err))
	}
}

func TestCollect_MultipleInheritanceFails(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{"/src/C.idl": "interface C : A, B {};"})

	_, _, err := newTestCollector(fs).Collect(context.Background(), []string{"/src/C.idl"})
	var ierr *record.InheritanceError
	require.True(t, errors.As(err, &ierr))
	assert.Equal(t, []string{"A", "B"}, ierr.Parents)
	assert.Equal(t, "C.idl", ierr.Path)
}

func TestCollect_UnreadableFileIsIOError(t *testing.T) {
	_, _, err := newTestCollector(afero.NewMemMapFs()).Collect(context.Background(), []string{"/src/missing.idl"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read /src/missing.idl")
	assert.False(t, IsInputError(err))
}

func TestCollect_Cancelled(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{"/src/Foo.idl": fooIDL})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := newTestCollector(fs).Collect(ctx, []string{"/src/Foo.idl"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCollect_UsesCache(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"/src/Foo.idl": fooIDL,
		"/src/Bar.idl": "interface Bar {};",
	})
	paths := []string{"/src/Bar.idl", "/src/Foo.idl"}

	c := newTestCollector(fs)
	c.Cache = newMemCache()

	first, res, err := c.Collect(context.Background(), paths)
	require.NoError(t, err)
	assert.Equal(t, 0, res.CacheHits)

	second, res, err := c.Collect(context.Background(), paths)
	require.NoError(t, err)
	assert.Equal(t, 2, res.CacheHits)
	assert.Equal(t, first, second)

	writeFiles(t, fs, map[string]string{"/src/Bar.idl": "interface Bar { void changed(); };"})
	third, res, err := c.Collect(context.Background(), paths)
	require.NoError(t, err)
	assert.Equal(t, 1, res.CacheHits)
	_, ops, _ := memberNames(third["Bar"])
	assert.Equal(t, []string{"changed"}, ops)
}

func TestCollect_CacheKeyIncludesFilePath(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{"/src/sub/Foo.idl": fooIDL})
	cache := newMemCache()

	c := newTestCollector(fs)
	c.Cache = cache
	_, _, err := c.Collect(context.Background(), []string{"/src/sub/Foo.idl"})
	require.NoError(t, err)

	c.RelativeTo = "/src/sub"
	set, res, err := c.Collect(context.Background(), []string{"/src/sub/Foo.idl"})
	require.NoError(t, err)
	assert.Equal(t, 0, res.CacheHits)
	assert.Equal(t, "Foo.idl", set["Foo"].FilePath)
}

func TestNodes(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"/src/Foo.idl":     fooIDL,
		"/src/Dict.idl":    "dictionary D {};",
		"/src/Partial.idl": "partial interface Foo {};",
		"/src/Impl.idl":    "A implements B;",
	})
	paths := []string{"/src/Dict.idl", "/src/Foo.idl", "/src/Impl.idl", "/src/Partial.idl"}

	got, err := newTestCollector(fs).Nodes(context.Background(), paths)
	require.NoError(t, err)
	assert.Equal(t, []string{"/src/Foo.idl", "/src/Partial.idl"}, got)
}

func TestRelPath(t *testing.T) {
	tests := []struct {
		relativeTo, path, want string
	}{
		{"", "a/B.idl", "a/B.idl"},
		{"", "./a/../B.idl", "B.idl"},
		{"/src", "/src/a/B.idl", "a/B.idl"},
		{"/src/", "/src/B.idl", "B.idl"},
		{"/other", "/src/B.idl", "../src/B.idl"},
	}
	for _, tt := range tests {
		c := &Collector{RelativeTo: tt.relativeTo}
		assert.Equal(t, tt.want, c.relPath(tt.path), "%q rel %q", tt.path, tt.relativeTo)
	}
}

func TestRelPath_DefaultsToWorkingDirectory(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	abs := filepath.Join(wd, "core", "Node.idl")

	c := &Collector{}
	assert.Equal(t, "core/Node.idl", c.relPath(abs))

	got := c.relPath("/src/core/Node.idl")
	assert.False(t, filepath.IsAbs(got), got)
	want, err := filepath.Rel(wd, filepath.FromSlash("/src/core/Node.idl"))
	require.NoError(t, err)
	assert.Equal(t, filepath.ToSlash(want), got)
}

// memberNames returns the member names of r grouped by kind.
func memberNames(r *record.InterfaceRecord) (attributes, operations, consts []string) {
	for _, a := range r.Attributes {
		attributes = append(attributes, a.Name)
	}
	for _, op := range r.Operations {
		operations = append(operations, op.Name)
	}
	for _, c := range r.Consts {
		consts = append(consts, c.Name)
	}
	return attributes, operations, consts
}
