package catalog

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/yk/internal/apperr"
	"github.com/starford/yk/internal/testutil"
)

func newTestLoader(t *testing.T, tree *testutil.ConfigTree) (*Loader, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	l, err := NewLoader(tree.SimpleCommandsFile(), tree.PluginsDir(), testutil.Logger(&logs))
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}
	return l, &logs
}

func TestRead_MissingSourceWarns(t *testing.T) {
	tree := testutil.NewConfigTree(t)
	l, logs := newTestLoader(t, tree)

	src, err := l.Read(tree.SimpleCommandsFile(), "simple commands")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if src != nil {
		t.Errorf("expected nil source, got %+v", src)
	}
	if !strings.Contains(logs.String(), "source missing") || !strings.Contains(logs.String(), "simple commands") {
		t.Errorf("warning not logged with label: %s", logs.String())
	}
}

func TestRead_DirectoryIsNotASource(t *testing.T) {
	tree := testutil.NewConfigTree(t)
	if err := os.MkdirAll(tree.SimpleCommandsFile(), 0o755); err != nil {
		t.Fatal(err)
	}
	l, logs := newTestLoader(t, tree)

	src, err := l.Read(tree.SimpleCommandsFile(), "simple commands")
	if err != nil || src != nil {
		t.Fatalf("Read = %v, %v; want nil, nil", src, err)
	}
	if !strings.Contains(logs.String(), "not a regular file") {
		t.Errorf("missing warning: %s", logs.String())
	}
}

func TestRead_NonObjectTopLevel(t *testing.T) {
	for _, content := range []string{`[1, 2]`, `"text"`, `42`, ``, `{"a": {}`} {
		tree := testutil.NewConfigTree(t)
		tree.WriteSimple(t, content)
		l, logs := newTestLoader(t, tree)

		src, err := l.Read(tree.SimpleCommandsFile(), "simple commands")
		if err != nil || src != nil {
			t.Errorf("%q: Read = %v, %v; want nil, nil", content, src, err)
		}
		if !strings.Contains(logs.String(), "format error") {
			t.Errorf("%q: missing warning: %s", content, logs.String())
		}
	}
}

func TestRead_MalformedEntryIsolated(t *testing.T) {
	tree := testutil.NewConfigTree(t)
	tree.WriteSimple(t, `{
		"status": {"executable": "git", "args": ["status", "-s"]},
		"broken": {"args": "not-a-list"},
		"list":   {"executable": "ls", "labels": ["fs"]},
		"where":  {"executable": "pwd"}
	}`)
	l, logs := newTestLoader(t, tree)

	src, err := l.Read(tree.SimpleCommandsFile(), "simple commands")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if src == nil || len(src.Entries) != 3 {
		t.Fatalf("entries = %+v, want 3", src)
	}
	want := []string{"status", "list", "where"}
	for i, w := range want {
		if src.Entries[i].Name != w {
			t.Errorf("entry %d = %q, want %q", i, src.Entries[i].Name, w)
		}
	}
	if !strings.Contains(logs.String(), "command=broken") {
		t.Errorf("malformed entry not reported: %s", logs.String())
	}
}

func TestRead_AllInvalidIsMissing(t *testing.T) {
	tree := testutil.NewConfigTree(t)
	tree.WriteSimple(t, `{"a": null, "b": "ls -la", "c": [1], "d": {"if_shell": "yes"}}`)
	l, logs := newTestLoader(t, tree)

	src, err := l.Read(tree.SimpleCommandsFile(), "simple commands")
	if err != nil || src != nil {
		t.Fatalf("Read = %+v, %v; want nil, nil", src, err)
	}
	if !strings.Contains(logs.String(), "no valid commands") {
		t.Errorf("missing warning: %s", logs.String())
	}
}

func TestRead_EmptyObjectIsMissing(t *testing.T) {
	tree := testutil.NewConfigTree(t)
	tree.WriteSimple(t, `{}`)
	l, _ := newTestLoader(t, tree)

	src, err := l.Read(tree.SimpleCommandsFile(), "simple commands")
	if err != nil || src != nil {
		t.Fatalf("Read = %+v, %v; want nil, nil", src, err)
	}
}

func TestRead_ResolvesEntryPoint(t *testing.T) {
	tree := testutil.NewConfigTree(t)
	file := tree.WritePlugin(t, "deploy", `{
		"rel": {"executable": "bash", "entry_point": "scripts/deploy.sh"},
		"abs": {"entry_point": "/usr/local/bin/tool"}
	}`)
	l, _ := newTestLoader(t, tree)

	src, err := l.Read(file, "plugin deploy")
	if err != nil || src == nil {
		t.Fatalf("Read = %v, %v", src, err)
	}
	wantRel := filepath.Join(filepath.Dir(file), "scripts", "deploy.sh")
	if got := src.Entries[0].Snippet.EntryPoint; got != wantRel {
		t.Errorf("rel entry point = %q, want %q", got, wantRel)
	}
	if got := src.Entries[0].Snippet.Executable; got != "bash" {
		t.Errorf("executable = %q, want bash", got)
	}
	if got := src.Entries[1].Snippet.EntryPoint; got != "/usr/local/bin/tool" {
		t.Errorf("abs entry point = %q", got)
	}
	if src.Dir != filepath.Dir(file) || src.File != file {
		t.Errorf("dir/file = %q %q", src.Dir, src.File)
	}
	if src.Checksum == "" {
		t.Error("checksum not recorded")
	}
}

func TestRead_DuplicateKeyLastValueWins(t *testing.T) {
	tree := testutil.NewConfigTree(t)
	tree.WriteSimple(t, `{"a": {"executable": "one"}, "b": {"executable": "two"}, "a": {"executable": "three"}}`)
	l, _ := newTestLoader(t, tree)

	src, _ := l.Read(tree.SimpleCommandsFile(), "simple commands")
	if src == nil || len(src.Entries) != 2 {
		t.Fatalf("entries = %+v", src)
	}
	if src.Entries[0].Name != "a" || src.Entries[0].Snippet.Executable != "three" {
		t.Errorf("entry 0 = %+v", src.Entries[0])
	}
}

func TestSourceDir_Root(t *testing.T) {
	if _, _, err := sourceDir(""); !errors.Is(err, apperr.ErrNoBaseDir) {
		t.Errorf("empty path err = %v", err)
	}
	root := string(filepath.Separator)
	if _, _, err := sourceDir(root); !errors.Is(err, apperr.ErrNoBaseDir) {
		t.Errorf("root path err = %v", err)
	}
}

func TestBuild_OrderAndProvenance(t *testing.T) {
	tree := testutil.NewConfigTree(t)
	simple := tree.WriteSimple(t, `{"status": {"executable": "git", "args": ["status", "-s"]}}`)
	zeta := tree.WritePlugin(t, "zeta", `{"z": {"executable": "echo", "args": ["z"]}}`)
	alpha := tree.WritePlugin(t, "alpha", `{"a1": {"executable": "echo", "args": ["a1"]}, "a2": {"args": ["a2"]}}`)
	testutil.WriteFile(t, filepath.Join(tree.PluginsDir(), "stray.json"), `{"x": {"executable": "x"}}`)

	l, _ := newTestLoader(t, tree)
	cat := l.Build()

	if cat.Len() != 4 {
		t.Fatalf("len = %d, want 4", cat.Len())
	}
	want := []struct{ name, file, cmd string }{
		{"status", simple, "git status -s"},
		{"a1", alpha, "echo a1"},
		{"a2", alpha, "a2"},
		{"z", zeta, "echo z"},
	}
	for i, w := range want {
		e := cat.Entries[i]
		if e.Name != w.name || e.SourceFile != w.file || e.CompleteCommand != w.cmd {
			t.Errorf("entry %d = {%q %q %q}, want %+v", i, e.Name, e.SourceFile, e.CompleteCommand, w)
		}
	}
}

func TestBuild_BadSourceDoesNotAbort(t *testing.T) {
	tree := testutil.NewConfigTree(t)
	tree.WriteSimple(t, `not json at all`)
	tree.WritePlugin(t, "empty", `{}`)
	tree.WritePlugin(t, "good", `{"ok": {"executable": "true"}, "bad": 3}`)
	if err := os.MkdirAll(filepath.Join(tree.PluginsDir(), "nofile"), 0o755); err != nil {
		t.Fatal(err)
	}

	l, _ := newTestLoader(t, tree)
	cat := l.Build()
	if cat.Len() != 1 || cat.Entries[0].Name != "ok" {
		t.Errorf("catalog = %+v, want only ok", cat.Entries)
	}
}

func TestBuild_NoSources(t *testing.T) {
	tree := testutil.NewConfigTree(t)
	l, _ := newTestLoader(t, tree)
	cat := l.Build()
	if cat == nil || cat.Len() != 0 {
		t.Errorf("catalog = %+v, want empty", cat)
	}
}

func TestBuild_EmptyCommandAllowed(t *testing.T) {
	tree := testutil.NewConfigTree(t)
	tree.WriteSimple(t, `{"nothing": {"labels": ["placeholder"]}}`)
	l, _ := newTestLoader(t, tree)
	cat := l.Build()
	if cat.Len() != 1 || cat.Entries[0].CompleteCommand != "" {
		t.Errorf("catalog = %+v", cat.Entries)
	}
}
