package asset

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestLocalResource(t *testing.T) {
	_, thisFile, _, _ := runtime.Caller(0)
	res, err := NewResource(thisFile, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Close()

	if res.IsRemote() {
		t.Fatal("expected local resource not to be remote")
	}
}

func TestRelativeLocalResource(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "meshes"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "meshes", "a.obj"), []byte("v 0 0 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "scene.obj"), []byte("call meshes/a.obj\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	parent, err := NewResource(filepath.Join(dir, "scene.obj"), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer parent.Close()

	child, err := NewResource("meshes/a.obj", parent)
	if err != nil {
		t.Fatal(err)
	}
	defer child.Close()

	data, err := io.ReadAll(child)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "v 0 0 0\n" {
		t.Fatalf("expected to read the included file; got %q", data)
	}
}

func TestHttpResource(t *testing.T) {
	_, thisFile, _, _ := runtime.Caller(0)
	thisDir := filepath.Dir(thisFile)

	server := httptest.NewServer(http.FileServer(http.Dir(thisDir)))
	defer server.Close()

	fetchUrl := server.URL + "/" + filepath.Base(thisFile)
	res, err := NewResource(fetchUrl, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Close()
	if !res.IsRemote() {
		t.Fatal("expected http resource to be remote")
	}

	fetchUrl = server.URL + "/file-not-found.foo"
	_, err = NewResource(fetchUrl, nil)
	if !errors.Is(err, ErrFetchFailed) || !strings.Contains(err.Error(), "status 404") {
		t.Fatalf("expected to get a 404 fetch error; got %v", err)
	}
}

func TestRelativeResources(t *testing.T) {
	serverHits := 0
	serverFn := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		serverHits++
		if r.URL.Path == "/foo/scene.obj" || r.URL.Path == "/foo/mesh.obj" {
			w.Write([]byte("OK"))
		} else {
			http.NotFound(w, r)
		}
	})
	server := httptest.NewServer(serverFn)
	defer server.Close()

	res1, err := NewResource(server.URL+"/foo/scene.obj", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer res1.Close()
	res2, err := NewResource("mesh.obj", res1)
	if err != nil {
		t.Fatal(err)
	}
	defer res2.Close()

	if serverHits != 2 {
		t.Fatalf("expected server to receive 2 requests; got %d", serverHits)
	}
}

func TestUnsupportedResourceScheme(t *testing.T) {
	_, err := NewResource("gopher://digging.obj", nil)
	if !errors.Is(err, ErrUnsupportedScheme) {
		t.Fatalf("expected to get ErrUnsupportedScheme; got %v", err)
	}
}

func TestResourceFromStream(t *testing.T) {
	res := NewResourceFromStream("embedded", strings.NewReader("payload"))
	defer res.Close()

	if res.Path() != "embedded" {
		t.Fatalf("expected path to be 'embedded'; got %q", res.Path())
	}
	data, _ := io.ReadAll(res)
	if string(data) != "payload" {
		t.Fatalf("expected to read 'payload'; got %q", data)
	}
}
