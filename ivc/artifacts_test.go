package ivc

import (
	"bytes"
	"context"
	"crypto/sha256"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

var (
	dummyPath       = "dummy.key"
	dummyKeyContent = []byte("dummy content")
)

func testDummyKeyServer() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.ServeContent(w, r, dummyPath, time.Now(), bytes.NewReader(dummyKeyContent))
	}))
}

func TestMain(m *testing.M) {
	code := m.Run()
	if err := os.RemoveAll(BaseDir); err != nil {
		panic(err)
	}
	os.Exit(code)
}

func TestLoadArtifact(t *testing.T) {
	c := qt.New(t)
	server := testDummyKeyServer()
	defer server.Close()

	hashFn := sha256.New()
	hashFn.Write(dummyKeyContent)
	expectedHash := hashFn.Sum(nil)

	remoteURL, err := url.JoinPath(server.URL, dummyPath)
	c.Assert(err, qt.IsNil)
	dummyArtifact := &Artifact{
		RemoteURL: remoteURL,
		Hash:      expectedHash,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// cache miss: downloads from the server
	c.Assert(dummyArtifact.Load(ctx), qt.IsNil)
	c.Assert([]byte(dummyArtifact.Content), qt.DeepEquals, dummyKeyContent)

	// cache hit: reads back from BaseDir without hitting the server
	dummyArtifact.Content = nil
	c.Assert(dummyArtifact.Load(ctx), qt.IsNil)
	c.Assert([]byte(dummyArtifact.Content), qt.DeepEquals, dummyKeyContent)

	// wrong hash never matches a cached file
	dummyArtifact.Content = nil
	dummyArtifact.Hash = []byte("wrong hash, 20 bytes")
	dummyArtifact.RemoteURL = ""
	c.Assert(dummyArtifact.Load(ctx), qt.IsNotNil)
}
