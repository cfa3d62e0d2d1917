package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"testing"
	"time"

	"github.com/launchbox/launchbox/internals/minecraft"
	"github.com/launchbox/launchbox/internals/sources"
	"github.com/launchbox/launchbox/internals/workspace"
)

// failingTransport counts requests and fails them all
type failingTransport struct {
	requests int
}

func (t *failingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.requests++
	return nil, errors.New("no network in this test")
}

func writeManifestCache(t *testing.T, ws *workspace.Workspace, cacheTime time.Time, manifest *minecraft.VersionManifest) {
	t.Helper()
	raw, err := json.Marshal(manifestEnvelope{CacheTime: cacheTime.Unix(), Manifest: manifest})
	if err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(ws.Root, os.ModePerm); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(ws.ManifestPath(), raw, 0666); err != nil {
		t.Fatal(err)
	}
}

func TestResolver_ManifestCacheHit(t *testing.T) {
	ws := workspace.New(t.TempDir())
	manifest := &minecraft.VersionManifest{
		Versions: []minecraft.VersionStub{{ID: "1.19.2", Type: minecraft.TypeRelease}},
	}
	manifest.Latest.Release = "1.19.2"

	// cached one hour ago, well within the 24h ttl
	writeManifestCache(t, ws, time.Now().Add(-time.Hour), manifest)

	transport := &failingTransport{}
	r := New(ws, sources.Mojang, &http.Client{Transport: transport})

	got, err := r.Manifest(context.Background(), false)
	if err != nil {
		t.Fatal(err)
	}
	if got.Latest.Release != "1.19.2" {
		t.Errorf("unexpected manifest: %+v", got)
	}
	if transport.requests != 0 {
		t.Errorf("expected zero network requests, got %d", transport.requests)
	}
}

func TestResolver_ManifestExpiredCacheRefetches(t *testing.T) {
	ws := workspace.New(t.TempDir())
	stale := &minecraft.VersionManifest{}
	stale.Latest.Release = "1.18"
	writeManifestCache(t, ws, time.Now().Add(-48*time.Hour), stale)

	fresh := &minecraft.VersionManifest{}
	fresh.Latest.Release = "1.19.2"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		json.NewEncoder(w).Encode(fresh)
	}))
	defer srv.Close()

	r := New(ws, sources.Mojang, &http.Client{Transport: rewriteTransport{base: srv.URL}})

	got, err := r.Manifest(context.Background(), false)
	if err != nil {
		t.Fatal(err)
	}
	if got.Latest.Release != "1.19.2" {
		t.Errorf("expected refetched manifest, got %+v", got)
	}

	// the fresh copy replaced the cache on disk
	envelope, err := r.readManifestEnvelope()
	if err != nil {
		t.Fatal(err)
	}
	if envelope.Manifest.Latest.Release != "1.19.2" {
		t.Error("expected the disk cache to be rewritten")
	}
}

func TestResolver_ManifestUnreachableNoCache(t *testing.T) {
	ws := workspace.New(t.TempDir())
	r := New(ws, sources.Mojang, &http.Client{Transport: &failingTransport{}})

	_, err := r.Manifest(context.Background(), false)
	var merr *ErrManifest
	if !errors.As(err, &merr) {
		t.Fatalf("expected *ErrManifest, got %v", err)
	}
}

func TestResolver_Descriptor(t *testing.T) {
	ws := workspace.New(t.TempDir())

	desc := &minecraft.VersionDescriptor{ID: "1.19.2", MainClass: "net.minecraft.client.main.Main"}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		json.NewEncoder(w).Encode(desc)
	}))
	defer srv.Close()

	manifest := &minecraft.VersionManifest{
		Versions: []minecraft.VersionStub{{ID: "1.19.2", URL: srv.URL + "/1.19.2.json"}},
	}
	writeManifestCache(t, ws, time.Now(), manifest)

	r := New(ws, sources.Mojang, srv.Client())

	got, err := r.Descriptor(context.Background(), "1.19.2", false)
	if err != nil {
		t.Fatal(err)
	}
	if got.MainClass != desc.MainClass {
		t.Errorf("unexpected descriptor: %+v", got)
	}

	// the descriptor is now cached on disk
	if _, err := os.Stat(ws.DescriptorCachePath("1.19.2")); err != nil {
		t.Error("expected a disk cache entry for the descriptor")
	}

	// a second call must not hit the network
	srv.Close()
	again, err := r.Descriptor(context.Background(), "1.19.2", false)
	if err != nil {
		t.Fatal(err)
	}
	if again.MainClass != desc.MainClass {
		t.Error("cached descriptor differs")
	}
}

func TestResolver_DescriptorExpiredCacheRefetches(t *testing.T) {
	ws := workspace.New(t.TempDir())

	stale := &minecraft.VersionDescriptor{ID: "1.19.2", MainClass: "stale.Main"}
	staleRaw, err := json.Marshal(stale)
	if err != nil {
		t.Fatal(err)
	}
	if err := ws.WriteDescriptorCache("1.19.2", staleRaw, time.Now().Add(-48*time.Hour)); err != nil {
		t.Fatal(err)
	}

	fresh := &minecraft.VersionDescriptor{ID: "1.19.2", MainClass: "net.minecraft.client.main.Main"}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		json.NewEncoder(w).Encode(fresh)
	}))
	defer srv.Close()

	manifest := &minecraft.VersionManifest{
		Versions: []minecraft.VersionStub{{ID: "1.19.2", URL: srv.URL + "/1.19.2.json"}},
	}
	writeManifestCache(t, ws, time.Now(), manifest)

	r := New(ws, sources.Mojang, srv.Client())

	got, err := r.Descriptor(context.Background(), "1.19.2", false)
	if err != nil {
		t.Fatal(err)
	}
	if got.MainClass != fresh.MainClass {
		t.Errorf("expected the expired cache to be refetched, got main class %q", got.MainClass)
	}

	// the disk cache was rewritten with a fresh timestamp
	raw, fetchedAt, err := ws.ReadDescriptorCache("1.19.2")
	if err != nil {
		t.Fatal(err)
	}
	if time.Since(fetchedAt) > time.Hour {
		t.Errorf("cache timestamp not renewed, still %v", fetchedAt)
	}
	rewritten := &minecraft.VersionDescriptor{}
	if err := json.Unmarshal(raw, rewritten); err != nil {
		t.Fatal(err)
	}
	if rewritten.MainClass != fresh.MainClass {
		t.Error("cache content not rewritten")
	}
}

func TestResolver_DescriptorFreshCacheHit(t *testing.T) {
	ws := workspace.New(t.TempDir())

	cached := &minecraft.VersionDescriptor{ID: "1.19.2", MainClass: "net.minecraft.client.main.Main"}
	raw, err := json.Marshal(cached)
	if err != nil {
		t.Fatal(err)
	}
	// cached one hour ago, well within the 24h ttl
	if err := ws.WriteDescriptorCache("1.19.2", raw, time.Now().Add(-time.Hour)); err != nil {
		t.Fatal(err)
	}

	transport := &failingTransport{}
	r := New(ws, sources.Mojang, &http.Client{Transport: transport})

	got, err := r.Descriptor(context.Background(), "1.19.2", false)
	if err != nil {
		t.Fatal(err)
	}
	if got.MainClass != cached.MainClass {
		t.Errorf("unexpected descriptor: %+v", got)
	}
	if transport.requests != 0 {
		t.Errorf("expected zero network requests, got %d", transport.requests)
	}
}

func TestResolver_DescriptorUnknownVersion(t *testing.T) {
	ws := workspace.New(t.TempDir())
	writeManifestCache(t, ws, time.Now(), &minecraft.VersionManifest{})

	r := New(ws, sources.Mojang, &http.Client{Transport: &failingTransport{}})

	_, err := r.Descriptor(context.Background(), "not-a-version", false)
	var uerr *ErrUnknownVersion
	if !errors.As(err, &uerr) {
		t.Fatalf("expected *ErrUnknownVersion, got %v", err)
	}
	if uerr.ID != "not-a-version" {
		t.Errorf("unexpected id %q", uerr.ID)
	}
}

func TestResolver_Latest(t *testing.T) {
	ws := workspace.New(t.TempDir())
	manifest := &minecraft.VersionManifest{
		Versions: []minecraft.VersionStub{
			{ID: "1.19.2", Type: minecraft.TypeRelease},
			{ID: "22w44a", Type: minecraft.TypeSnapshot},
		},
	}
	manifest.Latest.Release = "1.19.2"
	manifest.Latest.Snapshot = "22w44a"
	writeManifestCache(t, ws, time.Now(), manifest)

	r := New(ws, sources.Mojang, &http.Client{Transport: &failingTransport{}})

	release, snapshot, err := r.Latest(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if release == nil || release.ID != "1.19.2" {
		t.Errorf("unexpected latest release: %+v", release)
	}
	if snapshot == nil || snapshot.ID != "22w44a" {
		t.Errorf("unexpected latest snapshot: %+v", snapshot)
	}
}

// rewriteTransport redirects every request to a local test server
type rewriteTransport struct {
	base string
}

func (t rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	target, err := url.Parse(t.base)
	if err != nil {
		return nil, err
	}
	clone := req.Clone(req.Context())
	clone.URL.Scheme = target.Scheme
	clone.URL.Host = target.Host
	return http.DefaultTransport.RoundTrip(clone)
}
