package image_test

import (
	"testing"

	"github.com/nimbusctl/stormengine/pkg/image"
)

func openTestStore(t *testing.T) *image.Store {
	t.Helper()
	s, err := image.OpenStore(t.TempDir())
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStorePutThenGetRoundTrips(t *testing.T) {
	s := openTestStore(t)

	img := &image.Image{
		Ref:        image.Ref{Name: "app", Tag: "v1"},
		Properties: map[string]any{"size": float64(2)},
	}
	if err := s.Put(img); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := s.Get(img.Ref)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Ref != img.Ref {
		t.Errorf("got ref %v, want %v", got.Ref, img.Ref)
	}
}

func TestStoreGetOfAbsentRefFails(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.Get(image.Ref{Name: "missing"}); err == nil {
		t.Fatal("Get of an uncataloged ref should fail")
	}
}

func TestStoreListReturnsEveryEntry(t *testing.T) {
	s := openTestStore(t)

	refs := []image.Ref{{Name: "app", Tag: "v1"}, {Name: "app", Tag: "v2"}, {Name: "sidecar"}}
	for _, ref := range refs {
		if err := s.Put(&image.Image{Ref: ref}); err != nil {
			t.Fatalf("Put(%s): %v", ref, err)
		}
	}

	list, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != len(refs) {
		t.Fatalf("got %d entries, want %d", len(list), len(refs))
	}
}

func TestStoreDeleteRemovesEntryAndIsIdempotent(t *testing.T) {
	s := openTestStore(t)

	ref := image.Ref{Name: "app", Tag: "v1"}
	if err := s.Put(&image.Image{Ref: ref}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Delete(ref); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ref); err == nil {
		t.Fatal("Get should fail after Delete")
	}
	// Deleting an already-absent ref is not an error.
	if err := s.Delete(ref); err != nil {
		t.Errorf("Delete of an absent ref should not fail: %v", err)
	}
}

func TestStorePutOverwritesPreviousEntry(t *testing.T) {
	s := openTestStore(t)

	ref := image.Ref{Name: "app", Tag: "v1"}
	if err := s.Put(&image.Image{Ref: ref, Properties: map[string]any{"rev": float64(1)}}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put(&image.Image{Ref: ref, Properties: map[string]any{"rev": float64(2)}}); err != nil {
		t.Fatalf("Put (overwrite): %v", err)
	}

	got, err := s.Get(ref)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Properties["rev"] != float64(2) {
		t.Errorf("got rev %v, want 2", got.Properties["rev"])
	}
}
