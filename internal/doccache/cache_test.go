package doccache

import (
	"bytes"
	"testing"
	"time"
)

func openTemp(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

var rev = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// TestPutGet verifies a stored document is returned for the same key.
func TestPutGet(t *testing.T) {
	c := openTemp(t)
	k := Key{PlanID: "p1", UpdatedAt: rev, Style: "compact", Weeks: []int{1, 2}}
	want := Entry{Filename: "A_B.pdf", ContentType: "application/pdf", Pages: 3, Data: []byte("%PDF-1.3 ...")}
	if err := c.Put(k, want); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := c.Get(k)
	if err != nil || !ok {
		t.Fatalf("Get = %v, %v", ok, err)
	}
	if got.Filename != want.Filename || got.Pages != 3 || !bytes.Equal(got.Data, want.Data) {
		t.Errorf("entry = %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Error("created_at not recorded")
	}
}

// TestKeyDistinguishesRevisions verifies a new revision, style or week
// selection misses the cache.
func TestKeyDistinguishesRevisions(t *testing.T) {
	c := openTemp(t)
	base := Key{PlanID: "p1", UpdatedAt: rev, Style: "compact", Weeks: []int{1, 2}}
	if err := c.Put(base, Entry{Filename: "f", ContentType: "application/pdf", Data: []byte("x")}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	misses := []Key{
		{PlanID: "p1", UpdatedAt: rev.Add(time.Second), Style: "compact", Weeks: []int{1, 2}},
		{PlanID: "p1", UpdatedAt: rev, Style: "enhanced", Weeks: []int{1, 2}},
		{PlanID: "p1", UpdatedAt: rev, Style: "compact", Weeks: []int{1}},
		{PlanID: "p1", UpdatedAt: rev, Style: "compact", Weeks: []int{12}},
		{PlanID: "p2", UpdatedAt: rev, Style: "compact", Weeks: []int{1, 2}},
	}
	for _, k := range misses {
		if _, ok, err := c.Get(k); ok || err != nil {
			t.Errorf("Get(%+v) = %v, %v, want miss", k, ok, err)
		}
	}
	same := Key{PlanID: "p1", UpdatedAt: rev.In(time.FixedZone("X", 3600)), Style: "compact", Weeks: []int{1, 2}}
	if same.Hash() != base.Hash() {
		t.Error("same instant in another zone hashes differently")
	}
}

// TestKeyCoversLabels verifies a renamed client or tool changes the key and
// tool map order does not.
func TestKeyCoversLabels(t *testing.T) {
	base := Key{PlanID: "p1", UpdatedAt: rev, Style: "compact", ClientName: "Dana Smith",
		Tools: map[string]string{"t1": "Barbell", "t2": "Bench"}}

	renamedClient := base
	renamedClient.ClientName = "Dana Jones"
	renamedTool := base
	renamedTool.Tools = map[string]string{"t1": "Olympic Bar", "t2": "Bench"}
	for _, k := range []Key{renamedClient, renamedTool} {
		if k.Hash() == base.Hash() {
			t.Errorf("Hash(%+v) equals base", k)
		}
	}

	again := base
	again.Tools = map[string]string{"t2": "Bench", "t1": "Barbell"}
	if again.Hash() != base.Hash() {
		t.Error("equal tool maps hash differently")
	}
}

// TestInvalidate verifies all renderings of a plan are dropped.
func TestInvalidate(t *testing.T) {
	c := openTemp(t)
	for _, style := range []string{"compact", "landscape"} {
		k := Key{PlanID: "p1", UpdatedAt: rev, Style: style}
		if err := c.Put(k, Entry{Filename: "f", ContentType: "application/pdf", Data: []byte("x")}); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}
	other := Key{PlanID: "p2", UpdatedAt: rev, Style: "compact"}
	if err := c.Put(other, Entry{Filename: "g", ContentType: "application/pdf", Data: []byte("y")}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	n, err := c.Invalidate("p1")
	if err != nil || n != 2 {
		t.Fatalf("Invalidate = %d, %v, want 2", n, err)
	}
	if _, ok, _ := c.Get(other); !ok {
		t.Error("other plan's document was dropped")
	}
}

// TestOpenReusesFile verifies entries survive reopening the cache.
func TestOpenReusesFile(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	k := Key{PlanID: "p1", UpdatedAt: rev, Style: "compact"}
	if err := c.Put(k, Entry{Filename: "f", ContentType: "application/pdf", Data: []byte("x")}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	c.Close()

	c, err = Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer c.Close()
	if _, ok, err := c.Get(k); !ok || err != nil {
		t.Errorf("Get after reopen = %v, %v", ok, err)
	}
}
