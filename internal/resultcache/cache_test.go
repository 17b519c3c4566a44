package resultcache

import "testing"

func TestCache(t *testing.T) {
	c := New[string]()

	if _, ok := c.Get("fp1"); ok {
		t.Fatal("empty cache returned a value")
	}

	if !c.Put("fp1", "first") {
		t.Fatal("first Put should win")
	}
	if v, ok := c.Get("fp1"); !ok || v != "first" {
		t.Fatalf("Get(fp1) = (%q, %t), want (first, true)", v, ok)
	}

	// Test-and-set: a racing second computation must not replace the
	// published value.
	if c.Put("fp1", "second") {
		t.Fatal("second Put on the same fingerprint should lose")
	}
	if v, _ := c.Get("fp1"); v != "first" {
		t.Fatalf("Get(fp1) = %q after losing Put, want first", v)
	}

	c.Invalidate("fp1")
	if _, ok := c.Get("fp1"); ok {
		t.Fatal("Invalidate did not drop the entry")
	}

	c.Put("a", "1")
	c.Put("b", "2")
	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	c.Clear()
	if c.Len() != 0 {
		t.Fatalf("Len() = %d after Clear, want 0", c.Len())
	}
}
