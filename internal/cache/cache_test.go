package cache

import (
	"testing"
	"time"
)

func TestSearchKey(t *testing.T) {
	if got := SearchKey("moon landing", 4, ""); got != "moon landing-4-auto" {
		t.Errorf("SearchKey() = %q", got)
	}
	if got := SearchKey("moon landing", 4, "lang_en"); got != "moon landing-4-lang_en" {
		t.Errorf("SearchKey() = %q", got)
	}
}

func TestMemoryCache_SetGet(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	value := []byte("payload")
	if err := c.Set("k", value, 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	value[0] = 'X'

	got, ok := c.Get("k")
	if !ok {
		t.Fatal("expected hit")
	}
	if string(got) != "payload" {
		t.Errorf("Get() = %q, stored value must not alias caller slice", got)
	}

	got[0] = 'Y'
	again, _ := c.Get("k")
	if string(again) != "payload" {
		t.Errorf("Get() = %q, returned value must not alias stored slice", again)
	}
}

func TestMemoryCache_ExpiryAndOpportunisticSweep(t *testing.T) {
	c := NewMemoryCache(time.Minute, 0)
	_ = c.Set("k", []byte("v"), 20*time.Millisecond)

	time.Sleep(60 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Error("expected expired entry to miss")
	}

	_ = c.Set("other", []byte("v"), 0)
	if n := c.Len(); n != 1 {
		t.Errorf("expected expired entry to be swept on write, %d entries remain", n)
	}
}

func TestDiskCache_ExpiryUsesClock(t *testing.T) {
	c := NewDiskCache(t.TempDir(), 300*time.Second)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	if err := c.Set("q-4-auto", []byte(`[{"url":"a"}]`), 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	now = now.Add(299 * time.Second)
	if _, ok := c.Get("q-4-auto"); !ok {
		t.Fatal("expected hit before TTL")
	}

	now = now.Add(time.Second)
	if _, ok := c.Get("q-4-auto"); ok {
		t.Fatal("expected miss at TTL")
	}
}

func TestDiskCache_Overwrite(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)
	_ = c.Set("k", []byte("one"), 0)
	_ = c.Set("k", []byte("two"), 0)

	got, ok := c.Get("k")
	if !ok || string(got) != "two" {
		t.Errorf("Get() = %q, %v; want two, true", got, ok)
	}

	if err := c.Delete("k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := c.Delete("k"); err != nil {
		t.Errorf("Delete() of missing key error = %v", err)
	}
}

func TestLayeredCache_PromotesFromDisk(t *testing.T) {
	dir := t.TempDir()
	disk := NewDiskCache(dir, time.Minute)
	_ = disk.Set("k", []byte("v"), 0)

	c := NewLayeredCache(time.Minute, dir)
	got, ok := c.Get("k")
	if !ok || string(got) != "v" {
		t.Fatalf("Get() = %q, %v", got, ok)
	}

	if _, ok := c.fast.Get("k"); !ok {
		t.Error("expected disk hit to be promoted to memory")
	}
}
