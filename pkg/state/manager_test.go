package state

import (
	"testing"
	"time"
)

func TestManagerGetSet(t *testing.T) {
	m := New()
	m.Set("clasp:/robot/x", 1.5)
	v, ok := m.Get("clasp:/robot/x")
	if !ok || v != 1.5 {
		t.Errorf("Get() = (%v, %v), want (1.5, true)", v, ok)
	}
}

func TestManagerGetMissingKey(t *testing.T) {
	m := New()
	if _, ok := m.Get("nope"); ok {
		t.Error("Get() on missing key should report false")
	}
}

func TestManagerTTLExpiry(t *testing.T) {
	m := New()
	m.SetWithTTL("k", "v", 5*time.Millisecond)
	if _, ok := m.Get("k"); !ok {
		t.Fatal("value should be readable immediately after SetWithTTL")
	}
	time.Sleep(15 * time.Millisecond)
	if _, ok := m.Get("k"); ok {
		t.Error("expired entry should not be returned by Get")
	}
}

func TestManagerCleanExpiredRemovesOnlyExpired(t *testing.T) {
	m := New()
	m.Set("permanent", 1)
	m.SetWithTTL("temp", 2, 5*time.Millisecond)
	time.Sleep(15 * time.Millisecond)

	removed := m.CleanExpired()
	if removed != 1 {
		t.Errorf("CleanExpired() removed %d, want 1", removed)
	}
	if m.Len() != 1 {
		t.Errorf("Len() after CleanExpired() = %d, want 1", m.Len())
	}
}

func TestManagerDeleteAndClear(t *testing.T) {
	m := New()
	m.Set("a", 1)
	m.Set("b", 2)
	m.Delete("a")
	if _, ok := m.Get("a"); ok {
		t.Error("deleted key should be gone")
	}
	if m.Len() != 1 {
		t.Errorf("Len() after Delete() = %d, want 1", m.Len())
	}
	m.Clear()
	if m.Len() != 0 {
		t.Errorf("Len() after Clear() = %d, want 0", m.Len())
	}
}
