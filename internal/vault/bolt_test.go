package vault

import (
	"errors"
	"testing"
)

func TestBoltVaultRoundTrip(t *testing.T) {
	dir := t.TempDir()

	v, err := OpenBolt(dir)
	if err != nil {
		t.Fatalf("open vault: %v", err)
	}

	if _, err := v.Get(KeyAuthToken); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := v.Set(KeyAuthToken, "tok-123"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := v.Set(KeyUserData, `{"id":"u1"}`); err != nil {
		t.Fatalf("set: %v", err)
	}

	token, err := v.Get(KeyAuthToken)
	if err != nil || token != "tok-123" {
		t.Fatalf("get token = %q, %v", token, err)
	}

	if err := v.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// Entries survive a reopen.
	v, err = OpenBolt(dir)
	if err != nil {
		t.Fatalf("reopen vault: %v", err)
	}
	defer v.Close()

	data, err := v.Get(KeyUserData)
	if err != nil || data != `{"id":"u1"}` {
		t.Fatalf("get after reopen = %q, %v", data, err)
	}

	if err := v.Delete(KeyUserData); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := v.Get(KeyUserData); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	// Deleting a missing key is not an error.
	if err := v.Delete(KeyUserData); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
}
