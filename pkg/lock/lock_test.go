package lock

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTryLock_AcquireAndUnlock(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "test.dat")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()

	l, err := TryLock(f)
	if err != nil {
		t.Fatalf("TryLock: %v", err)
	}
	if err := l.Unlock(); err != nil {
		t.Errorf("Unlock: %v", err)
	}
}

func TestTryLock_SecondHolderFails(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "test.dat")
	f1, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f1.Close()

	l1, err := TryLock(f1)
	if err != nil {
		t.Fatalf("first TryLock: %v", err)
	}
	defer l1.Unlock()

	f2, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f2.Close()

	_, err = TryLock(f2)
	if err != ErrWouldBlock {
		t.Errorf("expected ErrWouldBlock, got %v", err)
	}
}

func TestTryLock_ReleasedOnUnlockAllowsReacquire(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "test.dat")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()

	l1, err := TryLock(f)
	if err != nil {
		t.Fatalf("first TryLock: %v", err)
	}
	if err := l1.Unlock(); err != nil {
		t.Fatalf("Unlock: %v", err)
	}

	l2, err := TryLock(f)
	if err != nil {
		t.Fatalf("second TryLock: %v", err)
	}
	defer l2.Unlock()
}

func TestTryLock_ReleasedOnClose(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "test.dat")
	f1, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := TryLock(f1); err != nil {
		t.Fatalf("TryLock: %v", err)
	}
	if err := f1.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	f2, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f2.Close()

	l2, err := TryLock(f2)
	if err != nil {
		t.Fatalf("closing f1 should have released its flock, got: %v", err)
	}
	defer l2.Unlock()
}
