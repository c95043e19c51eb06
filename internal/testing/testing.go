// package testing contains shared testing utilities
package testing

import (
	"errors"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/staybook/internal/storage"
)

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

// FlakyKV wraps a [storage.Memory] and fails writes to keys registered with
// FailOn, or every operation after Break.
type FlakyKV struct {
	*storage.Memory

	mu      sync.Mutex
	failSet map[string]bool
	broken  bool
	writes  []string
}

func NewFlakyKV() *FlakyKV {
	return &FlakyKV{Memory: storage.NewMemory(), failSet: make(map[string]bool)}
}

// FailOn makes Set fail for key.
func (f *FlakyKV) FailOn(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failSet[key] = true
}

// Break makes every subsequent operation fail.
func (f *FlakyKV) Break() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.broken = true
}

// Writes returns the keys successfully written, in order.
func (f *FlakyKV) Writes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.writes...)
}

func (f *FlakyKV) Get(key string) (string, error) {
	f.mu.Lock()
	broken := f.broken
	f.mu.Unlock()
	if broken {
		return "", errors.New("storage unavailable")
	}
	return f.Memory.Get(key)
}

func (f *FlakyKV) Set(key, value string) error {
	f.mu.Lock()
	fail := f.broken || f.failSet[key]
	if !fail {
		f.writes = append(f.writes, key)
	}
	f.mu.Unlock()
	if fail {
		return errors.New("quota exceeded")
	}
	return f.Memory.Set(key, value)
}

func (f *FlakyKV) Remove(key string) error {
	f.mu.Lock()
	broken := f.broken
	f.mu.Unlock()
	if broken {
		return errors.New("storage unavailable")
	}
	return f.Memory.Remove(key)
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
