package ai

import (
	"errors"
	"reflect"
	"testing"
)

func TestNewCredentialPool(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		keys     []string
		wantKeys []string
		wantErr  error
	}{
		{
			name:     "keeps keys in order",
			keys:     []string{"key-a", "key-b", "key-c"},
			wantKeys: []string{"key-a", "key-b", "key-c"},
		},
		{
			name:     "drops blank entries",
			keys:     []string{"key-a", "", "  ", "key-b"},
			wantKeys: []string{"key-a", "key-b"},
		},
		{
			name:    "rejects empty input",
			keys:    nil,
			wantErr: ErrNoCredentials,
		},
		{
			name:    "rejects all-blank input",
			keys:    []string{"", "   ", "\t"},
			wantErr: ErrNoCredentials,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			pool, err := NewCredentialPool(tc.keys)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("NewCredentialPool(%v) error = %v, want %v", tc.keys, err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewCredentialPool(%v) unexpected error: %v", tc.keys, err)
			}
			if got := pool.Keys(); !reflect.DeepEqual(got, tc.wantKeys) {
				t.Fatalf("Keys() = %v, want %v", got, tc.wantKeys)
			}
		})
	}
}

func TestCredentialPoolAt(t *testing.T) {
	t.Parallel()

	keys := []string{"k0", "k1", "k2", "k3", "k4", "k5"}
	pool, err := NewCredentialPool(keys)
	if err != nil {
		t.Fatalf("NewCredentialPool: %v", err)
	}

	tests := []struct {
		name  string
		index int
		want  string
	}{
		{name: "first index", index: 0, want: "k0"},
		{name: "within first cycle", index: 5, want: "k5"},
		{name: "wraps to start", index: 6, want: "k0"},
		{name: "seventh batch uses second key", index: 7, want: "k1"},
		{name: "large index", index: 100, want: "k4"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := pool.At(tc.index); got != tc.want {
				t.Fatalf("At(%d) = %q, want %q", tc.index, got, tc.want)
			}
		})
	}
}

func TestCredentialPoolAtIsPure(t *testing.T) {
	t.Parallel()

	pool, err := NewCredentialPool([]string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("NewCredentialPool: %v", err)
	}

	// Repeated calls with the same index must always return the same key.
	for i := 0; i < 10; i++ {
		first := pool.At(i)
		for j := 0; j < 3; j++ {
			if got := pool.At(i); got != first {
				t.Fatalf("At(%d) changed between calls: %q then %q", i, first, got)
			}
		}
	}
}
