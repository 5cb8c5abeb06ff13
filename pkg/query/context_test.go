package query

import "testing"

func TestAssembleContext(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		structured   string
		unstructured []string
		want         string
	}{
		{
			name:         "both channels populated",
			structured:   "Acme Corp - SIGNED_DEAL_WITH -> Globex",
			unstructured: []string{"chunk one", "chunk two"},
			want:         "Structured data:\nAcme Corp - SIGNED_DEAL_WITH -> Globex\nUnstructured data:\nchunk one#Document chunk two",
		},
		{
			name:         "empty structured channel",
			structured:   "",
			unstructured: []string{"only chunk"},
			want:         "Structured data:\n\nUnstructured data:\nonly chunk",
		},
		{
			name:         "empty unstructured channel",
			structured:   "A - KNOWS -> B",
			unstructured: nil,
			want:         "Structured data:\nA - KNOWS -> B\nUnstructured data:\n",
		},
		{
			name:         "both channels empty",
			structured:   "",
			unstructured: nil,
			want:         "Structured data:\n\nUnstructured data:\n",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := AssembleContext(tc.structured, tc.unstructured); got != tc.want {
				t.Fatalf("AssembleContext() = %q, want %q", got, tc.want)
			}
		})
	}
}
