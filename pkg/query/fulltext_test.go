package query

import "testing"

func TestFulltextQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "single word",
			input: "Acme",
			want:  "Acme~2",
		},
		{
			name:  "two words joined with AND",
			input: "Acme Corp",
			want:  "Acme~2 AND Corp~2",
		},
		{
			name:  "three words",
			input: "Acme Corp International",
			want:  "Acme~2 AND Corp~2 AND International~2",
		},
		{
			name:  "reserved characters stripped",
			input: `Acme+Corp (Global)`,
			want:  "Acme~2 AND Corp~2 AND Global~2",
		},
		{
			name:  "quotes and wildcards stripped",
			input: `"Acme*" ~Corp?`,
			want:  "Acme~2 AND Corp~2",
		},
		{
			name:  "extra whitespace collapsed",
			input: "  Acme   Corp  ",
			want:  "Acme~2 AND Corp~2",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
		{
			name:  "only reserved characters",
			input: `+-&&||!(){}[]^"~*?:\`,
			want:  "",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := FulltextQuery(tc.input); got != tc.want {
				t.Fatalf("FulltextQuery(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}
