package neo4j

import "testing"

func TestSanitizeToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		token    string
		fallback string
		want     string
	}{
		{name: "clean type kept", token: "SIGNED_DEAL_WITH", fallback: "RELATED", want: "SIGNED_DEAL_WITH"},
		{name: "lowercase uppercased", token: "works for", fallback: "RELATED", want: "WORKS_FOR"},
		{name: "hyphens become underscores", token: "co-founder-of", fallback: "RELATED", want: "CO_FOUNDER_OF"},
		{name: "injection characters dropped", token: "X]->(n) DETACH DELETE n//", fallback: "RELATED", want: "X_N_DETACH_DELETE_N"},
		{name: "empty falls back", token: "", fallback: "RELATED", want: "RELATED"},
		{name: "symbols only falls back", token: "$$$", fallback: "RELATED", want: "RELATED"},
		{name: "leading digit falls back", token: "1ST_PLACE", fallback: "RELATED", want: "RELATED"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := sanitizeToken(tc.token, tc.fallback); got != tc.want {
				t.Fatalf("sanitizeToken(%q) = %q, want %q", tc.token, got, tc.want)
			}
		})
	}
}
