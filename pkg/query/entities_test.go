package query

import (
	"context"
	"errors"
	"testing"
)

func TestExtractEntities(t *testing.T) {
	t.Parallel()

	t.Run("trims and drops blank names", func(t *testing.T) {
		client := &fakeClient{format: func(out any) error {
			r := out.(*entityResponse)
			r.Names = []string{" Acme Corp ", "", "   ", "Globex"}
			return nil
		}}

		got, err := ExtractEntities(context.Background(), client, "How are Acme Corp and Globex related?")
		if err != nil {
			t.Fatalf("ExtractEntities: %v", err)
		}
		if len(got) != 2 || got[0] != "Acme Corp" || got[1] != "Globex" {
			t.Fatalf("entities = %v", got)
		}
	})

	t.Run("empty list is a valid outcome", func(t *testing.T) {
		client := &fakeClient{format: func(out any) error {
			r := out.(*entityResponse)
			r.Names = nil
			return nil
		}}

		got, err := ExtractEntities(context.Background(), client, "What is your refund policy?")
		if err != nil {
			t.Fatalf("ExtractEntities: %v", err)
		}
		if len(got) != 0 {
			t.Fatalf("entities = %v, want none", got)
		}
	})

	t.Run("model failure surfaces", func(t *testing.T) {
		client := &fakeClient{format: func(out any) error {
			return errors.New("bad output")
		}}

		if _, err := ExtractEntities(context.Background(), client, "question"); err == nil {
			t.Fatal("expected error")
		}
	})
}
