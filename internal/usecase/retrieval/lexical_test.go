package retrieval

import (
	"testing"

	"github.com/shoplens/discovery/internal/domain"
)

func lexicalCorpus() []domain.Product {
	return []domain.Product{
		{ID: "p1", Name: "Red Running Shoes", Description: "Lightweight running shoes"},
		{ID: "p2", Name: "Blue Trail Runners", Description: "Rugged trail shoes"},
		{ID: "p3", Name: "Leather Belt", Description: "Full-grain leather belt"},
	}
}

func TestLexicalRank_OrdersByOverlap(t *testing.T) {
	cands := lexicalRank("red running shoes", lexicalCorpus(), 3)
	if len(cands) != 2 {
		t.Fatalf("got %d candidates, want 2", len(cands))
	}
	if cands[0].Product.ID != "p1" {
		t.Errorf("top candidate = %s, want p1", cands[0].Product.ID)
	}
	if cands[0].Score <= cands[1].Score {
		t.Errorf("scores not descending: %v, %v", cands[0].Score, cands[1].Score)
	}
}

func TestLexicalRank_DropsZeroHits(t *testing.T) {
	cands := lexicalRank("quantum telescope", lexicalCorpus(), 3)
	if len(cands) != 0 {
		t.Errorf("got %d candidates, want 0", len(cands))
	}
}

func TestLexicalRank_TruncatesToTopK(t *testing.T) {
	cands := lexicalRank("shoes", lexicalCorpus(), 1)
	if len(cands) != 1 {
		t.Errorf("got %d candidates, want 1", len(cands))
	}
}

func TestLexicalRank_Deterministic(t *testing.T) {
	first := lexicalRank("shoes belt", lexicalCorpus(), 3)
	for i := 0; i < 5; i++ {
		again := lexicalRank("shoes belt", lexicalCorpus(), 3)
		if len(again) != len(first) {
			t.Fatalf("run %d: got %d candidates, want %d", i, len(again), len(first))
		}
		for j := range first {
			if again[j].Product.ID != first[j].Product.ID {
				t.Errorf("run %d: position %d = %s, want %s",
					i, j, again[j].Product.ID, first[j].Product.ID)
			}
		}
	}
}

func TestLexicalRank_TiesKeepCorpusOrder(t *testing.T) {
	// p1 and p2 both match "shoes" with identical scores.
	cands := lexicalRank("shoes", lexicalCorpus(), 3)
	if len(cands) != 2 {
		t.Fatalf("got %d candidates, want 2", len(cands))
	}
	if cands[0].Product.ID != "p1" || cands[1].Product.ID != "p2" {
		t.Errorf("tie order = [%s %s], want corpus order [p1 p2]",
			cands[0].Product.ID, cands[1].Product.ID)
	}
}

func TestLexicalRank_EmptyQuery(t *testing.T) {
	if cands := lexicalRank("", lexicalCorpus(), 3); cands != nil {
		t.Errorf("got %v, want nil for empty query", cands)
	}
	if cands := lexicalRank("!!! ???", lexicalCorpus(), 3); cands != nil {
		t.Errorf("got %v, want nil for punctuation-only query", cands)
	}
}

func TestTokenize_DeduplicatesPreservingOrder(t *testing.T) {
	tokens := tokenize("Red, red SHOES! shoes")
	want := []string{"red", "shoes"}
	if len(tokens) != len(want) {
		t.Fatalf("tokenize = %v, want %v", tokens, want)
	}
	for i := range want {
		if tokens[i] != want[i] {
			t.Errorf("token[%d] = %q, want %q", i, tokens[i], want[i])
		}
	}
}
