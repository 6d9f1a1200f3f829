package budget

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jmcampos/techexpert/internal/prompt"
)

// countByLength approximates tokens as len(text)/4, the same expansion
// factor the truncation heuristic assumes.
type countByLength struct{ err error }

func (c countByLength) CountTokens(_ context.Context, text string) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	return len(text) / 4, nil
}

func basePayload() prompt.Payload {
	return prompt.Payload{
		ProfileInstruction: "answer {user_name}",
		UserName:           "Rui",
		History:            strings.Repeat("old exchange. ", 50),
		KnowledgeContext:   strings.Repeat("snippet text. ", 50),
		Prompt:             "question?",
	}
}

func TestEnforceUnderBudgetUnchanged(t *testing.T) {
	m := NewManager(countByLength{}, WithMaxTokens(100_000))
	p := basePayload()

	got := m.Enforce(context.Background(), p)
	if got != p {
		t.Error("payload under budget should pass through unchanged")
	}
}

func TestEnforceIdempotentOnceCompliant(t *testing.T) {
	m := NewManager(countByLength{}, WithMaxTokens(100))
	p := basePayload()

	once := m.Enforce(context.Background(), p)
	twice := m.Enforce(context.Background(), once)
	if once != twice {
		t.Error("enforcing an already-compliant payload must be a no-op")
	}
}

func TestEnforceTruncatesContextBeforeHistory(t *testing.T) {
	m := NewManager(countByLength{}, WithMaxTokens(250))
	p := basePayload()

	got := m.Enforce(context.Background(), p)

	if len(got.KnowledgeContext) >= len(p.KnowledgeContext) {
		t.Error("expected knowledge context to shrink")
	}
	if len(got.History) != len(p.History) {
		t.Error("history must stay intact while context alone covers the overflow")
	}
	if got.Prompt != p.Prompt || got.UserName != p.UserName {
		t.Error("only context and history may be truncated")
	}
}

func TestEnforceSpillsIntoHistoryHead(t *testing.T) {
	// Tiny budget: removing the full context is not enough.
	m := NewManager(countByLength{}, WithMaxTokens(10))
	p := basePayload()

	got := m.Enforce(context.Background(), p)

	if got.KnowledgeContext != "" {
		t.Errorf("expected whole context removed, still have %d chars", len(got.KnowledgeContext))
	}
	if len(got.History) >= len(p.History) {
		t.Error("expected history to shrink once context is exhausted")
	}
	// Head-first removal keeps the most recent tail.
	if got.History != "" && !strings.HasSuffix(p.History, got.History) {
		t.Error("history must be truncated from the head")
	}
}

func TestEnforceSkipsOnCounterError(t *testing.T) {
	m := NewManager(countByLength{err: errors.New("tokenizer down")}, WithMaxTokens(10))
	p := basePayload()

	got := m.Enforce(context.Background(), p)
	if got != p {
		t.Error("counter failure must pass the payload through unmodified")
	}
}

func TestCharHeuristicBudgetSize(t *testing.T) {
	p := prompt.Payload{KnowledgeContext: strings.Repeat("x", 1000)}

	got := CharHeuristic{}.Truncate(p, 100)

	// ceil(100 * 4 * 1.1) = 440 characters removed.
	want := 1000 - 440
	if len(got.KnowledgeContext) != want {
		t.Errorf("got %d chars left, want %d", len(got.KnowledgeContext), want)
	}
}
