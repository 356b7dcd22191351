package domain

import (
	"context"
	"errors"
	"testing"
)

type stubGenerator struct {
	result Generation
	err    error
	got    Prompt
}

func (s *stubGenerator) Generate(_ context.Context, p Prompt) (Generation, error) {
	s.got = p
	return s.result, s.err
}

func TestInstructionGenerator_AppendsInstruction(t *testing.T) {
	inner := &stubGenerator{result: Generation{Text: "ok"}}
	gen := NewInstructionGenerator(inner, "Use British English.")

	result, err := gen.Generate(context.Background(), Prompt{System: "You are a storyteller.", User: "hi"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.got.System != "You are a storyteller.\n\nUse British English." {
		t.Errorf("unexpected system prompt %q", inner.got.System)
	}
	if inner.got.User != "hi" {
		t.Errorf("user prompt changed: %q", inner.got.User)
	}
	if result.Text != "ok" {
		t.Errorf("unexpected text %q", result.Text)
	}
}

func TestInstructionGenerator_EmptySystem(t *testing.T) {
	inner := &stubGenerator{}
	gen := NewInstructionGenerator(inner, "Be brief.")

	if _, err := gen.Generate(context.Background(), Prompt{User: "hi"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.got.System != "Be brief." {
		t.Errorf("unexpected system prompt %q", inner.got.System)
	}
}

func TestInstructionGenerator_EmptyInstruction(t *testing.T) {
	inner := &stubGenerator{}
	gen := NewInstructionGenerator(inner, "")

	if _, err := gen.Generate(context.Background(), Prompt{System: "sys"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.got.System != "sys" {
		t.Errorf("system prompt should be unchanged, got %q", inner.got.System)
	}
}

func TestInstructionGenerator_ErrorPropagation(t *testing.T) {
	innerErr := errors.New("provider down")
	gen := NewInstructionGenerator(&stubGenerator{err: innerErr}, "x")

	_, err := gen.Generate(context.Background(), Prompt{})
	if !errors.Is(err, innerErr) {
		t.Errorf("expected wrapped inner error, got %v", err)
	}
}
