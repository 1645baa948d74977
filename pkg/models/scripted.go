package models

import (
	"context"

	"github.com/Protocol-Lattice/gemini-studio/pkg/session"
)

// Scripted is a canned Client for tests and offline runs: every operation
// records its invocation and returns the configured response or error.
type Scripted struct {
	ImageData string
	Text      string
	Err       error

	// Calls lists the operations invoked, in order.
	Calls []string
	// LastPrompt, LastMIME, LastDocName capture the most recent arguments.
	LastPrompt  string
	LastMIME    string
	LastDocName string
	// HistoryLens records len(history) per persona call.
	HistoryLens []int
}

func (s *Scripted) GenerateImage(_ context.Context, prompt string) (string, error) {
	s.record("GenerateImage", prompt)
	if s.Err != nil {
		return "", s.Err
	}
	return s.ImageData, nil
}

func (s *Scripted) AnalyzeImage(_ context.Context, prompt, _, mimeType string) (string, error) {
	s.record("AnalyzeImage", prompt)
	s.LastMIME = mimeType
	if s.Err != nil {
		return "", s.Err
	}
	return s.Text, nil
}

func (s *Scripted) ChatWithDocument(_ context.Context, prompt, _, docName string) (string, error) {
	s.record("ChatWithDocument", prompt)
	s.LastDocName = docName
	if s.Err != nil {
		return "", s.Err
	}
	return s.Text, nil
}

func (s *Scripted) RunAgentTurn(_ context.Context, prompt string) (string, error) {
	s.record("RunAgentTurn", prompt)
	if s.Err != nil {
		return "", s.Err
	}
	return s.Text, nil
}

func (s *Scripted) ContinuePersonaChat(_ context.Context, prompt string, history []session.ChatEntry) (string, error) {
	s.record("ContinuePersonaChat", prompt)
	s.HistoryLens = append(s.HistoryLens, len(history))
	if s.Err != nil {
		return "", s.Err
	}
	return s.Text, nil
}

func (s *Scripted) record(op, prompt string) {
	s.Calls = append(s.Calls, op)
	s.LastPrompt = prompt
}

var _ Client = (*Scripted)(nil)
