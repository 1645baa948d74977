package models

import (
	"context"

	"github.com/Protocol-Lattice/gemini-studio/pkg/session"
)

// Client is the studio's view of the generative service: five request
// shapes, one network call each, no local retries and no local timeout.
type Client interface {
	// GenerateImage returns the first generated image, base64-encoded.
	GenerateImage(ctx context.Context, prompt string) (string, error)

	// AnalyzeImage answers a question about a base64-encoded image.
	AnalyzeImage(ctx context.Context, prompt, imageData, mimeType string) (string, error)

	// ChatWithDocument answers a question grounded in the full document text.
	ChatWithDocument(ctx context.Context, prompt, docText, docName string) (string, error)

	// RunAgentTurn runs one tool-calling turn; a setReminder call is rendered
	// to a confirmation, plain text is returned verbatim.
	RunAgentTurn(ctx context.Context, prompt string) (string, error)

	// ContinuePersonaChat replays history, appends prompt as the newest user
	// turn, and returns the persona model's reply.
	ContinuePersonaChat(ctx context.Context, prompt string, history []session.ChatEntry) (string, error)
}
