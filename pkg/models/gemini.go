package models

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/Protocol-Lattice/gemini-studio/pkg/session"
	"github.com/Protocol-Lattice/gemini-studio/pkg/tools"
)

// ErrNoImage signals an image request that came back without any inline
// image part, typically because the response was blocked.
var ErrNoImage = errors.New("no image was generated; the response may have been blocked")

// Gemini implements Client against the Gemini API.
type Gemini struct {
	client *genai.Client

	imageModel         string
	textModel          string
	personaModel       string
	personaInstruction string
}

// Options configure a new Gemini client.
type Options struct {
	APIKey             string
	ImageModel         string
	TextModel          string
	PersonaModel       string
	PersonaInstruction string
}

func NewGemini(ctx context.Context, opts Options) (*Gemini, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("missing GEMINI_API_KEY")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini init: %w", err)
	}
	return &Gemini{
		client:             client,
		imageModel:         opts.ImageModel,
		textModel:          opts.TextModel,
		personaModel:       opts.PersonaModel,
		personaInstruction: opts.PersonaInstruction,
	}, nil
}

// GenerateImage requests an image-only response and returns the first inline
// image part, base64-encoded.
func (g *Gemini) GenerateImage(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.imageModel, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE"},
	})
	if err != nil {
		return "", fmt.Errorf("image generation: %w", err)
	}
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return base64.StdEncoding.EncodeToString(part.InlineData.Data), nil
			}
		}
	}
	return "", ErrNoImage
}

// AnalyzeImage sends the image and the question as one multimodal request.
func (g *Gemini) AnalyzeImage(ctx context.Context, prompt, imageData, mimeType string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(imageData)
	if err != nil {
		return "", fmt.Errorf("decode image attachment: %w", err)
	}
	content := genai.NewContentFromParts([]*genai.Part{
		genai.NewPartFromBytes(raw, mimeType),
		genai.NewPartFromText(prompt),
	}, genai.RoleUser)

	resp, err := g.client.Models.GenerateContent(ctx, g.textModel, []*genai.Content{content}, nil)
	if err != nil {
		return "", fmt.Errorf("image analysis: %w", err)
	}
	return resp.Text(), nil
}

// ChatWithDocument prepends the document as delimited context and asks the
// question against it.
func (g *Gemini) ChatWithDocument(ctx context.Context, prompt, docText, docName string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.textModel, genai.Text(DocumentPrompt(prompt, docText, docName)), nil)
	if err != nil {
		return "", fmt.Errorf("document chat: %w", err)
	}
	return resp.Text(), nil
}

// RunAgentTurn declares the setReminder tool for a single turn. A structured
// call is rendered to a confirmation; plain text comes back verbatim.
func (g *Gemini) RunAgentTurn(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.textModel, genai.Text(prompt), &genai.GenerateContentConfig{
		Tools: []*genai.Tool{
			{FunctionDeclarations: []*genai.FunctionDeclaration{tools.ReminderDeclaration()}},
		},
	})
	if err != nil {
		return "", fmt.Errorf("agent turn: %w", err)
	}
	for _, call := range resp.FunctionCalls() {
		if call.Name == tools.ReminderName {
			return tools.RenderReminder(call.Args)
		}
	}
	return resp.Text(), nil
}

// ContinuePersonaChat replays the transcript and appends the new prompt. The
// persona instruction rides as the system instruction, never as a turn.
func (g *Gemini) ContinuePersonaChat(ctx context.Context, prompt string, history []session.ChatEntry) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.personaModel, PersonaContents(prompt, history), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(g.personaInstruction, genai.RoleUser),
	})
	if err != nil {
		return "", fmt.Errorf("persona chat: %w", err)
	}
	return resp.Text(), nil
}

var _ Client = (*Gemini)(nil)
