// Package dispatch routes one submission at a time from the session to the
// matching remote operation and writes the outcome back.
package dispatch

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Protocol-Lattice/gemini-studio/pkg/codec"
	"github.com/Protocol-Lattice/gemini-studio/pkg/models"
	"github.com/Protocol-Lattice/gemini-studio/pkg/session"
)

// Validation errors reject a submission before any encoding or network work.
var (
	ErrImageRequired = errors.New("please upload an image to analyze")
	ErrFileRequired  = errors.New("please upload a file to chat with")
)

// Dispatcher is the only state machine in the studio: {Idle, Submitting},
// with submit and completion as the only transitions.
type Dispatcher struct {
	client  models.Client
	session *session.Session

	// outputDir receives generated images; empty means current directory.
	outputDir string
}

func New(client models.Client, sess *session.Session, outputDir string) *Dispatcher {
	return &Dispatcher{client: client, session: sess, outputDir: outputDir}
}

// Submit runs the submission state machine once and reports whether a
// submission actually started. A busy session or a blank prompt is a silent
// no-op. Every other error, local or remote, ends up as a mode-appropriate
// user-visible message; none escapes, and busy is never left set.
func (d *Dispatcher) Submit(ctx context.Context) bool {
	// Chat history is captured before the user turn is echoed, so the
	// remote call replays only prior turns.
	history := d.session.Transcript()

	prompt, err := d.session.Begin()
	if err != nil {
		return false
	}

	mode := d.session.Mode()
	if mode.Chat() {
		d.session.AppendUser(prompt)
	}

	switch mode {
	case session.ModeImageGen:
		d.generateImage(ctx, prompt)
	case session.ModeVision:
		d.analyzeImage(ctx, prompt)
	case session.ModeFileChat:
		d.chatWithFile(ctx, prompt)
	case session.ModeAgent:
		d.agentTurn(ctx, prompt)
	case session.ModePersonaChat:
		d.personaTurn(ctx, prompt, history)
	}
	return true
}

func (d *Dispatcher) generateImage(ctx context.Context, prompt string) {
	data, err := d.client.GenerateImage(ctx, prompt)
	if err != nil {
		d.fail(session.ModeImageGen, err)
		return
	}
	saved, err := d.saveImage(data)
	if err != nil {
		d.fail(session.ModeImageGen, err)
		return
	}
	d.session.ClearAttachments()
	d.session.CompleteResult(session.Result{Kind: session.ResultImage, Content: data, SavedPath: saved})
}

func (d *Dispatcher) analyzeImage(ctx context.Context, prompt string) {
	path := d.session.ImagePath()
	if path == "" {
		d.fail(session.ModeVision, ErrImageRequired)
		return
	}
	data, mimeType, err := codec.EncodeBinary(path)
	if err != nil {
		d.fail(session.ModeVision, err)
		return
	}
	text, err := d.client.AnalyzeImage(ctx, prompt, data, mimeType)
	if err != nil {
		d.fail(session.ModeVision, err)
		return
	}
	d.session.ClearAttachments()
	d.session.CompleteResult(session.Result{Kind: session.ResultText, Content: text})
}

func (d *Dispatcher) chatWithFile(ctx context.Context, prompt string) {
	path := d.session.TextFilePath()
	if path == "" {
		d.fail(session.ModeFileChat, ErrFileRequired)
		return
	}
	docText, err := codec.ReadText(path)
	if err != nil {
		d.fail(session.ModeFileChat, err)
		return
	}
	text, err := d.client.ChatWithDocument(ctx, prompt, docText, filepath.Base(path))
	if err != nil {
		d.fail(session.ModeFileChat, err)
		return
	}
	d.session.ClearAttachments()
	d.session.CompleteResult(session.Result{Kind: session.ResultText, Content: text})
}

func (d *Dispatcher) agentTurn(ctx context.Context, prompt string) {
	reply, err := d.client.RunAgentTurn(ctx, prompt)
	if err != nil {
		d.fail(session.ModeAgent, err)
		return
	}
	d.session.CompleteChat(session.ChatEntry{Role: session.RoleModel, Content: reply})
}

func (d *Dispatcher) personaTurn(ctx context.Context, prompt string, history []session.ChatEntry) {
	reply, err := d.client.ContinuePersonaChat(ctx, prompt, history)
	if err != nil {
		d.fail(session.ModePersonaChat, err)
		return
	}
	d.session.CompleteChat(session.ChatEntry{Role: session.RoleModel, Content: reply})
}

// fail converts any error into the mode's user-visible form: an error result
// for single-shot modes, an "Error: ..." model turn for chat modes.
func (d *Dispatcher) fail(mode session.Mode, err error) {
	if mode.Chat() {
		d.session.CompleteChat(session.ChatEntry{Role: session.RoleModel, Content: "Error: " + err.Error()})
		return
	}
	d.session.CompleteResult(session.Result{Kind: session.ResultError, Content: err.Error()})
}

// saveImage writes the generated image to the output directory so a terminal
// user has something to open.
func (d *Dispatcher) saveImage(encoded string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("decode generated image: %w", err)
	}
	dir := d.outputDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}
	path := filepath.Join(dir, fmt.Sprintf("gemini-%d.png", time.Now().UnixNano()))
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
