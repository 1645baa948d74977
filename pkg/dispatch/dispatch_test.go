package dispatch

import (
	"context"
	"encoding/base64"
	"os"
	"strings"
	"testing"

	"github.com/Protocol-Lattice/gemini-studio/pkg/models"
	"github.com/Protocol-Lattice/gemini-studio/pkg/session"
)

func newFixture(t *testing.T, client *models.Scripted) (*Dispatcher, *session.Session) {
	t.Helper()
	sess := session.New()
	return New(client, sess, t.TempDir()), sess
}

func TestSubmitEmptyPromptIsNoOp(t *testing.T) {
	client := &models.Scripted{}
	d, sess := newFixture(t, client)

	for _, mode := range session.Modes {
		sess.SelectMode(mode)
		if d.Submit(context.Background()) {
			t.Fatalf("%v: empty prompt should not start a submission", mode)
		}
	}
	if sess.Busy() {
		t.Fatalf("busy must stay false")
	}
	if len(client.Calls) != 0 {
		t.Fatalf("client should never be invoked, got %v", client.Calls)
	}
}

func TestSubmitWhileBusyIsNoOp(t *testing.T) {
	client := &models.Scripted{Text: "hi"}
	d, sess := newFixture(t, client)
	sess.SelectMode(session.ModeAgent)

	sess.SetPrompt("first")
	if _, err := sess.Begin(); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	sess.SetPrompt("second")
	if d.Submit(context.Background()) {
		t.Fatalf("submission while busy must be a silent no-op")
	}
	if len(client.Calls) != 0 {
		t.Fatalf("client should not be invoked, got %v", client.Calls)
	}
	if len(sess.Transcript()) != 0 {
		t.Fatalf("transcript should be untouched")
	}
}

func TestVisionWithoutImageFailsBeforeClient(t *testing.T) {
	client := &models.Scripted{Text: "a cat"}
	d, sess := newFixture(t, client)
	sess.SelectMode(session.ModeVision)
	sess.SetPrompt("what is this?")

	if !d.Submit(context.Background()) {
		t.Fatalf("submission should start")
	}

	r := sess.Result()
	if r == nil || r.Kind != session.ResultError {
		t.Fatalf("expected an error result, got %+v", r)
	}
	if !strings.Contains(r.Content, "image") {
		t.Fatalf("error should mention the missing image: %q", r.Content)
	}
	if len(client.Calls) != 0 {
		t.Fatalf("client must never be invoked, got %v", client.Calls)
	}
	if sess.Busy() {
		t.Fatalf("busy must not stay set")
	}
}

func TestFileChatWithoutFileFailsBeforeClient(t *testing.T) {
	client := &models.Scripted{Text: "a summary"}
	d, sess := newFixture(t, client)
	sess.SelectMode(session.ModeFileChat)
	sess.SetPrompt("summarize")

	d.Submit(context.Background())

	r := sess.Result()
	if r == nil || r.Kind != session.ResultError {
		t.Fatalf("expected an error result, got %+v", r)
	}
	if !strings.Contains(r.Content, "file") {
		t.Fatalf("error should mention the missing file: %q", r.Content)
	}
	if len(client.Calls) != 0 {
		t.Fatalf("client must never be invoked, got %v", client.Calls)
	}
}

func TestImageGenRoundTrip(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte("png-bytes"))
	client := &models.Scripted{ImageData: encoded}
	d, sess := newFixture(t, client)
	sess.SetPrompt("a futuristic cityscape")

	d.Submit(context.Background())

	r := sess.Result()
	if r == nil || r.Kind != session.ResultImage {
		t.Fatalf("expected an image result, got %+v", r)
	}
	if r.Content != encoded {
		t.Fatalf("result content must equal the encoded bytes")
	}
	saved, err := os.ReadFile(r.SavedPath)
	if err != nil {
		t.Fatalf("saved image unreadable: %v", err)
	}
	if string(saved) != "png-bytes" {
		t.Fatalf("saved image content mismatch: %q", saved)
	}
}

func TestImageGenNoImageYieldsError(t *testing.T) {
	client := &models.Scripted{Err: models.ErrNoImage}
	d, sess := newFixture(t, client)
	sess.SetPrompt("a cat")

	d.Submit(context.Background())

	r := sess.Result()
	if r == nil || r.Kind != session.ResultError {
		t.Fatalf("expected an error result, got %+v", r)
	}
	if !strings.Contains(r.Content, "no image") {
		t.Fatalf("unexpected error text: %q", r.Content)
	}
}

func TestVisionSuccessEncodesAttachment(t *testing.T) {
	client := &models.Scripted{Text: "a tabby cat"}
	d, sess := newFixture(t, client)
	sess.SelectMode(session.ModeVision)

	path := writeFixture(t, "cat.png", []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 1, 2, 3})
	sess.Attach(path)
	sess.SetPrompt("what is this?")

	d.Submit(context.Background())

	r := sess.Result()
	if r == nil || r.Kind != session.ResultText || r.Content != "a tabby cat" {
		t.Fatalf("unexpected result: %+v", r)
	}
	if client.LastMIME != "image/png" {
		t.Fatalf("sniffed mime should reach the client, got %q", client.LastMIME)
	}
	if sess.ImagePath() != "" {
		t.Fatalf("attachment should clear after a successful submission")
	}
}

func TestFileChatPassesDocumentName(t *testing.T) {
	client := &models.Scripted{Text: "three bullets"}
	d, sess := newFixture(t, client)
	sess.SelectMode(session.ModeFileChat)

	path := writeFixture(t, "notes.md", []byte("# Notes\nsome text"))
	sess.Attach(path)
	sess.SetPrompt("summarize this")

	d.Submit(context.Background())

	r := sess.Result()
	if r == nil || r.Kind != session.ResultText {
		t.Fatalf("unexpected result: %+v", r)
	}
	if client.LastDocName != "notes.md" {
		t.Fatalf("client should get the base file name, got %q", client.LastDocName)
	}
}

func TestAgentTurnAppendsBothSides(t *testing.T) {
	client := &models.Scripted{Text: `OK! I've set a reminder for you to "Call the vet" on Thu, 15 Aug 2024 at 3:00 PM.`}
	d, sess := newFixture(t, client)
	sess.SelectMode(session.ModeAgent)
	sess.SetPrompt("Remind me to call the vet")

	d.Submit(context.Background())

	transcript := sess.Transcript()
	if len(transcript) != 2 {
		t.Fatalf("expected user + model turns, got %d", len(transcript))
	}
	if transcript[0].Role != session.RoleUser || transcript[0].Content != "Remind me to call the vet" {
		t.Fatalf("user turn wrong: %+v", transcript[0])
	}
	if transcript[1].Role != session.RoleModel || !strings.Contains(transcript[1].Content, "Call the vet") {
		t.Fatalf("model turn wrong: %+v", transcript[1])
	}
}

func TestAgentFailureBecomesErrorTurn(t *testing.T) {
	client := &models.Scripted{Err: context.DeadlineExceeded}
	d, sess := newFixture(t, client)
	sess.SelectMode(session.ModeAgent)
	sess.SetPrompt("remind me")

	d.Submit(context.Background())

	transcript := sess.Transcript()
	if len(transcript) != 2 {
		t.Fatalf("expected user + error turns, got %d", len(transcript))
	}
	if !strings.HasPrefix(transcript[1].Content, "Error: ") {
		t.Fatalf("error turn should be prefixed: %q", transcript[1].Content)
	}
	if sess.Busy() {
		t.Fatalf("busy must not stay set after a failure")
	}
}

func TestPersonaChatTranscriptOrdering(t *testing.T) {
	client := &models.Scripted{Text: "Great question!"}
	d, sess := newFixture(t, client)
	sess.SelectMode(session.ModePersonaChat)

	prompts := []string{"Who are you?", "What does Innovate Inc. do?", "Thanks!"}
	for _, p := range prompts {
		sess.SetPrompt(p)
		d.Submit(context.Background())
	}

	transcript := sess.Transcript()
	if len(transcript) != 2*len(prompts) {
		t.Fatalf("expected %d turns, got %d", 2*len(prompts), len(transcript))
	}
	for i, entry := range transcript {
		want := session.RoleUser
		if i%2 == 1 {
			want = session.RoleModel
		}
		if entry.Role != want {
			t.Fatalf("turn %d: expected role %q, got %q", i, want, entry.Role)
		}
	}

	// Each call must replay only the turns before the current prompt.
	wantLens := []int{0, 2, 4}
	for i, n := range client.HistoryLens {
		if n != wantLens[i] {
			t.Fatalf("call %d: expected %d history turns, got %d", i, wantLens[i], n)
		}
	}
}

func writeFixture(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := t.TempDir() + "/" + name
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}
