// Package session holds the studio's single mutable session: the active
// mode, the pending prompt and attachments, the last result or the running
// transcript, and the in-flight flag.
package session

import (
	"errors"
	"strings"
	"sync"
)

// Roles use the service's wire names so transcript entries replay unchanged.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// ChatEntry is one turn in a multi-turn mode.
type ChatEntry struct {
	Role    string
	Content string
}

// ResultKind tags the outcome of a single-shot mode.
type ResultKind int

const (
	ResultImage ResultKind = iota
	ResultText
	ResultError
)

// Result is the single-slot outcome of a one-shot mode. For images, Content
// carries the base64 bytes and SavedPath the file they were written to.
type Result struct {
	Kind      ResultKind
	Content   string
	SavedPath string
}

var (
	// ErrBusy rejects a submission while another one is outstanding.
	ErrBusy = errors.New("a submission is already in flight")
	// ErrEmptyPrompt rejects a submission without prompt text.
	ErrEmptyPrompt = errors.New("prompt is empty")
)

// Session is created once at startup and mutated in place; it is never
// persisted. All methods are safe for use from the UI loop and the single
// in-flight submission. OnChange, when set, fires after every mutation so an
// external renderer can redraw.
type Session struct {
	mu           sync.Mutex
	mode         Mode
	prompt       string
	imagePath    string
	textFilePath string
	result       *Result
	transcript   []ChatEntry
	busy         bool

	OnChange func()
}

func New() *Session {
	return &Session{mode: ModeImageGen}
}

func (s *Session) notify() {
	if s.OnChange != nil {
		s.OnChange()
	}
}

func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

func (s *Session) Prompt() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prompt
}

func (s *Session) SetPrompt(p string) {
	s.mu.Lock()
	s.prompt = p
	s.mu.Unlock()
	s.notify()
}

func (s *Session) ImagePath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.imagePath
}

func (s *Session) TextFilePath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.textFilePath
}

// Attach records path as the attachment for the current mode's kind. Modes
// without an attachment ignore it.
func (s *Session) Attach(path string) {
	s.mu.Lock()
	switch Describe(s.mode).Attachment {
	case AttachmentImage:
		s.imagePath = path
	case AttachmentTextFile:
		s.textFilePath = path
	}
	s.mu.Unlock()
	s.notify()
}

// ClearAttachments drops both attachments, called after a successful
// submission and on mode switches.
func (s *Session) ClearAttachments() {
	s.mu.Lock()
	s.imagePath = ""
	s.textFilePath = ""
	s.mu.Unlock()
	s.notify()
}

// Result returns a copy of the current single-shot outcome, or nil.
func (s *Session) Result() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return nil
	}
	r := *s.result
	return &r
}

// Transcript returns a copy of the chat history.
func (s *Session) Transcript() []ChatEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ChatEntry, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// SelectMode switches the active mode and resets the pending input, result,
// and transcript. Nothing leaks across modes. No-op while busy.
func (s *Session) SelectMode(m Mode) {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return
	}
	s.mode = m
	s.prompt = ""
	s.imagePath = ""
	s.textFilePath = ""
	s.result = nil
	s.transcript = nil
	s.mu.Unlock()
	s.notify()
}

// Begin starts a submission: it snapshots and clears the prompt and sets the
// busy flag. Attachments stay until the submission completes. Returns ErrBusy
// while another submission is outstanding and ErrEmptyPrompt for blank
// prompts; neither changes any state.
func (s *Session) Begin() (string, error) {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return "", ErrBusy
	}
	prompt := strings.TrimSpace(s.prompt)
	if prompt == "" {
		s.mu.Unlock()
		return "", ErrEmptyPrompt
	}
	s.prompt = ""
	s.busy = true
	s.mu.Unlock()
	s.notify()
	return prompt, nil
}

// AppendUser echoes the user's turn into the transcript. Chat modes call this
// at submit time, before the remote call returns.
func (s *Session) AppendUser(content string) {
	s.mu.Lock()
	s.transcript = append(s.transcript, ChatEntry{Role: RoleUser, Content: content})
	s.mu.Unlock()
	s.notify()
}

// CompleteResult finishes a single-shot submission with r.
func (s *Session) CompleteResult(r Result) {
	s.mu.Lock()
	s.result = &r
	s.busy = false
	s.mu.Unlock()
	s.notify()
}

// CompleteChat finishes a chat submission by appending the model's turn.
func (s *Session) CompleteChat(e ChatEntry) {
	s.mu.Lock()
	s.transcript = append(s.transcript, e)
	s.busy = false
	s.mu.Unlock()
	s.notify()
}
