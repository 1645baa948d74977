package session

// Mode is the user-selected interaction type. It determines which remote
// operation runs, which attachment kind (if any) is required, and whether
// results accumulate in the transcript or overwrite the single result slot.
type Mode int

const (
	ModeImageGen Mode = iota
	ModeVision
	ModeFileChat
	ModeAgent
	ModePersonaChat
)

// Modes lists every mode in display order.
var Modes = []Mode{ModeImageGen, ModeVision, ModeFileChat, ModeAgent, ModePersonaChat}

func (m Mode) String() string {
	switch m {
	case ModeImageGen:
		return "Image Gen"
	case ModeVision:
		return "Vision"
	case ModeFileChat:
		return "File Chat"
	case ModeAgent:
		return "Agent"
	case ModePersonaChat:
		return "Brand Bot"
	default:
		return "unknown"
	}
}

// Chat reports whether the mode accumulates turns in the transcript instead
// of writing the single result slot.
func (m Mode) Chat() bool {
	return m == ModeAgent || m == ModePersonaChat
}

// AttachmentKind names the one attachment a mode can use.
type AttachmentKind int

const (
	AttachmentNone AttachmentKind = iota
	AttachmentImage
	AttachmentTextFile
)

// Descriptor is the per-mode configuration table: the input placeholder and
// the attachment kind the mode requires.
type Descriptor struct {
	Placeholder string
	Attachment  AttachmentKind
}

var descriptors = map[Mode]Descriptor{
	ModeImageGen:    {Placeholder: "A futuristic cityscape with flying cars...", Attachment: AttachmentNone},
	ModeVision:      {Placeholder: "What is in this image? Describe it in detail.", Attachment: AttachmentImage},
	ModeFileChat:    {Placeholder: "Summarize this document in three bullet points.", Attachment: AttachmentTextFile},
	ModeAgent:       {Placeholder: "Remind me to call the vet tomorrow at 3pm", Attachment: AttachmentNone},
	ModePersonaChat: {Placeholder: "Ask our brand bot a question...", Attachment: AttachmentNone},
}

// Describe returns the descriptor for m.
func Describe(m Mode) Descriptor {
	return descriptors[m]
}
