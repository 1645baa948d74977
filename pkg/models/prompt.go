package models

import (
	"fmt"

	"google.golang.org/genai"

	"github.com/Protocol-Lattice/gemini-studio/pkg/session"
)

// DocumentPrompt frames a document as delimited context with the user's
// question appended.
func DocumentPrompt(question, docText, docName string) string {
	return fmt.Sprintf(`CONTEXT from the file %q:
---
%s
---

Based on the context above, answer the following question:
%s`, docName, docText, question)
}

// PersonaContents replays prior turns in order as alternating roles and
// appends prompt as the newest user turn. The persona instruction is not
// part of the result; it travels out-of-band as the system instruction.
func PersonaContents(prompt string, history []session.ChatEntry) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, turn := range history {
		var role genai.Role = genai.RoleUser
		if turn.Role == session.RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(turn.Content, role))
	}
	return append(contents, genai.NewContentFromText(prompt, genai.RoleUser))
}
