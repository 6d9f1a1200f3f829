// Package prompt assembles the full prompt sent to the language model from
// the profile instruction, conversation history, retrieved knowledge-base
// context, and the user question.
package prompt

import (
	"fmt"
	"strings"
)

// userNamePlaceholder is the token inside profile instructions that gets
// replaced with the user's name.
const userNamePlaceholder = "{user_name}"

// emptyContextNotice is injected when retrieval found nothing relevant.
const emptyContextNotice = "Nenhum contexto da base de conhecimento foi encontrado para esta pergunta."

// Payload carries everything needed to build one prompt. Stages of the
// pipeline return fresh Payload values instead of mutating a shared one, so
// each stage stays independently testable.
type Payload struct {
	ProfileInstruction string
	UserName           string
	History            string
	KnowledgeContext   string
	Prompt             string
}

// Assemble builds the full prompt string. It is a pure function: no I/O,
// same inputs always produce the same output.
func Assemble(p Payload) string {
	instruction := strings.ReplaceAll(p.ProfileInstruction, userNamePlaceholder, p.UserName)

	context := p.KnowledgeContext
	if context == "" {
		context = emptyContextNotice
	}

	return fmt.Sprintf(`%s

Histórico da Conversa Atual:
%s

Base de Conhecimento Relevante:
---
%s
---

Pergunta do Utilizador (%s):
"%s"
`, instruction, p.History, context, p.UserName, p.Prompt)
}
