package prompt

import (
	"fmt"

	"github.com/plantdoc/PlantRAG/internal/domain/chatModel"
)

// Format selects the wire shape a completion backend expects.
type Format string

const (
	// FormatSystemRole carries the instruction as a separate system turn
	// (OpenAI-compatible backends).
	FormatSystemRole Format = "system_role"
	// FormatEmbedded folds the instruction into a leading user turn
	// (backends without a system role in their content list).
	FormatEmbedded Format = "embedded"
)

const personaTemplate = `You are an expert in plant diseases.
You give medical advice based on questions about plant diseases.
If the question is not related to plant diseases, politely decline to answer.
Respond in a professional tone like a doctor, not like a chatbot.
Provide accurate and concise responses within 200 words using the provided context.

Context: %s`

// Payload is one fully assembled generation request: the persona
// instruction with retrieved context interpolated once, plus the
// conversation turns in caller order.
type Payload struct {
	System string
	Turns  []chatModel.Turn
}

// Assemble builds the payload from the caller's flat history and the
// retrieved context string. History order is preserved exactly; nothing is
// deduplicated or truncated here.
func Assemble(history []string, context string) Payload {
	return Payload{
		System: fmt.Sprintf(personaTemplate, context),
		Turns:  chatModel.FromHistory(history),
	}
}

// Flatten renders the payload into a single ordered turn list in the
// requested format.
func (p Payload) Flatten(format Format) []chatModel.Turn {
	turns := make([]chatModel.Turn, 0, len(p.Turns)+1)
	switch format {
	case FormatEmbedded:
		turns = append(turns, chatModel.Turn{Role: chatModel.RoleUser, Text: p.System})
	default:
		turns = append(turns, chatModel.Turn{Role: chatModel.RoleSystem, Text: p.System})
	}
	return append(turns, p.Turns...)
}
