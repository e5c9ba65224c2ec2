// Package agent runs a chat turn: it composes the tool and memory
// context for a query, calls the language model and persists the
// exchange.
package agent

// systemPrompt frames the assistant persona. The %s slot carries the
// rendered memory context, or an empty string when there is none.
const systemPrompt = `You are a helpful, friendly, and knowledgeable AI assistant. You engage in natural conversation while being accurate and informative.

Guidelines:
- Be conversational and warm, but stay focused on being helpful
- If you don't know something, admit it honestly
- Provide clear, well-structured responses
- Use markdown formatting when it helps readability
- Remember context from the conversation

%s`

// titlePrompt asks the model for a 3-6 word conversation title based
// on the opening user message.
const titlePrompt = `Generate a short, descriptive title for this conversation based on the first user message. The title should be 3-6 words maximum.

User message: %s

Title:`
