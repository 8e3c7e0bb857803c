package compose

import "github.com/spec-kit/hr-intake/internal/domain"

// Fixed bilingual strings the engine emits outside the policy branches.

// Welcome is the assistant's opening turn.
func Welcome(lang domain.Language) string {
	if lang == domain.LanguageFR {
		return "Bonjour ! Je peux vous aider en français ou en anglais. Que puis-je faire ?"
	}
	return "Hello! I can help in English or French. What can I do for you?"
}

// Apology is emitted when the fallback collaborator is unavailable or
// returns a malformed reply.
func Apology(lang domain.Language) string {
	if lang == domain.LanguageFR {
		return "Désolé, problème technique. Je vous mets en relation avec un agent."
	}
	return "Sorry, having trouble. Let me connect you."
}

// NotUnderstood asks the employee to repeat themselves.
func NotUnderstood(lang domain.Language) string {
	if lang == domain.LanguageFR {
		return "Je n'ai pas compris. Pouvez-vous répéter?"
	}
	return "I didn't catch that. Could you repeat?"
}
