package nlu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/hr-intake/internal/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want domain.IntentCategory
		ok   bool
	}{
		{"sick english", "I need to call in sick tomorrow", domain.IntentSickLeave, true},
		{"sick french", "je suis malade aujourd'hui", domain.IntentSickLeave, true},
		{"conge french", "j'ai besoin d'un congé", domain.IntentSickLeave, true},
		{"conge plural", "mes congés de maladie", domain.IntentSickLeave, true},
		{"conge unaccented", "je veux un conge demain", domain.IntentSickLeave, true},
		{"overtime english", "can I get some overtime this week", domain.IntentOvertimeRequest, true},
		{"overtime abbreviation", "any OT available?", domain.IntentOvertimeRequest, true},
		{"overtime french", "des heures sup svp", domain.IntentOvertimeRequest, true},
		{"bare hours", "can I work 2 hours extra", domain.IntentOvertimeRequest, true},
		{"training", "I need to reschedule my training", domain.IntentTrainingReschedule, true},
		{"formation french", "déplacer ma formation", domain.IntentTrainingReschedule, true},
		{"balance", "what's my sick day balance", domain.IntentSickLeave, true}, // sick outranks balance
		{"balance only", "how many vacation credits do I have", domain.IntentBalanceQuery, true},
		{"solde french", "quel est mon solde", domain.IntentBalanceQuery, true},
		{"unmatched", "hello there, nice weather", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Classify(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyPriorityOrder(t *testing.T) {
	// Sick cues outrank overtime cues when both are present.
	got, ok := Classify("I'm sick, can someone take my 2 hours of overtime")
	assert.True(t, ok)
	assert.Equal(t, domain.IntentSickLeave, got)
}
