package nlu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractEmployeeID(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"plain id", "my id is AC78923", "AC78923"},
		{"lowercase id", "ac45678 calling in sick", "AC45678"},
		{"id embedded in sentence", "This is employee AC90123, about my training", "AC90123"},
		{"no id", "I want to call in sick today", ""},
		{"too few digits", "my badge is AC1234", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			facts := Extract(tt.text)
			assert.Equal(t, tt.want, facts.EmployeeID)
			assert.Equal(t, tt.want, ExtractEmployeeID(tt.text))
		})
	}
}

func TestExtractHours(t *testing.T) {
	tests := []struct {
		name string
		text string
		want *int
	}{
		{"hours word", "I'd like 2 hours of overtime", intPtr(2)},
		{"hour singular", "just 1 hour please", intPtr(1)},
		{"h suffix", "can I get 3h extra", intPtr(3)},
		{"no number", "some overtime would be great", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			facts := Extract(tt.text)
			if tt.want == nil {
				assert.Nil(t, facts.Hours)
				return
			}
			require.NotNil(t, facts.Hours)
			assert.Equal(t, *tt.want, *facts.Hours)
		})
	}
}

func TestExtractDays(t *testing.T) {
	facts := Extract("I have 7 sick days remaining")
	require.NotNil(t, facts.Days)
	assert.Equal(t, 7, *facts.Days)

	// A bare day count without a balance qualifier is not a balance.
	facts = Extract("I was out 3 days ago")
	assert.Nil(t, facts.Days)
}

func TestExtractCombined(t *testing.T) {
	facts := Extract("AC78923 here, requesting 2 hours of overtime")
	assert.Equal(t, "AC78923", facts.EmployeeID)
	require.NotNil(t, facts.Hours)
	assert.Equal(t, 2, *facts.Hours)
	assert.Nil(t, facts.Days)
}

func intPtr(n int) *int { return &n }
