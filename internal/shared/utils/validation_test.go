package utils

import (
	"strings"
	"testing"

	"github.com/GriffinCanCode/filecore/internal/shared/types"
	"github.com/stretchr/testify/assert"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		wantErr   bool
	}{
		{"plain", "report.txt", false},
		{"spaces", "my documents", false},
		{"leading dot", ".config", false},
		{"unicode", "résumé", false},
		{"copy suffix", "notes - copy.md", false},
		{"empty", "", true},
		{"dot", ".", true},
		{"dot dot", "..", true},
		{"slash", "a/b", true},
		{"backslash", `a\b`, true},
		{"less than", "a<b", true},
		{"greater than", "a>b", true},
		{"colon", "a:b", true},
		{"quote", `a"b`, true},
		{"pipe", "a|b", true},
		{"question mark", "what?", true},
		{"asterisk", "*.txt", true},
		{"unix root", "/", true},
		{"drive", "C:", true},
		{"drive with slash", "d:/", true},
		{"null byte", "a\x00b", false},
		{"long", strings.Repeat("x", 300), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.candidate)
			if tt.wantErr {
				assert.ErrorIs(t, err, types.ErrInvalidName)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIsRootIdentifier(t *testing.T) {
	assert.True(t, isRootIdentifier("C:"))
	assert.True(t, isRootIdentifier(`z:\`))
	assert.True(t, isRootIdentifier("/"))
	assert.False(t, isRootIdentifier("C:x"))
	assert.False(t, isRootIdentifier("ab"))
}
