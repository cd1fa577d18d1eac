package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/codex/internal/errors"
)

func TestSplitRegions(t *testing.T) {
	raw := "#!/bin/sh\n# __SOURCE__\nset -e\npayload='__PAYLOAD__'\nrun\n"

	tmpl, err := Split("Shell", raw)
	require.NoError(t, err)

	assert.Equal(t, "#!/bin/sh\n", tmpl.Preamble)
	assert.Equal(t, "# ", tmpl.CommentPrefix)
	assert.Equal(t, "", tmpl.CommentSuffix)
	assert.Equal(t, "set -e\npayload='", tmpl.Middle)
	assert.Equal(t, "'\nrun\n", tmpl.Postamble)
	assert.Equal(t, raw, tmpl.Join())
}

func TestSplitBlockComment(t *testing.T) {
	raw := "/* __SOURCE__ */\r\nint x;\nchar *p = \"__PAYLOAD__\";"

	tmpl, err := Split("C", raw)
	require.NoError(t, err)

	assert.Equal(t, "", tmpl.Preamble)
	assert.Equal(t, "/* ", tmpl.CommentPrefix)
	assert.Equal(t, " */", tmpl.CommentSuffix)
	assert.Equal(t, "int x;\nchar *p = \"", tmpl.Middle)
	assert.Equal(t, "\";", tmpl.Postamble)
}

func TestSplitMarkerContract(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		code string
	}{
		{"missing source", "x\n__PAYLOAD__\n", errors.CodeMissingMarker},
		{"missing payload", "# __SOURCE__\nx\n", errors.CodeMissingMarker},
		{"duplicate source", "# __SOURCE__\n# __SOURCE__\n__PAYLOAD__", errors.CodeDuplicateMarker},
		{"duplicate payload", "# __SOURCE__\n__PAYLOAD__ __PAYLOAD__", errors.CodeDuplicateMarker},
		{"same line", "# __SOURCE__ __PAYLOAD__\n", errors.CodeMarkersSameLine},
		{"same line reversed", "__PAYLOAD__ # __SOURCE__\n", errors.CodeMarkersSameLine},
		{"payload first", "__PAYLOAD__\n# __SOURCE__\n", errors.CodeMarkerOrder},
		{"no newline after source", "# __SOURCE__", errors.CodeMissingMarker},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := Split("Synthetic", tt.raw)
			require.Error(t, err)
			assert.Nil(t, tmpl)
			assert.True(t, errors.IsTemplateError(err))
			assert.Equal(t, tt.code, errors.CodeOf(err))
			assert.Equal(t, "Synthetic", errors.LanguageOf(err))
		})
	}
}

func TestSplitSyntheticScenario(t *testing.T) {
	tmpl, err := Split("Synthetic", "#!start\n# __SOURCE__\n__PAYLOAD__#end\n")
	require.NoError(t, err)

	assert.Equal(t, "#!start\n", tmpl.Preamble)
	assert.Equal(t, "# ", tmpl.CommentPrefix)
	assert.Equal(t, "", tmpl.CommentSuffix)
	assert.Equal(t, "", tmpl.Middle)
	assert.Equal(t, "#end\n", tmpl.Postamble)
}

func TestOutputName(t *testing.T) {
	tests := []struct {
		file     string
		expected string
	}{
		{"python.py", "program.py"},
		{"go.go.tmpl", "program.go"},
		{"csharp.cs", "program.cs"},
		{"plain.tmpl", "program"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			assert.Equal(t, tt.expected, (&Template{FileName: tt.file}).OutputName())
		})
	}
}
