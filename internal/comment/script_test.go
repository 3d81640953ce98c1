package comment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScriptTagger_Han(t *testing.T) {
	tagger := DefaultTagger()
	tests := []struct {
		text string
		want Lang
	}{
		{"", LangUnknown},
		{"TODO", LangUnknown},
		{"fix it", LangUnknown},
		{"This is an English comment", LangForeign},
		{"ＦＵＬＬ　ＷＩＤＴＨ　ＴＥＸＴ", LangForeign},
		{"这是一个中文注释", LangNative},
		{"这是中英文混合注释 This is a mixed comment", LangNative},
		{"1 2 3 4", LangUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, tagger.Tag(tt.text))
		})
	}
}

func TestScriptTagger_LatinNative(t *testing.T) {
	tagger, err := NewScriptTagger("Latin", 3, 0.9)
	require.NoError(t, err)
	assert.Equal(t, LangNative, tagger.Tag("compute the checksum here"))
	assert.Equal(t, LangForeign, tagger.Tag("计算校验和"))
}

func TestNewScriptTagger_Invalid(t *testing.T) {
	_, err := NewScriptTagger("Klingon", 3, 0.9)
	assert.Error(t, err)
	_, err = NewScriptTagger("Han", 0, 0.9)
	assert.Error(t, err)
	_, err = NewScriptTagger("Han", 3, 1.5)
	assert.Error(t, err)
}

func TestLanguageFor(t *testing.T) {
	assert.Equal(t, "go", LanguageFor("cmd/main.go"))
	assert.Equal(t, "python", LanguageFor("x.PY"))
	assert.Equal(t, "shell", LanguageFor("build/Makefile"))
	assert.Equal(t, "unknown", LanguageFor("notes.xyz"))
	assert.Equal(t, Fallback.Line, Lookup("unknown").Line)
}
