package oracle_test

import (
	"testing"

	"github.com/gokubot/goku/pkg/domain/message"
	"github.com/gokubot/goku/pkg/domain/oracle"
	infraoracle "github.com/gokubot/goku/pkg/infra/oracle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPrompt(t *testing.T) {
	prompt := infraoracle.BuildPrompt(oracle.Request{
		SourceText: "مرحبا",
		SourceLang: message.LanguageArabic,
		TargetLang: message.LanguageFrench,
	})

	assert.Contains(t, prompt, "Source language: Arabic (ar)")
	assert.Contains(t, prompt, "Target language: French (fr)")
	assert.Contains(t, prompt, "مرحبا")
}

func TestParseReply(t *testing.T) {
	req := oracle.Request{SourceText: "slt", SourceLang: message.LanguageFrench, TargetLang: message.LanguageArabic}

	tests := []struct {
		name          string
		raw           string
		wantErr       bool
		wantCorrected string
		wantDetected  message.Language
	}{
		{
			name:          "plain object",
			raw:           `{"detected_language":"fr","corrected_text":"salut","translated_text":"مرحبا"}`,
			wantCorrected: "salut",
			wantDetected:  message.LanguageFrench,
		},
		{
			name:          "object with prose around it",
			raw:           "Here you go:\n{\"detected_language\":\"Arabic\",\"translated_text\":\"مرحبا\"}\nEnjoy",
			wantCorrected: "slt",
			wantDetected:  message.LanguageArabic,
		},
		{
			name:          "unknown detected language keeps the requested one",
			raw:           `{"detected_language":"es","translated_text":"مرحبا"}`,
			wantCorrected: "slt",
			wantDetected:  message.LanguageFrench,
		},
		{name: "no object", raw: "مرحبا", wantErr: true},
		{name: "broken json", raw: `{"translated_text": "x"`, wantErr: true},
		{name: "missing translation", raw: `{"corrected_text":"salut"}`, wantErr: true},
		{name: "blank translation", raw: `{"translated_text":"   "}`, wantErr: true},
		{name: "translation of wrong type", raw: `{"translated_text": 12}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := infraoracle.ParseReply(tt.raw, req)
			if tt.wantErr {
				assert.Equal(t, oracle.KindMalformed, oracle.KindOf(err))
				assert.Nil(t, res)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "مرحبا", res.TranslatedText)
			assert.Equal(t, tt.wantCorrected, res.CorrectedText)
			assert.Equal(t, tt.wantDetected, res.DetectedLanguage)
		})
	}
}
