package oracle

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gokubot/goku/pkg/domain/message"
	"github.com/gokubot/goku/pkg/domain/oracle"
	"github.com/gokubot/goku/pkg/infra/providers"
	"github.com/valyala/fastjson"
)

const systemPrompt = "You are a careful French and Arabic translator. " +
	"You first correct the spelling and grammar of the source text, then translate the corrected text."

var instructions = []string{
	"Keep proper nouns, numbers, URLs and line breaks exactly as written.",
	"Do not add explanations, greetings or notes.",
	`Reply with a single JSON object: {"detected_language": "<fr|ar>", "corrected_text": "<corrected source>", "translated_text": "<translation>"}.`,
}

var parserPool fastjson.ParserPool

func BuildPrompt(req oracle.Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Source language: %s (%s)\n", languageName(req.SourceLang), req.SourceLang)
	fmt.Fprintf(&b, "Target language: %s (%s)\n", languageName(req.TargetLang), req.TargetLang)
	b.WriteString("Text:\n")
	b.WriteString(req.SourceText)
	return b.String()
}

// ParseReply extracts the oracle result from a model answer. A missing or empty
// translated_text is a malformed reply.
func ParseReply(raw string, req oracle.Request) (*oracle.Result, error) {
	text := providers.StripCodeFences(raw)
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end <= start {
		return nil, oracle.NewError(oracle.KindMalformed, errors.New("reply is not a JSON object"))
	}

	p := parserPool.Get()
	defer parserPool.Put(p)

	v, err := p.Parse(text[start : end+1])
	if err != nil {
		return nil, oracle.NewError(oracle.KindMalformed, fmt.Errorf("invalid JSON reply: %w", err))
	}

	translated := strings.TrimSpace(string(v.GetStringBytes("translated_text")))
	if translated == "" {
		return nil, oracle.NewError(oracle.KindMalformed, errors.New("reply has no translated_text"))
	}

	corrected := strings.TrimSpace(string(v.GetStringBytes("corrected_text")))
	if corrected == "" {
		corrected = req.SourceText
	}

	detected := req.SourceLang
	switch lang := strings.ToLower(strings.TrimSpace(string(v.GetStringBytes("detected_language")))); lang {
	case "fr", "french", "français", "francais":
		detected = message.LanguageFrench
	case "ar", "arabic", "العربية":
		detected = message.LanguageArabic
	}

	return &oracle.Result{
		DetectedLanguage: detected,
		CorrectedText:    corrected,
		TranslatedText:   translated,
	}, nil
}
