package routing

import (
	"unicode"

	"github.com/abadojack/whatlanggo"
	"github.com/gokubot/goku/pkg/domain/message"
)

const (
	DetectorScript   = "script"
	DetectorWhatlang = "whatlang"

	DefaultScriptThreshold = 0.30
)

type Detector interface {
	// Detect returns the dominant language of text, or false when neither
	// language can be determined.
	Detect(text string) (message.Language, bool)
}

// ScriptDetector decides between Latin (French) and Arabic script by the
// share of letters written in each.
type ScriptDetector struct {
	Threshold float64
}

func NewScriptDetector(threshold float64) *ScriptDetector {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultScriptThreshold
	}
	return &ScriptDetector{Threshold: threshold}
}

func (d *ScriptDetector) Detect(text string) (message.Language, bool) {
	var letters, arabic, latin int
	for _, r := range text {
		if !unicode.IsLetter(r) || r == tatweel {
			continue
		}
		letters++
		switch {
		case unicode.Is(unicode.Arabic, r):
			arabic++
		case unicode.Is(unicode.Latin, r):
			latin++
		}
	}
	if letters == 0 {
		return "", false
	}

	arabicOK := float64(arabic)/float64(letters) >= d.Threshold
	latinOK := float64(latin)/float64(letters) >= d.Threshold
	switch {
	case arabicOK && latinOK:
		if arabic > latin {
			return message.LanguageArabic, true
		}
		return message.LanguageFrench, true
	case arabicOK:
		return message.LanguageArabic, true
	case latinOK:
		return message.LanguageFrench, true
	}
	return "", false
}

// WhatlangDetector trusts a reliable French or Arabic detection and defers
// everything else to Fallback.
type WhatlangDetector struct {
	Fallback Detector
}

func NewWhatlangDetector(fallback Detector) *WhatlangDetector {
	if fallback == nil {
		fallback = NewScriptDetector(DefaultScriptThreshold)
	}
	return &WhatlangDetector{Fallback: fallback}
}

func (d *WhatlangDetector) Detect(text string) (message.Language, bool) {
	info := whatlanggo.Detect(text)
	if info.IsReliable() {
		switch info.Lang.Iso6391() {
		case string(message.LanguageFrench):
			return message.LanguageFrench, true
		case string(message.LanguageArabic):
			return message.LanguageArabic, true
		}
	}
	return d.Fallback.Detect(text)
}

func NewDetector(name string, threshold float64) Detector {
	script := NewScriptDetector(threshold)
	if name == DetectorWhatlang {
		return NewWhatlangDetector(script)
	}
	return script
}
