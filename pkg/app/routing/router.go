package routing

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/gokubot/goku/pkg/domain/message"
	"github.com/gokubot/goku/pkg/utils"
)

const fuzzyNameMinRunes = 5

type LanguageRouter interface {
	Classify(text string, botName string) Classification
}

type Classification struct {
	Kind message.Classification
	// Remainder is the original text to translate, without the bot name.
	Remainder  string
	SourceLang message.Language
	TargetLang message.Language
	Addressed  bool
}

type Config struct {
	BotName    string              `mapstructure:"name"`
	Aliases    []string            `mapstructure:"aliases"`
	Detector   string              `mapstructure:"detector"`
	Threshold  float64             `mapstructure:"threshold"`
	FuzzyNames bool                `mapstructure:"fuzzy_names"`
	Phrases    map[string][]string `mapstructure:"phrases"`
}

type router struct {
	defaultName string
	aliases     []string
	rules       []compiledRule
	detector    Detector
	fuzzyNames  bool
	nameCache   sync.Map
}

func NewLanguageRouter(cfg Config, detector Detector) LanguageRouter {
	if detector == nil {
		detector = NewDetector(cfg.Detector, cfg.Threshold)
	}
	aliases := cfg.Aliases
	if len(aliases) == 0 {
		aliases = DefaultAliases
	}
	r := &router{
		defaultName: cfg.BotName,
		rules:       compileRules(WithExtraPhrases(DefaultRules(), cfg.Phrases)),
		detector:    detector,
		fuzzyNames:  cfg.FuzzyNames,
	}
	for _, a := range aliases {
		if n := Normalize(a); n != "" {
			r.aliases = append(r.aliases, n)
		}
	}
	return r
}

func (r *router) Classify(text string, botName string) Classification {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Classification{Kind: message.Unrecognized}
	}
	if botName == "" {
		botName = r.defaultName
	}

	if remainder, ok := r.stripName(trimmed, botName); ok {
		normalized := Normalize(remainder)
		if normalized == "" {
			return Classification{Kind: message.InteractiveGreeting, Addressed: true}
		}
		for _, rule := range r.rules {
			if rule.matches(normalized) {
				return Classification{Kind: rule.kind, Addressed: true}
			}
		}
		c := r.direction(remainder)
		c.Addressed = true
		return c
	}
	return r.direction(trimmed)
}

func (r *router) direction(text string) Classification {
	lang, ok := r.detector.Detect(text)
	if !ok {
		return Classification{Kind: message.Unrecognized}
	}
	if lang == message.LanguageArabic {
		return Classification{
			Kind:       message.DirectionBToA,
			Remainder:  text,
			SourceLang: message.LanguageArabic,
			TargetLang: message.LanguageFrench,
		}
	}
	return Classification{
		Kind:       message.DirectionAToB,
		Remainder:  text,
		SourceLang: message.LanguageFrench,
		TargetLang: message.LanguageArabic,
	}
}

// stripName removes the first word that names the bot. Only the name itself
// is cut, so "goku,salut" keeps "salut".
func (r *router) stripName(text, botName string) (string, bool) {
	names := r.names(botName)
	for _, w := range words(text) {
		token := Normalize(text[w.start:w.end])
		if token != "" && r.isName(token, names) {
			return cut(text, w), true
		}
	}
	return "", false
}

func (r *router) isName(token string, names []string) bool {
	for _, n := range names {
		if token == n {
			return true
		}
		if r.fuzzyNames &&
			utf8.RuneCountInString(token) >= fuzzyNameMinRunes &&
			utf8.RuneCountInString(n) >= fuzzyNameMinRunes-1 &&
			utils.LevenshteinDistance(token, n) <= 1 {
			return true
		}
	}
	return false
}

func (r *router) names(botName string) []string {
	if cached, ok := r.nameCache.Load(botName); ok {
		if names, ok := cached.([]string); ok {
			return names
		}
	}
	names := append([]string(nil), r.aliases...)
	for _, token := range strings.Fields(Normalize(botName)) {
		names = append(names, token)
	}
	r.nameCache.Store(botName, names)
	return names
}
