package routing

import (
	"github.com/gokubot/goku/pkg/domain/message"
)

// Rule maps a set of phrases to an interactive classification. Rules are
// evaluated in slice order and the first one with a matching phrase wins.
type Rule struct {
	Kind    message.Classification
	Phrases []string
}

var DefaultAliases = []string{"goku", "gukou", "gogo", "gougou", "قوكو", "غوكو", "ڨوكو", "غوغو"}

func DefaultRules() []Rule {
	return []Rule{
		{
			Kind: message.InteractiveIdentityQuery,
			Phrases: []string{
				"من الذي صنعك", "من صنعك", "من خالقك", "من مبرمجك", "من انشأك",
				"من طورك", "من الذي طورك", "من الذي انشأك", "من برمجك", "من انت", "شكون نتا",
				"qui t'a créé", "qui t a créé", "qui t'a fait", "qui t'a crée",
				"qui est ton créateur", "qui est ton programmeur",
				"qui t'a développé", "qui t'a programmé", "qui es-tu", "qui es tu",
				"who made you", "who created you", "who are you",
			},
		},
		{
			Kind: message.InteractiveStatusQuery,
			Phrases: []string{
				"كيف حالك", "كيف الحال", "واش راك", "واش راكي", "لاباس", "هل انت هنا",
				"comment vas-tu", "comment ça va", "ça va", "tu vas bien", "tu es là", "t'es là",
				"how are you", "are you there",
			},
		},
		{
			Kind: message.InteractiveGreeting,
			Phrases: []string{
				"السلام عليكم", "سلام", "مرحبا", "اهلا", "أهلا", "صباح الخير", "مساء الخير",
				"bonjour", "bonsoir", "salut", "coucou", "salam", "hello", "hi", "hey",
			},
		},
	}
}

// RuleKinds maps the config names of rule kinds to classifications.
var RuleKinds = map[string]message.Classification{
	"identity": message.InteractiveIdentityQuery,
	"status":   message.InteractiveStatusQuery,
	"greeting": message.InteractiveGreeting,
}

// WithExtraPhrases appends configured phrases to the matching rules.
func WithExtraPhrases(rules []Rule, extra map[string][]string) []Rule {
	out := make([]Rule, len(rules))
	for i, r := range rules {
		out[i] = Rule{Kind: r.Kind, Phrases: append([]string(nil), r.Phrases...)}
	}
	for name, phrases := range extra {
		kind, ok := RuleKinds[name]
		if !ok {
			continue
		}
		for i := range out {
			if out[i].Kind == kind {
				out[i].Phrases = append(out[i].Phrases, phrases...)
			}
		}
	}
	return out
}

type compiledRule struct {
	kind    message.Classification
	phrases []string
}

func compileRules(rules []Rule) []compiledRule {
	compiled := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		c := compiledRule{kind: r.Kind}
		for _, p := range r.Phrases {
			if n := Normalize(p); n != "" {
				c.phrases = append(c.phrases, n)
			}
		}
		compiled = append(compiled, c)
	}
	return compiled
}

func (c compiledRule) matches(normalized string) bool {
	for _, p := range c.phrases {
		if containsPhrase(normalized, p) {
			return true
		}
	}
	return false
}
