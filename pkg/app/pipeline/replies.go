package pipeline

import (
	"fmt"
	"strings"

	"github.com/gokubot/goku/pkg/domain/message"
	"github.com/gokubot/goku/pkg/domain/oracle"
	"github.com/gokubot/goku/pkg/domain/stats"
)

// Replies holds every canned text the pipeline can send.
type Replies struct {
	Greeting     string `mapstructure:"greeting"`
	Identity     string `mapstructure:"identity"`
	Status       string `mapstructure:"status"`
	RateLimited  string `mapstructure:"rate_limited"`
	Failure      string `mapstructure:"failure"`
	QuotaFailure string `mapstructure:"quota_failure"`
	Correction   string `mapstructure:"correction"`
	Start        string `mapstructure:"start"`
	Help         string `mapstructure:"help"`
	Stats        string `mapstructure:"stats"`
	NoStats      string `mapstructure:"no_stats"`
	Unknown      string `mapstructure:"unknown"`
}

func DefaultReplies() Replies {
	return Replies{
		Greeting:     "👋 أهلاً! أنا غوكو. أرسل لي نصاً بالعربية أو الفرنسية لأترجمه.",
		Identity:     "صنعني المبرمج anes_miiih19@",
		Status:       "✅ أنا بخير وجاهز للترجمة!",
		RateLimited:  "⏳ أرسلت رسائل كثيرة في وقت قصير. حاول مرة أخرى بعد دقيقة.",
		Failure:      "❌ لم أتمكن من الترجمة حالياً. حاول مرة أخرى لاحقاً.",
		QuotaFailure: "❌ خدمة الترجمة مشغولة حالياً. حاول مرة أخرى بعد قليل.",
		Correction:   "✏️ التصحيح: %s",
		Start:        "🤖 أهلاً! أرسل نصاً لأترجمه أو سؤالاً للإجابة عليه.",
		Help: "أرسل نصاً بالعربية أو الفرنسية لأترجمه مباشرة.\n" +
			"ابدأ الرسالة بـ 'قوكو' للتحدث معي.\n" +
			"/stats لعرض إحصائياتك.",
		Stats:   "📊 إحصائياتك:\nالترجمات: %d\nالأحرف: %d\nالمعدل اليومي: %.2f",
		NoStats: "📊 لم تقم بأي ترجمة بعد.",
		Unknown: "❓ أمر غير معروف. أرسل /help.",
	}
}

// merged fills the empty fields of r with the defaults.
func (r Replies) merged() Replies {
	d := DefaultReplies()
	pick := func(v, def string) string {
		if strings.TrimSpace(v) == "" {
			return def
		}
		return v
	}
	return Replies{
		Greeting:     pick(r.Greeting, d.Greeting),
		Identity:     pick(r.Identity, d.Identity),
		Status:       pick(r.Status, d.Status),
		RateLimited:  pick(r.RateLimited, d.RateLimited),
		Failure:      pick(r.Failure, d.Failure),
		QuotaFailure: pick(r.QuotaFailure, d.QuotaFailure),
		Correction:   pick(r.Correction, d.Correction),
		Start:        pick(r.Start, d.Start),
		Help:         pick(r.Help, d.Help),
		Stats:        pick(r.Stats, d.Stats),
		NoStats:      pick(r.NoStats, d.NoStats),
		Unknown:      pick(r.Unknown, d.Unknown),
	}
}

func (r Replies) interactive(kind message.Classification) string {
	switch kind {
	case message.InteractiveIdentityQuery:
		return r.Identity
	case message.InteractiveStatusQuery:
		return r.Status
	default:
		return r.Greeting
	}
}

func (r Replies) failure(kind oracle.ErrorKind) string {
	if kind == oracle.KindQuota {
		return r.QuotaFailure
	}
	return r.Failure
}

func (r Replies) translation(source string, res *oracle.Result) string {
	if !corrected(source, res.CorrectedText) {
		return res.TranslatedText
	}
	return res.TranslatedText + "\n\n" + fmt.Sprintf(r.Correction, res.CorrectedText)
}

func (r Replies) stats(s stats.UserStats, d stats.Derived) string {
	return fmt.Sprintf(r.Stats, s.TotalTranslations, s.TotalCharacters, d.AveragePerDay)
}

func corrected(source, correction string) bool {
	c := strings.TrimSpace(correction)
	return c != "" && c != strings.TrimSpace(source)
}
