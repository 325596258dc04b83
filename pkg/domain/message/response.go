package message

type ResponseKind string

const (
	KindTranslation ResponseKind = "translation"
	KindInteractive ResponseKind = "interactive"
	KindRateLimited ResponseKind = "rate_limited"
	KindFailure     ResponseKind = "failure"
	KindIgnored     ResponseKind = "ignored"
	KindCommand     ResponseKind = "command"
)

type Response struct {
	MessageID        string         `json:"message_id,omitempty"`
	Kind             ResponseKind   `json:"kind"`
	Text             string         `json:"text"`
	Classification   Classification `json:"classification,omitempty"`
	DetectedLanguage Language       `json:"detected_language,omitempty"`
	CorrectedText    string         `json:"corrected_text,omitempty"`
}

// Silent reports whether the transport should send nothing back.
func (r Response) Silent() bool {
	return r.Kind == KindIgnored || r.Text == ""
}
