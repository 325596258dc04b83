package oracle

import (
	"context"
	"errors"
	"fmt"

	"github.com/gokubot/goku/pkg/domain/message"
)

type Client interface {
	Translate(ctx context.Context, req Request) (*Result, error)
}

type Request struct {
	SourceText string
	SourceLang message.Language
	TargetLang message.Language
}

type Result struct {
	DetectedLanguage message.Language
	CorrectedText    string
	TranslatedText   string
}

type ErrorKind string

const (
	KindNetwork     ErrorKind = "network"
	KindQuota       ErrorKind = "quota"
	KindMalformed   ErrorKind = "malformed"
	KindTimeout     ErrorKind = "timeout"
	KindUnavailable ErrorKind = "unavailable"
)

type Error struct {
	Kind ErrorKind
	Err  error
}

func NewError(kind ErrorKind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("oracle %s error", e.Kind)
	}
	return fmt.Sprintf("oracle %s error: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the oracle error kind carried by err, or KindNetwork when err
// is not an *Error.
func KindOf(err error) ErrorKind {
	var oe *Error
	if errors.As(err, &oe) {
		return oe.Kind
	}
	return KindNetwork
}
