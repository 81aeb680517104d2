package common

import (
	"encoding/json"
	"errors"
)

// Envelope is the single result written for every request.
type Envelope struct {
	OK     bool       `json:"ok"`
	AST    *Node      `json:"ast,omitempty"`
	Source *string    `json:"source,omitempty"`
	Error  *ErrorInfo `json:"error,omitempty"`
}

// ErrorInfo is the failure half of an Envelope. Syntax errors always carry
// lineno, offset and text, as null when unknown; other errors omit them.
type ErrorInfo struct {
	Type   string  `json:"type"`
	Msg    string  `json:"msg"`
	Lineno *int    `json:"lineno,omitempty"`
	Offset *int    `json:"offset,omitempty"`
	Text   *string `json:"text,omitempty"`
}

func (e ErrorInfo) MarshalJSON() ([]byte, error) {
	if e.Type != KindSyntaxError {
		type plain ErrorInfo
		return json.Marshal(plain(e))
	}
	return json.Marshal(struct {
		Type   string  `json:"type"`
		Msg    string  `json:"msg"`
		Lineno *int    `json:"lineno"`
		Offset *int    `json:"offset"`
		Text   *string `json:"text"`
	}{e.Type, e.Msg, e.Lineno, e.Offset, e.Text})
}

func TreeResult(root *Node) Envelope {
	return Envelope{OK: true, AST: root}
}

func SourceResult(source string) Envelope {
	return Envelope{OK: true, Source: &source}
}

// Failure builds the failure envelope for err.
func Failure(err error) Envelope {
	var syntaxErr *SyntaxError
	if errors.As(err, &syntaxErr) {
		return Envelope{Error: &ErrorInfo{
			Type:   KindSyntaxError,
			Msg:    syntaxErr.Msg,
			Lineno: syntaxErr.Line,
			Offset: syntaxErr.Offset,
			Text:   syntaxErr.Text,
		}}
	}
	return Envelope{Error: &ErrorInfo{Type: Classify(err), Msg: err.Error()}}
}
