package workflow

import (
	"strings"

	"tsconv/internal/convert"
	appLog "tsconv/internal/log"
	"tsconv/internal/model"
)

// Source tells where the converted text came from.
type Source string

const (
	SourceQuery     Source = "query"
	SourceClipboard Source = "clipboard"
	SourceNone      Source = "none"
)

// Request is one launcher invocation.
type Request struct {
	// Query is the text typed after the keyword, or the text handed over
	// by a universal action.
	Query string
	// Clipboard is the current clipboard text, if the caller could read it.
	// It is only consulted when Query is empty.
	Clipboard string
}

// Response holds the candidates to display, or the parse failure.
type Response struct {
	Source     Source
	Input      string
	Candidates []model.Candidate

	// Err is a *convert.NoMatchError when a non-empty query did not parse.
	// Candidates is empty in that case.
	Err error
}

// Runner resolves requests against a Converter.
type Runner struct {
	conv *convert.Converter
	// appendCurrent adds "current time" candidates after a successful
	// conversion, not only when there was nothing to convert.
	appendCurrent bool
}

// NewRunner constructs a Runner.
func NewRunner(conv *convert.Converter, appendCurrent bool) *Runner {
	return &Runner{conv: conv, appendCurrent: appendCurrent}
}

// Run converts the query, or the clipboard when the query is empty. With
// neither available it describes the current time.
func (r *Runner) Run(req Request) Response {
	query := strings.TrimSpace(req.Query)

	if query != "" {
		candidates, err := r.conv.Convert(query)
		if err != nil {
			appLog.Info("query did not parse", "input", query, "reason", err)
			return Response{Source: SourceQuery, Input: query, Err: err}
		}
		return r.finish(Response{Source: SourceQuery, Input: query, Candidates: candidates})
	}

	if clip := strings.TrimSpace(req.Clipboard); clip != "" {
		candidates, err := r.conv.Convert(clip)
		if err == nil {
			return r.finish(Response{Source: SourceClipboard, Input: clip, Candidates: candidates})
		}
		// Clipboard text is often not a date; that is not an error.
		appLog.Debug("clipboard did not parse", "reason", err)
	}

	return Response{Source: SourceNone, Candidates: r.conv.CurrentTime()}
}

func (r *Runner) finish(resp Response) Response {
	appLog.Info("converted",
		"source", resp.Source,
		"input", resp.Input,
		"candidates", len(resp.Candidates),
	)
	if r.appendCurrent {
		resp.Candidates = append(resp.Candidates, r.conv.CurrentTime()...)
	}
	return resp
}
