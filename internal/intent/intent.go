// Package intent classifies free-text chat input before it is sent
// anywhere: a message that reads like "add a tool called Nikto" is
// diverted into the structured tool-registration flow instead of a
// chat round trip.
//
// Detection is a best-effort natural-language heuristic, not a parser.
// The pattern is kept exactly as the platform has always matched it;
// loosening or tightening it changes which operator phrasings reach
// the registration form and is a behavior change, not a cleanup.
package intent

import "regexp"

// Kind discriminates detection results.
type Kind int

const (
	// PlainChat routes the message to the chat endpoint unchanged.
	PlainChat Kind = iota

	// RegisterTool diverts the message into the registration form.
	RegisterTool
)

// Detection is the result of classifying one message.
type Detection struct {
	Kind Kind

	// ToolName is the extracted tool name. Set only for RegisterTool.
	ToolName string
}

// addToolPattern matches the shape
//
//	add [a|the|new]? (tool|scanner|security tool) [called|named]? <token>
//
// case-insensitively, where <token> is a maximal run of characters
// that are not whitespace, comma, or period. Separators are a single
// whitespace character each, matching the historical behavior.
var addToolPattern = regexp.MustCompile(`(?i)add(?:\sa|\sthe|\snew)?\s(?:tool|scanner|security\stool)(?:\scalled|\snamed)?\s([^\s,.]+)`)

// Detect classifies a message. Ambiguous or partial matches are
// PlainChat; no match means no special handling.
func Detect(message string) Detection {
	m := addToolPattern.FindStringSubmatch(message)
	if m == nil {
		return Detection{Kind: PlainChat}
	}
	return Detection{Kind: RegisterTool, ToolName: m[1]}
}
