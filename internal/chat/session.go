// Package chat holds the console's conversation state: an append-only
// transcript of exchanges and the single-flight submission state
// machine.
//
// The transcript is a local audit log. Nothing is ever mutated or
// removed once appended, and it is not synchronized with the server.
//
// Exactly one chat request may be in flight at a time. A submission
// attempted while one is pending is silently ignored, not queued and
// not an error. That flag is the system's one explicit concurrency
// control; all session methods run on the single interaction thread.
package chat

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/blackfoxxx/VulnAI/internal/client"
	"github.com/blackfoxxx/VulnAI/internal/intent"
)

// Sender identifies who produced an exchange.
type Sender string

// Transcript senders.
const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// State is the submission state machine.
type State int

// Submission states.
const (
	StateIdle     State = iota // Ready to submit
	StateAwaiting              // One chat request in flight
)

// Assistant fallback lines. These are user-visible contract, not
// incidental strings.
const (
	// FallbackCouldNotProcess is appended when a successful response
	// carried neither reply nor tool execution.
	FallbackCouldNotProcess = "I encountered an issue processing your request."

	// FallbackTransport is appended when the request failed outright.
	FallbackTransport = "Sorry, I had trouble communicating with the server. Please try again."
)

// toolExecutionLine announces a tool run before its output.
func toolExecutionLine(toolName string) string {
	return fmt.Sprintf("I'm executing the %s tool for you...", toolName)
}

// Exchange is one transcript turn.
type Exchange struct {
	ID           uuid.UUID `json:"id"`
	Sender       Sender    `json:"sender"`
	Content      string    `json:"content"`
	IsToolOutput bool      `json:"is_tool_output,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// Outcome classifies what a Submit call did.
type Outcome int

const (
	// OutcomeSend means a user exchange was appended and the caller
	// must issue exactly one chat request, then resolve the session.
	OutcomeSend Outcome = iota

	// OutcomeDetour means registration intent was detected: the raw
	// message was appended and the caller opens the registration form
	// pre-filled with ToolName. No request is issued for this turn.
	OutcomeDetour

	// OutcomeEmpty means the text was empty after trimming. Nothing
	// was appended; surface a validation notification.
	OutcomeEmpty

	// OutcomeBusy means a request is already in flight. Nothing was
	// appended and no request may be issued.
	OutcomeBusy
)

// Submission is the result of a Submit call.
type Submission struct {
	Outcome Outcome

	// ToolName is the extracted name. Set only for OutcomeDetour.
	ToolName string
}

// Session is the transcript plus submission state machine.
// Not safe for concurrent use; it lives on the interaction thread.
type Session struct {
	transcript []Exchange
	state      State
	now        func() time.Time
}

// NewSession returns an idle session with an empty transcript.
func NewSession() *Session {
	return &Session{now: time.Now}
}

// State returns the current submission state.
func (s *Session) State() State {
	return s.state
}

// Len returns the transcript length.
func (s *Session) Len() int {
	return len(s.transcript)
}

// Transcript returns a copy of the transcript in order.
func (s *Session) Transcript() []Exchange {
	out := make([]Exchange, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// Submit runs intent detection and advances the state machine.
// Detection runs before the message is appended or sent anywhere,
// because a registration match diverts the whole turn away from the
// chat endpoint.
func (s *Session) Submit(text string) Submission {
	if s.state == StateAwaiting {
		return Submission{Outcome: OutcomeBusy}
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Submission{Outcome: OutcomeEmpty}
	}

	if d := intent.Detect(trimmed); d.Kind == intent.RegisterTool {
		s.append(SenderUser, trimmed, false)
		return Submission{Outcome: OutcomeDetour, ToolName: d.ToolName}
	}

	s.append(SenderUser, trimmed, false)
	s.state = StateAwaiting
	return Submission{Outcome: OutcomeSend}
}

// SubmitDirect advances the state machine without intent detection.
// The registration form uses it for the synthesized message; running
// detection again would detour forever.
func (s *Session) SubmitDirect(text string) Submission {
	if s.state == StateAwaiting {
		return Submission{Outcome: OutcomeBusy}
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Submission{Outcome: OutcomeEmpty}
	}

	s.append(SenderUser, trimmed, false)
	s.state = StateAwaiting
	return Submission{Outcome: OutcomeSend}
}

// ResolveSuccess consumes the response for the in-flight request and
// returns the session to idle. Assistant exchanges are appended in a
// fixed order: the tool-execution line, the raw tool output, the
// free-text reply; if none are present, the could-not-process
// fallback.
func (s *Session) ResolveSuccess(resp client.ChatResponse) {
	appended := false

	if te := resp.ToolExecution; te != nil {
		s.append(SenderAssistant, toolExecutionLine(te.ToolName), false)
		appended = true
		if te.Output != "" {
			s.append(SenderAssistant, te.Output, true)
		}
	}
	if resp.Reply != "" {
		s.append(SenderAssistant, resp.Reply, false)
		appended = true
	}
	if !appended {
		s.append(SenderAssistant, FallbackCouldNotProcess, false)
	}

	s.state = StateIdle
}

// ResolveFailure consumes a failed request and returns the session to
// idle with the transport fallback appended.
func (s *Session) ResolveFailure(err error) {
	s.append(SenderAssistant, FallbackTransport, false)
	s.state = StateIdle
}

// LoadTranscript seeds the transcript from a persisted audit log.
// Valid only before any submission.
func (s *Session) LoadTranscript(exchanges []Exchange) {
	if len(s.transcript) > 0 || s.state != StateIdle {
		return
	}
	s.transcript = append(s.transcript, exchanges...)
}

func (s *Session) append(sender Sender, content string, isToolOutput bool) {
	s.transcript = append(s.transcript, Exchange{
		ID:           uuid.New(),
		Sender:       sender,
		Content:      content,
		IsToolOutput: isToolOutput,
		Timestamp:    s.now(),
	})
}
