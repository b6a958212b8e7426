package chat

import (
	"errors"
	"testing"
	"time"

	"github.com/blackfoxxx/VulnAI/internal/client"
)

func newTestSession() *Session {
	s := NewSession()
	s.now = func() time.Time {
		return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	}
	return s
}

func TestSubmit_PlainChat(t *testing.T) {
	s := newTestSession()

	sub := s.Submit("what does nmap do?")
	if sub.Outcome != OutcomeSend {
		t.Fatalf("Outcome = %v, want OutcomeSend", sub.Outcome)
	}
	if s.State() != StateAwaiting {
		t.Error("state should be StateAwaiting after send")
	}

	transcript := s.Transcript()
	if len(transcript) != 1 {
		t.Fatalf("transcript length = %d, want 1", len(transcript))
	}
	if transcript[0].Sender != SenderUser || transcript[0].Content != "what does nmap do?" {
		t.Errorf("user exchange = %+v", transcript[0])
	}
	if transcript[0].ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Error("exchange ID not assigned")
	}
}

func TestSubmit_EmptyText(t *testing.T) {
	s := newTestSession()

	for _, text := range []string{"", "   ", "\n\t"} {
		sub := s.Submit(text)
		if sub.Outcome != OutcomeEmpty {
			t.Errorf("Submit(%q).Outcome = %v, want OutcomeEmpty", text, sub.Outcome)
		}
	}
	if s.Len() != 0 {
		t.Error("empty submissions must not touch the transcript")
	}
	if s.State() != StateIdle {
		t.Error("empty submissions must not change state")
	}
}

func TestSubmit_SingleFlight(t *testing.T) {
	s := newTestSession()

	if sub := s.Submit("first message"); sub.Outcome != OutcomeSend {
		t.Fatalf("first submit = %v", sub.Outcome)
	}
	lenBefore := s.Len()

	// Submission while awaiting is a silent no-op: transcript length
	// unchanged and no second request signalled.
	if sub := s.Submit("second message"); sub.Outcome != OutcomeBusy {
		t.Errorf("second submit = %v, want OutcomeBusy", sub.Outcome)
	}
	if s.Len() != lenBefore {
		t.Errorf("transcript grew during in-flight request: %d -> %d", lenBefore, s.Len())
	}
}

func TestSubmit_RegistrationDetour(t *testing.T) {
	s := newTestSession()

	sub := s.Submit("Add a new tool called Nikto")
	if sub.Outcome != OutcomeDetour {
		t.Fatalf("Outcome = %v, want OutcomeDetour", sub.Outcome)
	}
	if sub.ToolName != "Nikto" {
		t.Errorf("ToolName = %q, want Nikto", sub.ToolName)
	}

	// The raw message is recorded, but no request goes out: state
	// stays idle and the form takes over.
	if s.State() != StateIdle {
		t.Error("detour must not enter awaiting state")
	}
	if s.Len() != 1 {
		t.Errorf("transcript length = %d, want 1", s.Len())
	}
}

func TestSubmitDirect_SkipsDetection(t *testing.T) {
	s := newTestSession()

	form := RegistrationForm{
		Name:        "Nikto",
		Description: "web scanner",
		Command:     "nikto -h {target}",
		Category:    "web_security",
	}
	// The synthesized message would match the detector; SubmitDirect
	// must send it anyway.
	sub := s.SubmitDirect(form.Synthesize())
	if sub.Outcome != OutcomeSend {
		t.Fatalf("Outcome = %v, want OutcomeSend", sub.Outcome)
	}
	if s.State() != StateAwaiting {
		t.Error("state should be StateAwaiting")
	}
}

func TestResolveSuccess_Ordering(t *testing.T) {
	s := newTestSession()
	s.Submit("run nmap on example.com")

	s.ResolveSuccess(client.ChatResponse{
		Reply: "The scan found two open ports.",
		ToolExecution: &client.ToolExecution{
			ToolName: "nmap",
			Output:   "22/tcp open\n80/tcp open",
		},
	})

	if s.State() != StateIdle {
		t.Error("session must return to idle")
	}

	transcript := s.Transcript()
	if len(transcript) != 4 {
		t.Fatalf("transcript length = %d, want 4", len(transcript))
	}

	// Fixed order: execution line, raw output, reply.
	if transcript[1].Content != "I'm executing the nmap tool for you..." {
		t.Errorf("exchange 1 = %q", transcript[1].Content)
	}
	if !transcript[2].IsToolOutput || transcript[2].Content != "22/tcp open\n80/tcp open" {
		t.Errorf("exchange 2 = %+v", transcript[2])
	}
	if transcript[3].Content != "The scan found two open ports." {
		t.Errorf("exchange 3 = %q", transcript[3].Content)
	}
}

func TestResolveSuccess_ReplyOnly(t *testing.T) {
	s := newTestSession()
	s.Submit("hello")

	s.ResolveSuccess(client.ChatResponse{Reply: "Hi there."})

	transcript := s.Transcript()
	if len(transcript) != 2 {
		t.Fatalf("transcript length = %d, want 2", len(transcript))
	}
	if transcript[1].Sender != SenderAssistant || transcript[1].Content != "Hi there." {
		t.Errorf("assistant exchange = %+v", transcript[1])
	}
}

func TestResolveSuccess_ToolOnlyWithoutOutput(t *testing.T) {
	s := newTestSession()
	s.Submit("run the thing")

	s.ResolveSuccess(client.ChatResponse{
		ToolExecution: &client.ToolExecution{ToolName: "nuclei"},
	})

	transcript := s.Transcript()
	if len(transcript) != 2 {
		t.Fatalf("transcript length = %d, want 2", len(transcript))
	}
	if transcript[1].Content != "I'm executing the nuclei tool for you..." {
		t.Errorf("exchange = %q", transcript[1].Content)
	}
}

func TestResolveSuccess_EmptyResponseFallsBack(t *testing.T) {
	s := newTestSession()
	s.Submit("hello")

	s.ResolveSuccess(client.ChatResponse{})

	transcript := s.Transcript()
	if transcript[len(transcript)-1].Content != FallbackCouldNotProcess {
		t.Errorf("expected fallback, got %q", transcript[len(transcript)-1].Content)
	}
	if s.State() != StateIdle {
		t.Error("session must return to idle")
	}
}

func TestResolveFailure(t *testing.T) {
	s := newTestSession()
	s.Submit("hello")

	s.ResolveFailure(errors.New("connection refused"))

	transcript := s.Transcript()
	if transcript[len(transcript)-1].Content != FallbackTransport {
		t.Errorf("expected transport fallback, got %q", transcript[len(transcript)-1].Content)
	}
	if s.State() != StateIdle {
		t.Error("session must return to idle after failure")
	}

	// And the session accepts new submissions again.
	if sub := s.Submit("try again"); sub.Outcome != OutcomeSend {
		t.Errorf("submit after failure = %v, want OutcomeSend", sub.Outcome)
	}
}

func TestEndToEnd_RegistrationFlow(t *testing.T) {
	s := newTestSession()

	sub := s.Submit("Add a new tool called Nikto")
	if sub.Outcome != OutcomeDetour || sub.ToolName != "Nikto" {
		t.Fatalf("detour = %+v", sub)
	}

	form := RegistrationForm{
		Name:        sub.ToolName,
		Description: "web scanner",
		Command:     "nikto -h {target}",
		Category:    "web_security",
	}
	if err := form.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}

	lenBefore := s.Len()
	if sub := s.SubmitDirect(form.Synthesize()); sub.Outcome != OutcomeSend {
		t.Fatalf("direct submit = %v", sub.Outcome)
	}
	s.ResolveSuccess(client.ChatResponse{Reply: "Tool registered for review."})

	// Exactly one user exchange plus one assistant exchange.
	if got := s.Len() - lenBefore; got != 2 {
		t.Errorf("appended %d exchanges, want 2", got)
	}
}

func TestSynthesize(t *testing.T) {
	form := RegistrationForm{
		Name:           "Nikto",
		Description:    "web scanner",
		Command:        "nikto -h {target}",
		Category:       "web_security",
		ExpectedOutput: "list of findings",
	}

	want := "Add a new tool called Nikto. It's a web scanner. The command to run it is: nikto -h {target}. It belongs to the web_security category. The expected output is: list of findings."
	if got := form.Synthesize(); got != want {
		t.Errorf("Synthesize() = %q, want %q", got, want)
	}
}

func TestFormValidate(t *testing.T) {
	valid := RegistrationForm{Name: "n", Description: "d", Command: "c"}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid form rejected: %v", err)
	}

	tests := []struct {
		name string
		form RegistrationForm
		want error
	}{
		{"missing name", RegistrationForm{Description: "d", Command: "c"}, ErrFormMissingName},
		{"missing description", RegistrationForm{Name: "n", Command: "c"}, ErrFormMissingDescription},
		{"missing command", RegistrationForm{Name: "n", Description: "d"}, ErrFormMissingCommand},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.form.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoadTranscript_OnlyBeforeUse(t *testing.T) {
	s := newTestSession()
	persisted := []Exchange{{Sender: SenderUser, Content: "earlier message"}}

	s.LoadTranscript(persisted)
	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}

	// A second load must not duplicate the transcript.
	s.LoadTranscript(persisted)
	if s.Len() != 1 {
		t.Errorf("Len() after second load = %d, want 1", s.Len())
	}
}
