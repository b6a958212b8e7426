package intent

import "testing"

func TestDetect_RegisterTool(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		wantName string
	}{
		{"canonical", "add a tool called Foo", "Foo"},
		{"new tool", "Add a new tool called Nikto", "Nikto"},
		{"the scanner", "add the scanner named sqlmap", "sqlmap"},
		{"security tool", "add a security tool called Burp", "Burp"},
		{"no article", "add tool gobuster", "gobuster"},
		{"no called/named", "add a tool ffuf", "ffuf"},
		{"uppercase trigger", "ADD A TOOL CALLED Amass", "Amass"},
		{"name stops at period", "add a tool called Nikto. It scans webservers", "Nikto"},
		{"name stops at comma", "add a tool called dirb, please", "dirb"},
		{"embedded in sentence", "could you add a tool called wfuzz for me", "wfuzz"},
		// Historical quirk: with no name after "called", the word
		// "called" itself is captured. Preserved as-is.
		{"trigger without name", "add a tool called", "called"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Detect(tt.message)
			if d.Kind != RegisterTool {
				t.Fatalf("Detect(%q).Kind = PlainChat, want RegisterTool", tt.message)
			}
			if d.ToolName != tt.wantName {
				t.Errorf("Detect(%q).ToolName = %q, want %q", tt.message, d.ToolName, tt.wantName)
			}
		})
	}
}

func TestDetect_PlainChat(t *testing.T) {
	tests := []struct {
		name    string
		message string
	}{
		{"near miss", "add too late"},
		{"ordinary question", "what is nmap used for?"},
		{"run request", "Run Nmap scan on 192.168.1.1"},
		{"empty", ""},
		{"double space breaks shape", "add a  tool called Foo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if d := Detect(tt.message); d.Kind != PlainChat {
				t.Errorf("Detect(%q) = %+v, want PlainChat", tt.message, d)
			}
		})
	}
}
