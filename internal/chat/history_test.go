package chat

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestSaveLoadHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transcript.json")

	exchanges := []Exchange{
		{ID: uuid.New(), Sender: SenderUser, Content: "hello", Timestamp: time.Now().UTC().Truncate(time.Second)},
		{ID: uuid.New(), Sender: SenderAssistant, Content: "80/tcp open", IsToolOutput: true, Timestamp: time.Now().UTC().Truncate(time.Second)},
	}

	if err := SaveHistory(path, exchanges); err != nil {
		t.Fatalf("SaveHistory() = %v", err)
	}

	got, err := LoadHistory(path)
	if err != nil {
		t.Fatalf("LoadHistory() = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("loaded %d exchanges, want 2", len(got))
	}
	if got[0].Content != "hello" || got[1].IsToolOutput != true {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if got[0].ID != exchanges[0].ID {
		t.Errorf("ID mismatch: %s != %s", got[0].ID, exchanges[0].ID)
	}
}

func TestLoadHistory_MissingFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.json")

	got, err := LoadHistory(path)
	if err != nil {
		t.Fatalf("LoadHistory() = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty transcript, got %d entries", len(got))
	}
}

func TestSaveHistory_BoundsPersistedEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transcript.json")

	exchanges := make([]Exchange, maxPersistedExchanges+50)
	for i := range exchanges {
		exchanges[i] = Exchange{ID: uuid.New(), Sender: SenderUser, Content: "msg"}
	}
	exchanges[len(exchanges)-1].Content = "newest"

	if err := SaveHistory(path, exchanges); err != nil {
		t.Fatalf("SaveHistory() = %v", err)
	}

	got, err := LoadHistory(path)
	if err != nil {
		t.Fatalf("LoadHistory() = %v", err)
	}
	if len(got) != maxPersistedExchanges {
		t.Errorf("persisted %d entries, want %d", len(got), maxPersistedExchanges)
	}
	if got[len(got)-1].Content != "newest" {
		t.Error("newest entries must survive the bound")
	}
}
