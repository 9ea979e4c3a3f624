package catalog

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatalf("expected built-in catalog to be valid, got %v", err)
	}
	if _, ok := c.Constituency("dhaka-9"); !ok {
		t.Fatalf("expected dhaka-9 in catalog")
	}
	if !c.HasCandidate("dhaka-9", "তাসনিম জারা (স্বতন্ত্র)") {
		t.Fatalf("expected candidate on dhaka-9 ballot")
	}
	if c.HasCandidate("dhaka-8", "তাসনিম জারা (স্বতন্ত্র)") {
		t.Fatalf("candidate must be scoped to its own constituency")
	}
	ids := c.IDs()
	if len(ids) != 3 || ids[0] != "dhaka-8" || ids[2] != "dhaka-15" {
		t.Fatalf("unexpected ids: %v", ids)
	}
}

func TestDefaultReturnsFreshCopy(t *testing.T) {
	a := Default()
	a.Candidates["dhaka-8"][0] = "changed"
	b := Default()
	if b.Candidates["dhaka-8"][0] == "changed" {
		t.Fatalf("expected Default to return an independent copy")
	}
}

func TestWriteLoadRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := Default().Write(&buf); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	path := filepath.Join(t.TempDir(), "election.toml")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	if len(c.Constituencies) != 3 || len(c.Questions) != 3 {
		t.Fatalf("unexpected catalog sizes: %d constituencies, %d questions", len(c.Constituencies), len(c.Questions))
	}
	if c.Questions[2].Correct != 2 {
		t.Fatalf("expected correct index 2, got %d", c.Questions[2].Correct)
	}
	if got := c.CandidatesFor("dhaka-9")[3]; got != "তাসনিম জারা (স্বতন্ত্র)" {
		t.Fatalf("unexpected candidate order: %q", got)
	}
}

func TestLoadEmptyPathUsesDefault(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Title != Default().Title {
		t.Fatalf("expected built-in catalog")
	}
}

func TestLoadRejectsBadCorrectIndex(t *testing.T) {
	body := `
[[constituencies]]
id = "x-1"
name = "X-1"
name-en = "X-1"

[candidates]
"x-1" = ["A", "B"]

[[questions]]
prompt = "Q?"
options = ["a", "b"]
correct = 5
`
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	_, err := Load(path)
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestValidateRejectsOrphanBallot(t *testing.T) {
	c := Default()
	c.Candidates["dhaka-99"] = []string{"A"}
	if err := c.Validate(); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestValidateRejectsEmptyCandidateLabel(t *testing.T) {
	c := Default()
	c.Candidates["dhaka-9"] = append(c.Candidates["dhaka-9"], "")
	if err := c.Validate(); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for empty candidate label, got %v", err)
	}
}

func TestValidateRejectsEmptyOption(t *testing.T) {
	c := Default()
	c.Questions[0].Options[1] = "  "
	if err := c.Validate(); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for empty answer option, got %v", err)
	}
}
