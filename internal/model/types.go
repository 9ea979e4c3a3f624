// Package model defines shared data structures.
package model

import "time"

// Config defines poll session settings.
type Config struct {
	DBPath      string
	CatalogPath string
	Ephemeral   bool
	DebugLog    string
}

// Constituency is an electoral district being polled.
type Constituency struct {
	ID     string `toml:"id"`
	Name   string `toml:"name"`
	NameEn string `toml:"name-en"`
}

// Question is a civic-knowledge check shown before voting.
type Question struct {
	Prompt  string   `toml:"prompt"`
	Options []string `toml:"options"`
	Correct int      `toml:"correct"`
}

// Tally maps constituency ID to candidate label to vote count.
type Tally map[string]map[string]int

// Clone returns a deep copy of the tally.
func (t Tally) Clone() Tally {
	out := make(Tally, len(t))
	for id, counts := range t {
		inner := make(map[string]int, len(counts))
		for candidate, n := range counts {
			inner[candidate] = n
		}
		out[id] = inner
	}
	return out
}

// VoterRecord marks a fingerprint that has already voted.
type VoterRecord struct {
	Fingerprint string
	VotedAt     time.Time
}

// CandidateResult is one rendered row of a constituency's results.
type CandidateResult struct {
	Candidate  string
	Count      int
	Percentage float64
}
