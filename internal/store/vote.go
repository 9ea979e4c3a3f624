package store

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/manabcodes/bangladesh-election-poll/internal/model"
)

// CastVote returns a copy of t with the (constituency, candidate) count incremented by one.
// The argument is not modified; persisting the result is up to the caller.
func CastVote(t model.Tally, constituencyID, candidate string) model.Tally {
	next := t.Clone()
	counts, ok := next[constituencyID]
	if !ok {
		counts = map[string]int{}
		next[constituencyID] = counts
	}
	counts[candidate]++
	return next
}

// Memory is an in-process store with the same contract as Store.
type Memory struct {
	mu     sync.Mutex
	values map[string]string
	now    func() time.Time
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: map[string]string{}, now: time.Now}
}

// Load implements the vote store contract.
func (m *Memory) Load(_ context.Context) (model.Tally, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load()
}

// Save implements the vote store contract.
func (m *Memory) Save(_ context.Context, t model.Tally) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.save(t)
}

// Update implements the vote store contract.
func (m *Memory) Update(_ context.Context, fn func(model.Tally) model.Tally) (model.Tally, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, err := m.load()
	if err != nil {
		return nil, err
	}
	next := fn(current)
	if err := m.save(next); err != nil {
		return nil, err
	}
	return next, nil
}

// HasVoted implements the vote store contract.
func (m *Memory) HasVoted(_ context.Context, fingerprint string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.values[VoterKey(fingerprint)]
	return ok, nil
}

// RecordVote implements the vote store contract.
func (m *Memory) RecordVote(_ context.Context, fingerprint string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[VoterKey(fingerprint)] = strconv.FormatInt(m.now().UnixMilli(), 10)
	return nil
}

// Voters implements the vote store contract.
func (m *Memory) Voters(_ context.Context) ([]model.VoterRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var voters []model.VoterRecord
	for key, value := range m.values {
		if len(key) <= len(voterPrefix) || key[:len(voterPrefix)] != voterPrefix {
			continue
		}
		rec := model.VoterRecord{Fingerprint: key[len(voterPrefix):]}
		if ms, err := strconv.ParseInt(value, 10, 64); err == nil {
			rec.VotedAt = time.UnixMilli(ms)
		}
		voters = append(voters, rec)
	}
	sort.Slice(voters, func(i, j int) bool {
		return voters[i].VotedAt.Before(voters[j].VotedAt)
	})
	return voters, nil
}

// Close implements the vote store contract.
func (m *Memory) Close() error {
	return nil
}

func (m *Memory) load() (model.Tally, error) {
	raw, ok := m.values[tallyKey]
	if !ok {
		return model.Tally{}, nil
	}
	return decodeTally(raw)
}

func (m *Memory) save(t model.Tally) error {
	raw, err := encodeTally(t)
	if err != nil {
		return err
	}
	m.values[tallyKey] = raw
	return nil
}
