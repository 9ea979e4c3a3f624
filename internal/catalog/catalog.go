// Package catalog holds the read-only election data the poll runs on.
package catalog

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/manabcodes/bangladesh-election-poll/internal/model"
)

// ErrInvalid reports a catalog that the poll cannot run on.
var ErrInvalid = errors.New("invalid catalog")

// Catalog is the set of constituencies, their ballots and the question bank.
type Catalog struct {
	Title          string               `toml:"title"`
	Constituencies []model.Constituency `toml:"constituencies"`
	Candidates     map[string][]string  `toml:"candidates"`
	Questions      []model.Question     `toml:"questions"`
}

// Constituency looks up a constituency by ID.
func (c *Catalog) Constituency(id string) (model.Constituency, bool) {
	for _, con := range c.Constituencies {
		if con.ID == id {
			return con, true
		}
	}
	return model.Constituency{}, false
}

// CandidatesFor returns the ballot of a constituency in display order.
func (c *Catalog) CandidatesFor(id string) []string {
	return c.Candidates[id]
}

// HasCandidate reports whether candidate is on the ballot of constituency id.
func (c *Catalog) HasCandidate(id, candidate string) bool {
	for _, k := range c.Candidates[id] {
		if k == candidate {
			return true
		}
	}
	return false
}

// IDs returns the constituency IDs in display order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.Constituencies))
	for i, con := range c.Constituencies {
		ids[i] = con.ID
	}
	return ids
}

// Validate checks the structural rules the session relies on.
func (c *Catalog) Validate() error {
	if len(c.Constituencies) == 0 {
		return fmt.Errorf("%w: no constituencies", ErrInvalid)
	}
	if len(c.Questions) == 0 {
		return fmt.Errorf("%w: empty question bank", ErrInvalid)
	}
	seen := map[string]struct{}{}
	for _, con := range c.Constituencies {
		if con.ID == "" {
			return fmt.Errorf("%w: constituency without id", ErrInvalid)
		}
		if _, ok := seen[con.ID]; ok {
			return fmt.Errorf("%w: duplicate constituency %q", ErrInvalid, con.ID)
		}
		seen[con.ID] = struct{}{}
		ballot := c.Candidates[con.ID]
		if len(ballot) == 0 {
			return fmt.Errorf("%w: constituency %q has no candidates", ErrInvalid, con.ID)
		}
		labels := map[string]struct{}{}
		for _, k := range ballot {
			if strings.TrimSpace(k) == "" {
				return fmt.Errorf("%w: empty candidate label in %q", ErrInvalid, con.ID)
			}
			if _, ok := labels[k]; ok {
				return fmt.Errorf("%w: duplicate candidate %q in %q", ErrInvalid, k, con.ID)
			}
			labels[k] = struct{}{}
		}
	}
	for id := range c.Candidates {
		if _, ok := seen[id]; !ok {
			return fmt.Errorf("%w: candidates for unknown constituency %q", ErrInvalid, id)
		}
	}
	for i, q := range c.Questions {
		if len(q.Options) == 0 {
			return fmt.Errorf("%w: question %d has no options", ErrInvalid, i)
		}
		for j, opt := range q.Options {
			if strings.TrimSpace(opt) == "" {
				return fmt.Errorf("%w: question %d option %d is empty", ErrInvalid, i, j)
			}
		}
		if q.Correct < 0 || q.Correct >= len(q.Options) {
			return fmt.Errorf("%w: question %d correct index %d out of range", ErrInvalid, i, q.Correct)
		}
	}
	return nil
}

// Load reads a TOML catalog file. An empty path returns the built-in catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	var c Catalog
	meta, err := toml.DecodeFile(path, &c)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("catalog file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%w: unknown key %q", ErrInvalid, undecoded[0].String())
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Write encodes the catalog as TOML.
func (c *Catalog) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
