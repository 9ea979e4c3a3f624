package poll

import (
	"context"
	"errors"
	"fmt"

	"github.com/manabcodes/bangladesh-election-poll/internal/catalog"
	"github.com/manabcodes/bangladesh-election-poll/internal/model"
	"github.com/manabcodes/bangladesh-election-poll/internal/store"
)

// User-facing validation messages.
const (
	MsgWrongAnswer = "ভুল উত্তর। অনুগ্রহ করে আবার চেষ্টা করুন।"
	MsgNoCandidate = "অনুগ্রহ করে একজন প্রার্থী নির্বাচন করুন"
	MsgSaveFailed  = "ভোট সংরক্ষণ করা যায়নি। আবার চেষ্টা করুন।"
)

var (
	// ErrInvalidTransition is returned for an action the current state does not accept.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrUnknownConstituency is returned when the constituency is not in the catalog.
	ErrUnknownConstituency = errors.New("unknown constituency")
	// ErrUnknownCandidate is returned when the candidate is not on the ballot.
	ErrUnknownCandidate = errors.New("unknown candidate")
	// ErrUnknownOption is returned for an answer index outside the question's options.
	ErrUnknownOption = errors.New("unknown answer option")
	// ErrNoAnswer is returned when submitting without choosing an answer.
	ErrNoAnswer = errors.New("no answer chosen")
	// ErrWrongAnswer is returned when the verification answer is incorrect.
	ErrWrongAnswer = errors.New("wrong verification answer")
	// ErrNoCandidate is returned when submitting a vote without choosing a candidate.
	ErrNoCandidate = errors.New("no candidate chosen")
)

const noAnswer = -1

// VoteStore is the durable tally and duplicate-vote gate a session writes through.
type VoteStore interface {
	Load(ctx context.Context) (model.Tally, error)
	Save(ctx context.Context, t model.Tally) error
	HasVoted(ctx context.Context, fingerprint string) (bool, error)
	RecordVote(ctx context.Context, fingerprint string) error
}

// Updater is implemented by stores that can apply a read-modify-write atomically.
type Updater interface {
	Update(ctx context.Context, fn func(model.Tally) model.Tally) (model.Tally, error)
}

// QuestionDrawer picks the verification question.
type QuestionDrawer interface {
	Question(bank []model.Question) model.Question
}

// Session is one visit: select, verify, vote, then results, or blocked.
type Session struct {
	catalog     *catalog.Catalog
	store       VoteStore
	draw        QuestionDrawer
	fingerprint string

	state        State
	constituency *model.Constituency
	question     *model.Question
	answer       int
	candidate    string
	errMsg       string
	voted        bool
	tally        model.Tally
}

// New starts a session. The initial state is Blocked when the fingerprint has
// already voted and Select otherwise.
func New(ctx context.Context, c *catalog.Catalog, st VoteStore, draw QuestionDrawer, fingerprint string) (*Session, error) {
	tally, err := st.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load tally: %w", err)
	}
	voted, err := st.HasVoted(ctx, fingerprint)
	if err != nil {
		return nil, fmt.Errorf("failed to check voter record: %w", err)
	}
	s := &Session{
		catalog:     c,
		store:       st,
		draw:        draw,
		fingerprint: fingerprint,
		state:       StateSelect,
		answer:      noAnswer,
		tally:       tally,
	}
	if voted {
		s.state = StateBlocked
	}
	return s, nil
}

// State returns the current workflow state.
func (s *Session) State() State { return s.state }

// Catalog returns the election data the session runs on.
func (s *Session) Catalog() *catalog.Catalog { return s.catalog }

// Fingerprint returns the device fingerprint computed at session start.
func (s *Session) Fingerprint() string { return s.fingerprint }

// Error returns the last validation message, or "".
func (s *Session) Error() string { return s.errMsg }

// Voted reports whether this session cast a vote.
func (s *Session) Voted() bool { return s.voted }

// Constituency returns the selected constituency.
func (s *Session) Constituency() (model.Constituency, bool) {
	if s.constituency == nil {
		return model.Constituency{}, false
	}
	return *s.constituency, true
}

// Question returns the drawn verification question.
func (s *Session) Question() (model.Question, bool) {
	if s.question == nil {
		return model.Question{}, false
	}
	return *s.question, true
}

// Answer returns the pending answer index.
func (s *Session) Answer() (int, bool) {
	return s.answer, s.answer != noAnswer
}

// Candidate returns the pending candidate.
func (s *Session) Candidate() (string, bool) {
	return s.candidate, s.candidate != ""
}

// Candidates returns the ballot of the selected constituency.
func (s *Session) Candidates() []string {
	if s.constituency == nil {
		return nil
	}
	return s.catalog.CandidatesFor(s.constituency.ID)
}

// Tally returns a copy of the session's tally snapshot.
func (s *Session) Tally() model.Tally {
	return s.tally.Clone()
}

// ResultIDs returns the constituencies the results screen shows: the voted
// one, or every constituency when arriving from Blocked.
func (s *Session) ResultIDs() []string {
	if s.constituency != nil {
		return []string{s.constituency.ID}
	}
	return s.catalog.IDs()
}

// Refresh reloads the tally snapshot from the store.
func (s *Session) Refresh(ctx context.Context) error {
	tally, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load tally: %w", err)
	}
	s.tally = tally
	return nil
}

// SelectConstituency moves Select to Verify with a freshly drawn question.
func (s *Session) SelectConstituency(id string) error {
	if err := s.require(TriggerSelectConstituency); err != nil {
		return err
	}
	con, ok := s.catalog.Constituency(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownConstituency, id)
	}
	q := s.draw.Question(s.catalog.Questions)
	s.constituency = &con
	s.question = &q
	s.answer = noAnswer
	s.candidate = ""
	s.errMsg = ""
	s.state = StateVerify
	return nil
}

// ChooseAnswer sets the pending answer to the verification question.
func (s *Session) ChooseAnswer(index int) error {
	if err := s.require(TriggerChooseAnswer); err != nil {
		return err
	}
	if index < 0 || index >= len(s.question.Options) {
		return fmt.Errorf("%w: %d", ErrUnknownOption, index)
	}
	s.answer = index
	return nil
}

// SubmitAnswer checks the pending answer. A correct answer moves to Vote; a
// wrong one keeps the same question, clears the answer and sets an error.
func (s *Session) SubmitAnswer() error {
	if err := s.require(TriggerSubmitAnswer); err != nil {
		return err
	}
	if s.answer == noAnswer {
		return ErrNoAnswer
	}
	if s.answer != s.question.Correct {
		s.errMsg = MsgWrongAnswer
		s.answer = noAnswer
		return ErrWrongAnswer
	}
	s.errMsg = ""
	s.state = StateVote
	return nil
}

// Cancel returns from Verify to Select, discarding the constituency and question.
func (s *Session) Cancel() error {
	if err := s.require(TriggerCancel); err != nil {
		return err
	}
	s.constituency = nil
	s.question = nil
	s.answer = noAnswer
	s.errMsg = ""
	s.state = StateSelect
	return nil
}

// ChooseCandidate sets the pending candidate from the constituency's ballot.
func (s *Session) ChooseCandidate(candidate string) error {
	if err := s.require(TriggerChooseCandidate); err != nil {
		return err
	}
	if !s.catalog.HasCandidate(s.constituency.ID, candidate) {
		return fmt.Errorf("%w: %q", ErrUnknownCandidate, candidate)
	}
	s.candidate = candidate
	return nil
}

// SubmitVote casts the pending vote, records the fingerprint and moves to Results.
func (s *Session) SubmitVote(ctx context.Context) error {
	if err := s.require(TriggerSubmitVote); err != nil {
		return err
	}
	if s.candidate == "" {
		s.errMsg = MsgNoCandidate
		return ErrNoCandidate
	}
	next, err := s.persist(ctx)
	if err != nil {
		s.errMsg = MsgSaveFailed
		return fmt.Errorf("failed to save vote: %w", err)
	}
	s.tally = next
	s.voted = true
	s.errMsg = ""
	s.state = StateResults
	if err := s.store.RecordVote(ctx, s.fingerprint); err != nil {
		return fmt.Errorf("failed to record voter: %w", err)
	}
	return nil
}

func (s *Session) persist(ctx context.Context) (model.Tally, error) {
	id, candidate := s.constituency.ID, s.candidate
	if u, ok := s.store.(Updater); ok {
		return u.Update(ctx, func(t model.Tally) model.Tally {
			return store.CastVote(t, id, candidate)
		})
	}
	current, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	next := store.CastVote(current, id, candidate)
	if err := s.store.Save(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}

// Back returns from Vote to Verify, keeping the constituency and dropping the candidate.
func (s *Session) Back() error {
	if err := s.require(TriggerBack); err != nil {
		return err
	}
	s.candidate = ""
	s.errMsg = ""
	s.state = StateVerify
	return nil
}

// ViewResults moves Blocked to Results without writing anything.
func (s *Session) ViewResults() error {
	if err := s.require(TriggerViewResults); err != nil {
		return err
	}
	s.state = StateResults
	return nil
}

func (s *Session) require(t Trigger) error {
	if !s.state.Accepts(t) {
		return fmt.Errorf("%w: %s in state %s", ErrInvalidTransition, t, s.state)
	}
	return nil
}
