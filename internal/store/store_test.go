package store

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/manabcodes/bangladesh-election-poll/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "jorip.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestLoadEmpty(t *testing.T) {
	st := openTestStore(t)
	tl, err := st.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tl == nil || len(tl) != 0 {
		t.Fatalf("expected empty non-nil tally, got %v", tl)
	}
}

func TestSaveLoadSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jorip.db")
	st, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	ctx := context.Background()
	want := model.Tally{"dhaka-9": {"তাসনিম জারা (স্বতন্ত্র)": 3, "জাবেদ রাসিন (এনসিপি)": 1}}
	if err := st.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := st.RecordVote(ctx, "fp-1"); err != nil {
		t.Fatalf("record vote: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	st, err = Open(path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	got, err := st.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got["dhaka-9"]["তাসনিম জারা (স্বতন্ত্র)"] != 3 || got["dhaka-9"]["জাবেদ রাসিন (এনসিপি)"] != 1 {
		t.Fatalf("unexpected tally after reopen: %v", got)
	}
	voted, err := st.HasVoted(ctx, "fp-1")
	if err != nil || !voted {
		t.Fatalf("expected voter record to survive reopen, voted=%v err=%v", voted, err)
	}
}

func TestSaveOverwrites(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	if err := st.Save(ctx, model.Tally{"a": {"x": 5}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := st.Save(ctx, model.Tally{"b": {"y": 1}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := st.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, ok := got["a"]; ok {
		t.Fatalf("expected last save to replace the tally, got %v", got)
	}
	if got["b"]["y"] != 1 {
		t.Fatalf("unexpected tally: %v", got)
	}
}

func TestHasVotedAndRecordVote(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	voted, err := st.HasVoted(ctx, "fresh")
	if err != nil {
		t.Fatalf("has voted: %v", err)
	}
	if voted {
		t.Fatalf("expected fresh fingerprint to not have voted")
	}

	st.now = func() time.Time { return time.UnixMilli(1000) }
	if err := st.RecordVote(ctx, "fresh"); err != nil {
		t.Fatalf("record vote: %v", err)
	}
	st.now = func() time.Time { return time.UnixMilli(2000) }
	if err := st.RecordVote(ctx, "fresh"); err != nil {
		t.Fatalf("record vote again: %v", err)
	}
	for i := 0; i < 3; i++ {
		voted, err := st.HasVoted(ctx, "fresh")
		if err != nil || !voted {
			t.Fatalf("expected voted on check %d, voted=%v err=%v", i, voted, err)
		}
	}
	voters, err := st.Voters(ctx)
	if err != nil {
		t.Fatalf("voters: %v", err)
	}
	if len(voters) != 1 {
		t.Fatalf("expected one voter record, got %d", len(voters))
	}
	if voters[0].Fingerprint != "fresh" || voters[0].VotedAt.UnixMilli() != 2000 {
		t.Fatalf("unexpected voter record: %+v", voters[0])
	}
	if other, _ := st.HasVoted(ctx, "other"); other {
		t.Fatalf("expected unrelated fingerprint to not have voted")
	}
}

func TestVotersIgnoresTallyKey(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	if err := st.Save(ctx, model.Tally{"a": {"x": 1}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	voters, err := st.Voters(ctx)
	if err != nil {
		t.Fatalf("voters: %v", err)
	}
	if len(voters) != 0 {
		t.Fatalf("expected no voters, got %+v", voters)
	}
}

func TestUpdateDoesNotLoseConcurrentIncrements(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jorip.db")
	a, err := Open(path)
	if err != nil {
		t.Fatalf("open a: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })
	b, err := Open(path)
	if err != nil {
		t.Fatalf("open b: %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })

	ctx := context.Background()
	const perHandle = 20
	var wg sync.WaitGroup
	errs := make(chan error, 2*perHandle)
	for _, st := range []*Store{a, b} {
		wg.Add(1)
		go func(st *Store) {
			defer wg.Done()
			for i := 0; i < perHandle; i++ {
				_, err := st.Update(ctx, func(t model.Tally) model.Tally {
					return CastVote(t, "dhaka-9", "k")
				})
				if err != nil {
					errs <- err
				}
			}
		}(st)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("update: %v", err)
	}
	got, err := a.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got["dhaka-9"]["k"] != 2*perHandle {
		t.Fatalf("expected %d votes, got %d", 2*perHandle, got["dhaka-9"]["k"])
	}
}

func TestReadsDoNotWaitForWriterLock(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	st.mu.Lock()
	defer st.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		if _, err := st.Load(ctx); err != nil {
			done <- err
			return
		}
		_, err := st.HasVoted(ctx, "fp-reader")
		done <- err
	}()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("read: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("expected reads to proceed while the writer lock is held")
	}
}
