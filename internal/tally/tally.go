// Package tally computes vote totals and percentages over a tally snapshot.
package tally

import "github.com/manabcodes/bangladesh-election-poll/internal/model"

// TotalVotes sums all candidate counts for a constituency. Absent constituencies count 0.
func TotalVotes(t model.Tally, constituencyID string) int {
	total := 0
	for _, n := range t[constituencyID] {
		total += n
	}
	return total
}

// Count returns the votes for one candidate.
func Count(t model.Tally, constituencyID, candidate string) int {
	return t[constituencyID][candidate]
}

// Percentage returns the candidate's share in [0,100] rounded half-up to one decimal.
// It returns 0 when the constituency has no votes.
func Percentage(t model.Tally, constituencyID, candidate string) float64 {
	total := TotalVotes(t, constituencyID)
	if total == 0 {
		return 0
	}
	return float64(tenths(Count(t, constituencyID, candidate), total)) / 10
}

// tenths computes round_half_up(1000*count/total) without floating point error.
func tenths(count, total int) int {
	return (2000*count + total) / (2 * total)
}

// Rows returns per-candidate results in ballot order.
func Rows(t model.Tally, constituencyID string, candidates []string) []model.CandidateResult {
	rows := make([]model.CandidateResult, 0, len(candidates))
	for _, k := range candidates {
		rows = append(rows, model.CandidateResult{
			Candidate:  k,
			Count:      Count(t, constituencyID, k),
			Percentage: Percentage(t, constituencyID, k),
		})
	}
	return rows
}
