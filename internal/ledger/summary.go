package ledger

import "sort"

// SessionInput is one session's data as seen by Summarize.
type SessionInput struct {
	Participants []Participant
	Expenses     []Expense
}

// TripParticipant aggregates one person across sessions. Participant ids
// are scoped to a session, so people are matched by name.
type TripParticipant struct {
	Name       string  `json:"name"`
	TotalPaid  float64 `json:"totalPaid"`
	TotalShare float64 `json:"totalShare"`
	Net        float64 `json:"net"`
}

// TripSummary is the roll-up of every session in a trip.
type TripSummary struct {
	Participants  []TripParticipant `json:"participants"`
	TotalTripCost float64           `json:"totalTripCost"`
}

// Summarize computes each session's report and folds them together.
// Participants appear in order of first appearance across sessions.
func Summarize(sessions []SessionInput) TripSummary {
	var summary TripSummary
	index := make(map[string]int)

	for _, s := range sessions {
		report := Compute(s.Participants, s.Expenses)
		summary.TotalTripCost += report.TotalCost

		for _, st := range report.Ordered(s.Participants) {
			i, ok := index[st.Name]
			if !ok {
				i = len(summary.Participants)
				index[st.Name] = i
				summary.Participants = append(summary.Participants, TripParticipant{Name: st.Name})
			}
			tp := &summary.Participants[i]
			tp.TotalPaid += st.Paid
			tp.TotalShare += st.Share
			tp.Net += st.Net
		}
	}

	return summary
}

// TopSpenders returns up to n participants with a positive share, largest
// share first. n <= 0 means no limit.
func (s TripSummary) TopSpenders(n int) []TripParticipant {
	var spenders []TripParticipant
	for _, p := range s.Participants {
		if p.TotalShare > 0 {
			spenders = append(spenders, p)
		}
	}
	sort.SliceStable(spenders, func(a, b int) bool {
		return spenders[a].TotalShare > spenders[b].TotalShare
	})
	if n > 0 && len(spenders) > n {
		spenders = spenders[:n]
	}
	return spenders
}
