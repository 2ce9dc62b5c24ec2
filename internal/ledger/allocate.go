package ledger

// Compute allocates expenses to participants and returns their balances.
//
// Algorithm:
//   - Every participant starts at paid = share = net = 0
//   - For each expense, in order: the payer's paid grows by the amount, and
//     the amount is spread over shares according to the split mode
//   - Exact: each custom split value goes to its participant
//   - Equal: amount / len(involved) goes to each involved participant; an
//     empty involved list means everyone in the session
//   - net = paid - share
//
// References to unknown participants are skipped rather than reported, so a
// partially edited session still produces a best-effort report.
func Compute(participants []Participant, expenses []Expense) Report {
	stats := make(map[ParticipantID]*PersonStat, len(participants))
	for _, p := range participants {
		stats[p.ID] = &PersonStat{ID: p.ID, Name: p.Name}
	}

	var totalCost float64
	for _, e := range expenses {
		totalCost += e.Amount

		if payer, ok := stats[e.PayerID]; ok {
			payer.Paid += e.Amount
		}

		switch e.SplitMode {
		case SplitExact:
			for id, value := range e.CustomSplits {
				if st, ok := stats[id]; ok {
					st.Share += value
				}
			}
		default:
			splitAmong := equalSplitSet(e.InvolvedIDs, participants)
			if len(splitAmong) == 0 {
				continue
			}
			perPerson := e.Amount / float64(len(splitAmong))
			for _, id := range splitAmong {
				if st, ok := stats[id]; ok {
					st.Share += perPerson
				}
			}
		}
	}

	out := make(map[ParticipantID]PersonStat, len(stats))
	for id, st := range stats {
		st.Net = st.Paid - st.Share
		out[id] = *st
	}

	return Report{Stats: out, TotalCost: totalCost}
}

// equalSplitSet returns the ids an equal split divides among. Duplicates in
// involved are dropped; unknown ids are kept so they still count toward the
// divisor.
func equalSplitSet(involved []ParticipantID, participants []Participant) []ParticipantID {
	if len(involved) == 0 {
		all := make([]ParticipantID, len(participants))
		for i, p := range participants {
			all[i] = p.ID
		}
		return all
	}

	seen := make(map[ParticipantID]bool, len(involved))
	set := make([]ParticipantID, 0, len(involved))
	for _, id := range involved {
		if seen[id] {
			continue
		}
		seen[id] = true
		set = append(set, id)
	}
	return set
}

// Ordered returns the report's stats in the order of participants.
// Stats for ids not in participants are omitted.
func (r Report) Ordered(participants []Participant) []PersonStat {
	ordered := make([]PersonStat, 0, len(participants))
	for _, p := range participants {
		if st, ok := r.Stats[p.ID]; ok {
			ordered = append(ordered, st)
		}
	}
	return ordered
}
