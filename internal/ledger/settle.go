package ledger

import (
	"math"
	"slices"
	"sort"
)

// balance is the planner's private working copy of one participant's net.
type balance struct {
	id   ParticipantID
	name string
	net  float64
}

// Plan returns the transfers that settle every balance in stats.
//
// Algorithm (greedy: match largest debts with largest credits):
//   - Round each net to cents; anyone within SettleTolerance of zero is done
//   - Debtors sorted by net ascending, creditors by net descending
//   - Walk both lists, transferring min(|debt|, credit) each step and moving
//     past whoever is settled
//
// The result has at most len(debtors)+len(creditors)-1 transfers and
// conserves money, but it is a heuristic: some inputs admit fewer transfers.
// Ties keep ascending participant-id order (stable sort), so identical
// inputs always produce identical plans. Non-finite nets are left out.
func Plan(stats map[ParticipantID]PersonStat) []Settlement {
	ids := make([]ParticipantID, 0, len(stats))
	for id := range stats {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	var debtors, creditors []*balance
	for _, id := range ids {
		st := stats[id]
		net := RoundCents(st.Net)
		if math.IsNaN(net) || math.IsInf(net, 0) {
			continue
		}
		if net < -SettleTolerance {
			debtors = append(debtors, &balance{id: st.ID, name: st.Name, net: net})
		}
		if net > SettleTolerance {
			creditors = append(creditors, &balance{id: st.ID, name: st.Name, net: net})
		}
	}

	sort.SliceStable(debtors, func(a, b int) bool { return debtors[a].net < debtors[b].net })
	sort.SliceStable(creditors, func(a, b int) bool { return creditors[a].net > creditors[b].net })

	var moves []Settlement
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor := debtors[i]
		creditor := creditors[j]

		amount := math.Min(math.Abs(debtor.net), creditor.net)

		if amount > SettleTolerance {
			moves = append(moves, Settlement{
				From:   debtor.name,
				To:     creditor.name,
				FromID: debtor.id,
				ToID:   creditor.id,
				Amount: amount,
			})
		}

		debtor.net += amount
		creditor.net -= amount

		advanced := false
		if math.Abs(debtor.net) < SettleTolerance {
			i++
			advanced = true
		}
		if creditor.net < SettleTolerance {
			j++
			advanced = true
		}
		if !advanced {
			break
		}
	}

	return moves
}

// PlanReport is Plan applied to a report's stats.
func PlanReport(r Report) []Settlement {
	return Plan(r.Stats)
}
