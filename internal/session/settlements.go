package session

import (
	"fmt"
	"slices"

	"github.com/mmynk/tripsplit/internal/ledger"
	"github.com/mmynk/tripsplit/internal/models"
)

// SettlementKey identifies a suggested transfer as "from->to->amount".
// Plans are recomputed on every change, so a key stops matching as soon as
// the transfer it names no longer appears in the plan.
func SettlementKey(s ledger.Settlement) string {
	return fmt.Sprintf("%s->%s->%.2f", s.From, s.To, s.Amount)
}

// IsSettlementPaid reports whether the key was marked as paid.
func IsSettlementPaid(s *models.Session, key string) bool {
	return slices.Contains(s.PaidSettlements, key)
}

// SetSettlementPaid marks or unmarks a settlement key. It reports whether
// anything changed.
func SetSettlementPaid(s *models.Session, key string, paid bool) bool {
	idx := slices.Index(s.PaidSettlements, key)
	switch {
	case paid && idx < 0:
		s.PaidSettlements = append(s.PaidSettlements, key)
		return true
	case !paid && idx >= 0:
		s.PaidSettlements = slices.Delete(s.PaidSettlements, idx, idx+1)
		return true
	}
	return false
}
