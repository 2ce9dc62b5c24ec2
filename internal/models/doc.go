// Package models defines the stored domain models for tripsplit.
//
// # Models
//
//   - User: registered account; every user owns exactly one trip
//   - Session collections: an owner's sessions form their trip; the trip
//     itself only has a name (see storage.Store)
//   - Session: one round of splitting (breakfast, hotel, taxi) with its own
//     participants, expenses, and settled transfers
//
// Participants and expenses are the ledger package's types; a session only
// adds bookkeeping around them.
//
// # Design Principles
//
//  1. **Single id type**: participant ids are ledger.ParticipantID
//     everywhere; string payer ids from old exports are converted once, at
//     import time
//  2. **Derived data is never stored**: balances and settlement plans are
//     recomputed from participants and expenses on every read
//  3. **Avoid circular references**: sessions reference their owner by id
package models
