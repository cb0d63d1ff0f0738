// Package models defines the core domain models for Splitmate.
//
// # Model Overview
//
//   - User: Registered account; doubles as a group member identity
//   - Group: Named collection of members with a default currency
//   - Expense: Shared cost paid by one member, divided via explicit shares
//   - Payment: Direct transfer between two members that reduces a debt
//   - BalanceSheet: Derived per-member net positions (never persisted)
//   - SettlementSuggestion: One proposed transfer in a settlement plan
//   - ExchangeRate: Conversion rate between two currencies on a date
//
// # Conventions
//
//  1. Monetary amounts are int64 counts of minor currency units. VND has no
//     subunit, so an amount of 30000 is ₫30,000; for USD it would be cents.
//  2. IDs are UUID strings; relationships use ID strings, never pointers.
//  3. Timestamps are Unix seconds, set by the storage layer on create.
//  4. BalanceSheet and settlement plans are pure functions of the current
//     expense/payment set and are recomputed on every change, never stored.
package models
