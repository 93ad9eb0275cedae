// Package models defines the core domain models for the split ledger.
//
// # Ledger Models
//
//   - User: a registered account; everything else references users by ID only
//   - Expense: one payment made by a payer, broken into items plus tax
//   - ExpenseItem: a line item, either personal (one assignee) or shared
//   - ExpenseSplit: "this user owes Amount toward this expense"
//   - Settlement: a direct payment from one user to another
//
// # Money
//
// Every monetary field is a decimal.Decimal. Amounts are stored as canonical
// decimal strings and never pass through float64.
//
// # Design Principles
//
// 1. **Immutable records**: expenses and settlements are written once
// 2. **Avoid circular references**: use ID strings instead of pointers for relationships
// 3. **Derived balances**: nothing here stores a balance; balances are recomputed from splits and settlements
package models
