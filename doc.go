// Package cgt computes UK Capital Gains Tax from a list of brokerage
// transactions. It is a pure, in-memory engine: every function takes its
// inputs explicitly and nothing is kept between calls.
//
// The core functionalities include:
//   - Matching: every sell is paired with acquisitions following HMRC's
//     statutory order, same day first, then the 30 following days (the
//     bed-and-breakfast rule), then earlier acquisitions (Section 104).
//   - Pricing: a matched sell becomes a Disposal with its proceeds, cost
//     basis, expenses and gain in pounds, each amount converted at the rate
//     of its own transaction.
//   - Pools: Section 104 share pools and first in first out currency pools,
//     owned by the caller of a calculation run.
//   - Aggregation: disposals, dividends and currency gains are summed per
//     tax year (6 April to 5 April) and the yearly allowances applied.
//   - Persistence: transactions are read from JSONL or CSV ledgers.
//
// This package serves as the foundational logic for the `ukcgt` command-line
// tool.
package cgt
