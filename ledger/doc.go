// Package ledger simulates the chain that hosts the registry contract.
//
// A Chain mines blocks of calls in order. Each call runs against the
// registry through the command and query handlers and yields a Receipt whose
// Result is either ok with a Value or err with a stable error code. A failed
// call never aborts its block. Block headers go to a BlockStore, so a chain
// backed by SQL storage resumes at the last mined height.
package ledger
