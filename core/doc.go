// Package core contains the frontrun search request domain: the request
// record and its lifecycle guard, the registry service that allocates ids and
// applies transitions, and the store contracts adapters implement. Core must
// not depend on ledger, transport or storage adapters.
package core
