// Package sqlstore persists registry state with bun on postgres or sqlite.
package sqlstore
