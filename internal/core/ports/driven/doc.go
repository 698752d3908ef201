// Package driven defines the outbound ports of the reconciliation
// core: the source store, the catalog, state and report persistence,
// URL checking and operator confirmation. Adapters implement these
// interfaces; core services depend only on them.
package driven
