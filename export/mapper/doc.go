// Package mapper converts semantic spans into the backend-neutral attribute
// and event representation that every backend dialect translates from.
//
// The mapping is table-driven by kind: each semantic kind has a canonical
// operation name (recorded under gen_ai.operation.name) and a canonical span
// classification (client-like for calls that leave the process, such as
// generations and embeddings; internal-like for everything else). The native
// span's display name is formatted as "{operation} {model-or-name}".
//
// The mapper itself performs no backend-specific translation; compose it
// with a dialect via the export/dialect package when the backend does not
// speak the neutral schema natively.
package mapper
