// Package dialect adapts the backend-neutral attribute schema produced by
// export/mapper to a specific backend's conventions.
//
// Two strategies exist. [PassThrough] is the identity: backends that speak
// the gen_ai.* schema natively (OTLP collectors with GenAI processors)
// receive the neutral set untouched. [Inference] translates to the
// OpenInference-style llm.* dialect: scalar keys are renamed through a fixed
// table and each content event's message list is flattened into indexed
// per-message attributes (llm.input_messages.{i}.message.role/content).
//
// Both strategies pass every attribute under the reserved "custom."
// namespace through byte-for-byte: translation never drops caller-supplied
// metadata.
//
// A translation failure never propagates past the adapter boundary: the
// rendered data for that span is dropped and logged, other spans continue
// unaffected.
package dialect
