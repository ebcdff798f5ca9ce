// Package services defines shared utilities consumed by the translation
// pipeline and its external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, stage names, and block positions for
//     logging and tracing.
//   - Structured error markers plus the Wrap helper that classify failures
//     (configuration vs input vs backend) consistently across the pipeline.
//
// Concrete integrations live in subpackages such as services/llm.
package services
