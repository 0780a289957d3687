// Package gemini implements diagnosis.Diagnoser with Google's Gemini API.
//
// The photo and a prompt listing the diseases the knowledge base knows are
// sent in a single request that asks for a JSON answer. Transport errors are
// returned as-is so the caller's breaker can retry them; unusable answers
// (safety blocks, malformed JSON) are marked permanent.
package gemini
