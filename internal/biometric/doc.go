// Package biometric correlates out-of-band wearable submissions with the
// session that is polling for them.
//
// A Registry maps an opaque session token (one per QR code shown to the
// learner) to the most recent biometric payload submitted under it, together
// with the assessment derived from that payload. Writes are last-writer-wins
// and always replace the whole session. The in-process MemoryRegistry lives
// for the process lifetime; multi-instance deployments use the DynamoDB-backed
// registry from internal/platform/dynamo, which honors the same contract.
package biometric
