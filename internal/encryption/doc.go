// Package encryption processes files through the chunked streaming cipher.
// It owns the container envelope, derives per-file stream keys, and runs
// files in parallel with atomic output writes.
package encryption
