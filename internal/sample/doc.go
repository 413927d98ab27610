// Package sample fetches, decodes, and loops external audio assets for
// sample-backed soundscapes. It is the only asynchronous, fallible path
// in the audio core: cancellation is re-checked at each suspension
// point so a stop requested mid-load can never leave an orphaned
// running source behind.
package sample
