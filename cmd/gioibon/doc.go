// Command gioibon builds the segmented content database, the TSV export and
// the pre-synthesized audio consumed by the Giới bổn web reader.
//
// Common entry points:
//
//	gioibon build          parse, synthesize missing audio, publish
//	gioibon parse          print the segments without writing anything
//	gioibon hash TEXT      print the audio artifact name for a text
//	gioibon cache stats    summarize the audio staging store
//	gioibon cache gc       remove staged audio no published segment references
//	gioibon status         run preflight checks
package main
