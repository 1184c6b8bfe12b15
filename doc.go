// Package asynclog is a crash-safe file logger with an optional asynchronous
// writer.
//
// Key features
//   - Lines are formatted into a reusable growable buffer under one lock
//   - Asynchronous mode hands lines to a bounded blocking queue drained by a
//     single writer goroutine; a full queue blocks producers (backpressure)
//   - Files are named by day, {Dir}/{YYYY_MM_DD}{Suffix}, and roll over to
//     {Dir}/{YYYY_MM_DD}-{N}{Suffix} once MaxLinesPerFile is reached
//   - A failing disk degrades the service (IsOpen reports false) instead of
//     crashing producers; the writer keeps retrying
//   - Close drains queued lines within a bounded shutdown timeout
//
// Line format
//
//	[2026-10-17 09:30:00.123456] [info] value=42
//
// Typical usage
//
//	svc := asynclog.NewLogger()
//	if err := svc.Init(asynclog.InfoLevel, "./log", ".log", 1024); err != nil { panic(err) }
//	defer svc.Close()
//
//	svc.Infof("listening on %s", addr)
//
// The buffer and blockqueue sub-packages are usable on their own.
package asynclog
