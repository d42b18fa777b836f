// Package logger provides structured logging and run metrics for slotwatch.
//
// Logs are written through zerolog, either as one JSON object per line or in a
// human-readable console layout. Every entry carries a timestamp, level and
// message, plus any structured fields passed by the caller.
//
// Example usage:
//
//	logger.Info("facility checked", logger.Fields{
//	    "facility":  "鳩ヶ谷",
//	    "available": true,
//	})
//
//	logger.Error("slack delivery failed", logger.Fields{"status": 500}, err)
//
//	logger.IncrCounter("notify.sent")
//	logger.RecordTiming("scan.facility", elapsed)
package logger
