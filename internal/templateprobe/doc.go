// Package templateprobe watches the join template file in serve mode.
// It periodically checks that the file exists and is a regular file, logs
// transitions and feeds availability changes to the metrics collector.
package templateprobe
