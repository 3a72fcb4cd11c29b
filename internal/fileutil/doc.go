// Package fileutil holds small file helpers shared by the transcript and
// audio writers: streaming copies and atomic replace-by-rename writes.
package fileutil
