// Package audio turns dialogue into an episode MP3.
//
// The Pipeline queues spoken turns and standard intro/outro slots, renders
// them through the TTS provider with the audio cache in front, and returns
// clip paths in playback order. The Merger stitches those clips with the
// per-language music beds using ffmpeg.
//
// Queue entries carry a sequence number. Intro slots use IntroSequence and
// outro slots OutroSequence so they bracket spoken turns regardless of the
// order they were queued in. Items whose synthesis fails are dropped from the
// batch rather than failing the episode.
package audio
