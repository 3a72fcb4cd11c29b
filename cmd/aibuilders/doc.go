// Package main hosts the aibuilders CLI entrypoint and command graph.
//
// The Cobra command tree turns terminal invocations into episode runs, the
// transcript content processor, cache maintenance, cost reports and
// configuration scaffolding. Configuration is resolved once per invocation
// and injected into the internal packages; commands only parse flags and
// render results.
package main
