package testsupport

import (
	"context"
	"errors"
	"sync"

	"github.com/revathi-prasad/ai-builders-podcast/internal/services/llm"
	"github.com/revathi-prasad/ai-builders-podcast/internal/services/tts"
)

// FakeLLM replays scripted replies in order. Once the script is exhausted the
// last entry repeats. A nil script returns an error on every call.
type FakeLLM struct {
	mu       sync.Mutex
	Replies  []string
	Errors   []error
	requests []llm.Request
}

// NewFakeLLM returns a FakeLLM that answers with replies in order.
func NewFakeLLM(replies ...string) *FakeLLM {
	return &FakeLLM{Replies: replies}
}

// Complete implements llm.Provider.
func (f *FakeLLM) Complete(_ context.Context, req llm.Request) (llm.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx := len(f.requests)
	f.requests = append(f.requests, req)

	if idx < len(f.Errors) && f.Errors[idx] != nil {
		return llm.Response{}, f.Errors[idx]
	}
	if len(f.Replies) == 0 {
		return llm.Response{}, errors.New("fake llm: no scripted reply")
	}
	reply := f.Replies[len(f.Replies)-1]
	if idx < len(f.Replies) {
		reply = f.Replies[idx]
	}
	return llm.Response{Content: reply, PromptTokens: len(req.Prompt) / 4, CompletionTokens: len(reply) / 4}, nil
}

// Calls returns the number of completions requested so far.
func (f *FakeLLM) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// Requests returns a copy of every request received.
func (f *FakeLLM) Requests() []llm.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]llm.Request(nil), f.requests...)
}

// FakeSynth returns fixed audio bytes, failing for request texts listed in Fail.
type FakeSynth struct {
	mu       sync.Mutex
	Audio    []byte
	Fail     map[string]error
	requests []tts.Request
}

// NewFakeSynth returns a FakeSynth producing a short fake MP3 payload.
func NewFakeSynth() *FakeSynth {
	return &FakeSynth{Audio: append([]byte(nil), FakeMP3...), Fail: map[string]error{}}
}

// Synthesize implements tts.Synthesizer.
func (f *FakeSynth) Synthesize(_ context.Context, req tts.Request) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if err, ok := f.Fail[req.Text]; ok {
		return nil, err
	}
	return append([]byte(nil), f.Audio...), nil
}

// Calls returns the number of synthesis requests received.
func (f *FakeSynth) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// Requests returns a copy of every request received.
func (f *FakeSynth) Requests() []tts.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]tts.Request(nil), f.requests...)
}
