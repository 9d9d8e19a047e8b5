// Package llmtest provides a scripted llm.Provider for tests.
package llmtest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/metalagman/coursellm/internal/llm"
)

// Reply is one scripted completion outcome.
type Reply struct {
	Text string
	Err  error
}

// Provider replays scripted replies per task, in order. The last reply for a
// task is repeated once the queue is drained.
type Provider struct {
	mu      sync.Mutex
	replies map[string][]Reply
	calls   []llm.Request
}

// New returns an empty scripted provider.
func New() *Provider {
	return &Provider{replies: make(map[string][]Reply)}
}

// On queues raw replies for task.
func (p *Provider) On(task string, replies ...Reply) *Provider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.replies[task] = append(p.replies[task], replies...)
	return p
}

// OnJSON queues v, marshaled to JSON, as the reply for task.
func (p *Provider) OnJSON(task string, v any) *Provider {
	b, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("llmtest: marshal reply: %v", err))
	}
	return p.On(task, Reply{Text: string(b)})
}

// OnError queues a failing reply for task.
func (p *Provider) OnError(task string, err error) *Provider {
	return p.On(task, Reply{Err: err})
}

// Name implements llm.Provider.
func (p *Provider) Name() string {
	return "scripted"
}

// Complete implements llm.Provider.
func (p *Provider) Complete(ctx context.Context, req llm.Request) (llm.Response, error) {
	if err := ctx.Err(); err != nil {
		return llm.Response{}, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, req)

	queue := p.replies[req.Task]
	if len(queue) == 0 {
		return llm.Response{}, fmt.Errorf("llmtest: no reply scripted for task %q", req.Task)
	}
	reply := queue[0]
	if len(queue) > 1 {
		p.replies[req.Task] = queue[1:]
	}
	if reply.Err != nil {
		return llm.Response{}, reply.Err
	}
	return llm.Response{Text: reply.Text}, nil
}

// Calls returns every request received so far.
func (p *Provider) Calls() []llm.Request {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]llm.Request, len(p.calls))
	copy(out, p.calls)
	return out
}

// CallCount returns how many requests were made for task.
func (p *Provider) CallCount(task string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, c := range p.calls {
		if c.Task == task {
			n++
		}
	}
	return n
}
