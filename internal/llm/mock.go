package llm

import (
	"context"
	"errors"
	"sync"

	"marketing_engine/internal/domain"
)

type Call struct {
	Prompt string
	System string
}

// Mock replays canned responses in order, cycling when it runs out. A nil error slot
// returns the response; a non-nil one fails the call instead.
type Mock struct {
	mu        sync.Mutex
	responses []string
	errs      map[int]error
	next      int
	calls     []Call
}

func NewMock(responses ...string) *Mock {
	return &Mock{responses: responses, errs: make(map[int]error)}
}

// FailAt makes the n-th call (zero based) return err.
func (m *Mock) FailAt(n int, err error) *Mock {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[n] = err
	return m
}

func (m *Mock) Name() string { return "mock" }

func (m *Mock) Complete(ctx context.Context, prompt, system string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.calls)
	m.calls = append(m.calls, Call{Prompt: prompt, System: system})

	if err, ok := m.errs[n]; ok {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", &domain.LLMError{Timeout: errors.Is(err, context.DeadlineExceeded), Err: err}
	}
	if len(m.responses) == 0 {
		return "", nil
	}
	resp := m.responses[m.next%len(m.responses)]
	m.next++
	return resp, nil
}

func (m *Mock) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}
