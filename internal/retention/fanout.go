package retention

import (
	"context"
	"fmt"
	"sync"
)

// Action is one independent best-effort side effect.
type Action struct {
	Name string
	Run  func(context.Context) error
}

// Outcome reports how a settled action ended.
type Outcome struct {
	Name string
	Err  error
}

// Settle runs all actions concurrently and waits for every one of them.
// A failure or panic in one action never cancels its siblings; each outcome
// is reported individually.
func Settle(ctx context.Context, actions ...Action) []Outcome {
	outcomes := make([]Outcome, len(actions))

	var wg sync.WaitGroup
	for i, action := range actions {
		wg.Add(1)
		go func(i int, action Action) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					outcomes[i] = Outcome{Name: action.Name, Err: fmt.Errorf("panic: %v", r)}
				}
			}()
			outcomes[i] = Outcome{Name: action.Name, Err: action.Run(ctx)}
		}(i, action)
	}
	wg.Wait()

	return outcomes
}
