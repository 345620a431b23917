// Package hook attaches the packager to the artifacts of a build.
package hook

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/Norgate-AV/dpkhook/internal/packager"
)

// Action runs after a target has been produced
type Action func(ctx context.Context) error

// Registrar is implemented by anything that can run actions after a target is built
type Registrar interface {
	AddPostAction(target string, action Action)
}

// Register runs p after the firmware image and after the filesystem image.
// The packager checks for both itself, so whichever finishes last produces the package.
func Register(r Registrar, p *packager.Packager) {
	cfg := p.Config()

	r.AddPostAction(cfg.FirmwarePath(), p.TryBuild)
	r.AddPostAction(cfg.FilesystemPath(), p.TryBuild)
}

// Dispatcher keeps post-actions in memory and runs them on demand
type Dispatcher struct {
	mu      sync.Mutex
	actions map[string][]Action
}

// NewDispatcher creates an empty dispatcher
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		actions: make(map[string][]Action),
	}
}

// AddPostAction appends action to the actions run when target is fired
func (d *Dispatcher) AddPostAction(target string, action Action) {
	d.mu.Lock()
	defer d.mu.Unlock()

	key := normalize(target)
	d.actions[key] = append(d.actions[key], action)
}

// Has reports whether any action is registered on target
func (d *Dispatcher) Has(target string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return len(d.actions[normalize(target)]) > 0
}

// Fire runs the actions registered on target in order and stops at the first
// error. Firing a target nothing is registered on does nothing.
func (d *Dispatcher) Fire(ctx context.Context, target string) error {
	d.mu.Lock()
	actions := append([]Action(nil), d.actions[normalize(target)]...)
	d.mu.Unlock()

	for _, action := range actions {
		if err := action(ctx); err != nil {
			return err
		}
	}

	return nil
}

func normalize(target string) string {
	if abs, err := filepath.Abs(target); err == nil {
		return abs
	}

	return filepath.Clean(target)
}
