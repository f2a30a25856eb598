// Package instance keeps a single board running per data directory.
//
// A running board holds an advisory lock for its whole life. A new board
// that finds the lock held takes over: the pid recorded in the pid file is
// asked to stop, and once the lock is free the new process records its own
// pid. A lock that can be taken right away means any pid file left behind is
// stale, and the process it names is never signalled.
package instance

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gofrs/flock"

	"github.com/nibzard/stickyweek/internal/persist"
)

// Guard claims exclusive use of a resource for the current process.
type Guard interface {
	Acquire(ctx context.Context) error
	Release() error
}

// DefaultWait is how long Acquire waits for a previous instance to exit
// before killing it.
const DefaultWait = 2 * time.Second

// PIDFile is a Guard backed by a lock file and a file holding the owner's pid.
type PIDFile struct {
	Path     string
	LockPath string
	Wait     time.Duration
	Logger   *log.Logger

	lock      *flock.Flock
	pid       int
	alive     func(pid int) bool
	terminate func(pid int, force bool) error
}

// NewPIDFile returns a guard for path owned by the current process. The lock
// is taken on path + ".lock".
func NewPIDFile(path string, logger *log.Logger) *PIDFile {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &PIDFile{
		Path:      path,
		LockPath:  path + ".lock",
		Wait:      DefaultWait,
		Logger:    logger,
		pid:       os.Getpid(),
		alive:     processAlive,
		terminate: terminateProcess,
	}
}

// Acquire takes the lock, stopping the instance that holds it if there is
// one, and writes the current pid.
func (p *PIDFile) Acquire(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(p.LockPath), 0o755); err != nil {
		return fmt.Errorf("create lock dir: %w", err)
	}
	lock := flock.New(p.LockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("lock %s: %w", p.LockPath, err)
	}
	if !locked {
		if err := p.takeOver(ctx, lock); err != nil {
			return err
		}
	} else if prev, ok, _ := p.read(); ok && prev != p.pid {
		p.Logger.Debug("ignoring stale pid file", "pid", prev, "path", p.Path)
	}

	if err := persist.WriteFile(p.Path, []byte(strconv.Itoa(p.pid)+"\n")); err != nil {
		lock.Unlock()
		return fmt.Errorf("write pid file: %w", err)
	}
	p.lock = lock
	p.Logger.Debug("instance acquired", "pid", p.pid, "path", p.Path)
	return nil
}

// takeOver stops the instance holding the lock and waits for the lock.
func (p *PIDFile) takeOver(ctx context.Context, lock *flock.Flock) error {
	prev, ok, err := p.read()
	if err != nil {
		return err
	}
	if ok && prev != p.pid && p.alive(prev) {
		if err := p.stop(ctx, prev); err != nil {
			return err
		}
	}

	waitCtx, cancel := context.WithTimeout(ctx, p.Wait)
	defer cancel()
	locked, err := lock.TryLockContext(waitCtx, 50*time.Millisecond)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil || !locked {
		return fmt.Errorf("another instance holds %s", p.LockPath)
	}
	return nil
}

func (p *PIDFile) stop(ctx context.Context, pid int) error {
	p.Logger.Info("stopping previous instance", "pid", pid)
	if err := p.terminate(pid, false); err != nil {
		p.Logger.Warn("terminate previous instance", "pid", pid, "error", err)
	}

	deadline := time.NewTimer(p.Wait)
	defer deadline.Stop()
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for p.alive(pid) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			p.Logger.Warn("previous instance did not exit, killing", "pid", pid)
			if err := p.terminate(pid, true); err != nil {
				return fmt.Errorf("kill previous instance %d: %w", pid, err)
			}
			return nil
		case <-ticker.C:
		}
	}
	return nil
}

// Release removes the pid file if it still names the current process and
// gives up the lock. The lock file itself stays.
func (p *PIDFile) Release() error {
	defer func() {
		if p.lock != nil {
			p.lock.Unlock()
			p.lock = nil
		}
	}()

	owner, ok, err := p.read()
	if err != nil {
		return err
	}
	if !ok || owner != p.pid {
		return nil
	}
	if err := persist.Remove(p.Path); err != nil {
		return fmt.Errorf("remove pid file: %w", err)
	}
	return nil
}

// read returns the recorded pid. A missing or unreadable pid is reported
// as not ok so that a stale file never blocks startup.
func (p *PIDFile) read() (int, bool, error) {
	data, ok, err := persist.ReadFile(p.Path)
	if err != nil || !ok {
		return 0, false, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		p.Logger.Warn("ignoring malformed pid file", "path", p.Path)
		return 0, false, nil
	}
	return pid, true, nil
}
