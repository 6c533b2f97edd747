package model

import (
	"sync"
	"time"
)

// Clock measures how long a game has been in play. It only runs while the
// game is live; pausing or finishing the game stops it.
type Clock struct {
	mu          sync.Mutex
	elapsed     time.Duration
	lastStarted time.Time // When the clock was last started
	isRunning   bool
	now         func() time.Time
}

func NewClock() *Clock {
	return &Clock{now: time.Now}
}

func (c *Clock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isRunning {
		c.lastStarted = c.now()
		c.isRunning = true
	}
}

func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isRunning {
		c.elapsed += c.now().Sub(c.lastStarted)
		c.isRunning = false
	}
}

// Sync runs the clock exactly when the game described by gs is in play.
func (c *Clock) Sync(gs GameState) {
	if gs.Paused || gs.IsGameOver {
		c.Stop()
		return
	}
	c.Start()
}

// Reset zeroes the clock and leaves it stopped.
func (c *Clock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.elapsed = 0
	c.isRunning = false
}

func (c *Clock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isRunning
}

func (c *Clock) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isRunning {
		return c.elapsed + c.now().Sub(c.lastStarted)
	}
	return c.elapsed
}
