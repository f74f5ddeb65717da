package loop

import (
	"sync"
	"time"
)

// FrameSource delivers frame-presentation signals. Frames is closed when no
// more frames will come.
type FrameSource interface {
	Frames() <-chan struct{}
	Close()
}

type ticker struct {
	t    *time.Ticker
	c    chan struct{}
	done chan struct{}
	once sync.Once
}

// Ticker signals fps frames per second until closed. Missed signals are
// dropped, never queued.
func Ticker(fps int) FrameSource {
	if fps <= 0 {
		fps = 60
	}
	tk := &ticker{
		t:    time.NewTicker(time.Second / time.Duration(fps)),
		c:    make(chan struct{}),
		done: make(chan struct{}),
	}
	go tk.run()
	return tk
}

func (tk *ticker) run() {
	defer close(tk.c)
	for {
		select {
		case <-tk.done:
			return
		case <-tk.t.C:
			select {
			case tk.c <- struct{}{}:
			case <-tk.done:
				return
			}
		}
	}
}

func (tk *ticker) Frames() <-chan struct{} { return tk.c }

func (tk *ticker) Close() {
	tk.once.Do(func() {
		tk.t.Stop()
		close(tk.done)
	})
}

type fixed struct {
	c chan struct{}
}

// Fixed delivers exactly n frames as fast as they are consumed.
func Fixed(n int) FrameSource {
	if n < 0 {
		n = 0
	}
	c := make(chan struct{}, n)
	for i := 0; i < n; i++ {
		c <- struct{}{}
	}
	close(c)
	return &fixed{c: c}
}

func (f *fixed) Frames() <-chan struct{} { return f.c }
func (f *fixed) Close()                  {}
