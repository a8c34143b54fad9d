package util

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gosuri/uilive"
)

// TerminalPrinter redraws a frame in place on the terminal
type TerminalPrinter struct {
	mu     *sync.Mutex
	delay  time.Duration
	writer *uilive.Writer
}

// NewTerminalPrinter writes to out and pauses delay after every frame
func NewTerminalPrinter(out io.Writer, delay time.Duration) *TerminalPrinter {
	writer := uilive.New()
	writer.Out = out
	return &TerminalPrinter{
		mu:     new(sync.Mutex),
		delay:  delay,
		writer: writer,
	}
}

// Write replaces the previous frame with frame
func (p *TerminalPrinter) Write(frame string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprint(p.writer, frame)
	p.writer.Flush()
	if p.delay > 0 {
		time.Sleep(p.delay)
	}
}
