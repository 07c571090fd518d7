package experiment

import (
	"fmt"
	"io"
	"time"
)

// Observer is notified about phase transitions and wait progress.
type Observer interface {
	// Entered is called once when a phase starts.
	Entered(phase Phase)
	// Progress is called after every completed step of the test duration.
	Progress(elapsed, total time.Duration)
	// Finished is called once when the whole test duration has elapsed.
	Finished(total time.Duration)
}

// ConsoleObserver draws a live countdown of the wait phase.
type ConsoleObserver struct {
	w io.Writer
}

// NewConsoleObserver returns observer writing countdown to w.
func NewConsoleObserver(w io.Writer) ConsoleObserver {
	return ConsoleObserver{w: w}
}

// Entered implements Observer.
func (o ConsoleObserver) Entered(Phase) {}

// Progress implements Observer.
func (o ConsoleObserver) Progress(elapsed, total time.Duration) {
	fmt.Fprintf(o.w, "\r  %ds / %ds", seconds(elapsed), seconds(total))
}

// Finished implements Observer.
func (o ConsoleObserver) Finished(total time.Duration) {
	fmt.Fprintf(o.w, "\r  %ds / %ds - done\n", seconds(total), seconds(total))
}

func seconds(d time.Duration) int64 {
	return int64(d / time.Second)
}

type nopObserver struct{}

func (nopObserver) Entered(Phase)                         {}
func (nopObserver) Progress(elapsed, total time.Duration) {}
func (nopObserver) Finished(total time.Duration)          {}
