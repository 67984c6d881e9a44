// Package console implements a line-oriented REPL driver over a studio.
package console

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/chessnotation/pgntree/pkg/studio"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/util/iox"
)

const ProtocolName = "console"

// Driver runs a REPL over a Studio: "next"/"prev"/"roots"/"print"/"add"/"quit".
type Driver struct {
	iox.AsyncCloser

	s   *studio.Studio
	out chan<- string
}

// NewDriver starts the driver, reading commands from in.
func NewDriver(ctx context.Context, s *studio.Studio, in <-chan string) (*Driver, <-chan string) {
	out := make(chan string, 100)
	d := &Driver{
		AsyncCloser: iox.NewAsyncCloser(),
		s:           s,
		out:         out,
	}
	go d.process(ctx, in)

	return d, out
}

func (d *Driver) process(ctx context.Context, in <-chan string) {
	defer d.Close()
	defer close(d.out)

	logw.Infof(ctx, "Console protocol initialized")

	d.out <- fmt.Sprintf("studio %v (%v)", d.s.Name(), d.s.Author())
	d.printBoard(ctx)

	for {
		select {
		case line, ok := <-in:
			if !ok {
				logw.Infof(ctx, "Input stream broken. Exiting")
				return
			}

			parts := strings.Fields(line)
			if len(parts) == 0 {
				break
			}
			cmd, args := strings.ToLower(parts[0]), parts[1:]

			switch cmd {
			case "next", "n":
				d.next(ctx, args)

			case "prev", "back", "b":
				if err := d.s.Back(ctx); err != nil {
					d.out <- fmt.Sprintf("no previous move: %v", err)
				} else {
					d.printBoard(ctx)
				}

			case "roots", "r":
				d.printRoots(ctx)

			case "print", "p":
				d.printBoard(ctx)

			case "add", "a":
				if len(args) == 0 {
					d.out <- "usage: add <san>"
					break
				}
				if _, err := d.s.AddMove(ctx, strings.Join(args, "")); err != nil {
					d.out <- fmt.Sprintf("invalid move: %v", err)
					break
				}
				d.printBoard(ctx)

			case "quit", "exit", "q":
				return

			case "":
				// ignore empty command

			default:
				// Assume the line itself is a move, played at the cursor.
				if _, err := d.s.AddMove(ctx, line); err != nil {
					d.out <- fmt.Sprintf("invalid command or move: %q", line)
					break
				}
				d.printBoard(ctx)
			}

		case <-d.Closed():
			logw.Infof(ctx, "Driver closed")
			return
		}
	}
}

// next displays the continuation(s) from the cursor. With no argument and a
// single continuation, it advances there directly; with several, it lists
// them for a follow-up "next <index>" (or args naming the branch by index).
func (d *Driver) next(ctx context.Context, args []string) {
	opts, err := d.s.Next(ctx)
	if err != nil {
		d.out <- fmt.Sprintf("no next move: %v", err)
		return
	}

	if opts.Single {
		d.s.Advance(ctx, opts.Node)
		d.printBoard(ctx)
		return
	}

	if len(args) > 0 {
		if idx, err := strconv.Atoi(args[0]); err == nil && idx >= 1 && idx <= len(opts.Branches) {
			d.s.Advance(ctx, opts.Branches[idx-1].Node)
			d.printBoard(ctx)
			return
		}
		d.out <- fmt.Sprintf("invalid branch index: %v", args[0])
		return
	}

	d.out <- "multiple continuations:"
	for i, b := range opts.Branches {
		d.out <- fmt.Sprintf("  %d. %v", i+1, b.Notation)
	}
	d.out <- "pick one with: next <index>"
}

func (d *Driver) printRoots(ctx context.Context) {
	roots := d.s.RootNotations()
	if len(roots) == 0 {
		d.out <- "(no moves recorded)"
		return
	}
	d.out <- "roots:"
	for i, n := range roots {
		d.out <- fmt.Sprintf("  %d. %v", i+1, n)
	}
}

func (d *Driver) printBoard(ctx context.Context) {
	b, err := d.s.Board()
	if err != nil {
		d.out <- fmt.Sprintf("board error: %v", err)
		return
	}

	d.out <- ""
	d.out <- b.String()

	displayed := "start"
	if id, ok := d.s.Displayed().V(); ok {
		displayed = fmt.Sprintf("%v", id)
	}
	d.out <- fmt.Sprintf("displayed: %v", displayed)
	d.out <- ""
}
