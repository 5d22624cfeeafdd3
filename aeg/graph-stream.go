package aeg

import (
	"fmt"
	"io"
	"strings"
)

// GraphStream is a stage of a graph pipeline.  Each stage reads from the previous stage's Outlet
// and closes its own Outlet once the previous one is drained.
type GraphStream struct {
	Outlet chan GraphState
}

func NewGraphStream() *GraphStream {
	stream := &GraphStream{
		Outlet: make(chan GraphState),
	}
	return stream
}

// StreamGraph returns a stream that emits X and then closes.
// Graphs are immutable so X is sent as-is.
func StreamGraph(X GraphState) *GraphStream {
	next := NewGraphStream()

	go func() {
		next.Outlet <- X
		next.Close()
	}()

	return next
}

func (stream *GraphStream) Close() {
	if stream.Outlet != nil {
		close(stream.Outlet)
	}
}

func (stream *GraphStream) PushGraph(X GraphState) {
	stream.Outlet <- X
}

// PullGraph returns the next graph, or nil once the stream is closed.
func (stream *GraphStream) PullGraph() GraphState {
	X := <-stream.Outlet
	return X
}

// PullAll drains the stream and returns how many graphs came through.
func (stream *GraphStream) PullAll() int {
	count := int(0)
	for range stream.Outlet {
		count++
	}
	return count
}

// Collect drains the stream and returns its graphs in order.
func (stream *GraphStream) Collect() []GraphState {
	var all []GraphState
	for X := range stream.Outlet {
		all = append(all, X)
	}
	return all
}

// Print writes one line per graph: "<label>,<count>,<graph>".
// out is closed once the stream is drained.
func (stream *GraphStream) Print(
	out io.WriteCloser,
	opts PrintOpts) *GraphStream {

	next := &GraphStream{
		Outlet: make(chan GraphState, 1),
	}

	go func() {
		buf := strings.Builder{}
		buf.Grow(256)

		count := 0
		for X := range stream.Outlet {
			if len(opts.Label) > 0 {
				buf.WriteString(opts.Label)
				buf.WriteByte(',')
			}

			count++
			fmt.Fprintf(&buf, "%06d,", count)
			X.WriteAsString(&buf, opts)
			buf.WriteByte('\n')
			out.Write([]byte(buf.String()))
			buf.Reset()
			next.Outlet <- X
		}
		out.Close()
		next.Close()
	}()

	return next
}

// AddTo passes along only the graphs that target reports as newly added.
func (stream *GraphStream) AddTo(target GraphAdder) *GraphStream {
	next := &GraphStream{
		Outlet: make(chan GraphState, 1),
	}

	go func() {
		for X := range stream.Outlet {
			if target.TryAddGraph(X) {
				next.Outlet <- X
			}
		}
		next.Close()
	}()

	return next
}

// Select passes along only the graphs for which selects returns true.
func (stream *GraphStream) Select(selects func(X GraphState) bool) *GraphStream {
	next := &GraphStream{
		Outlet: make(chan GraphState, 1),
	}

	go func() {
		for X := range stream.Outlet {
			if selects(X) {
				next.Outlet <- X
			}
		}
		next.Close()
	}()

	return next
}
