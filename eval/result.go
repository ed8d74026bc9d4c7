package eval

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"

	"github.com/npillmayer/ctree"
)

// Status is the outcome of evaluating a node.
type Status uint8

// A node either succeeds or fails.
const (
	Failure Status = iota
	Success
)

func (s Status) String() string {
	if s == Success {
		return "success"
	}
	return "failure"
}

// Outcome is what a leaf function reports: a status and optional client
// information, e.g. a failure reason or a blend weight.
type Outcome struct {
	Status Status
	Detail any
}

// Succeed creates a successful outcome.
func Succeed(detail any) Outcome {
	return Outcome{Status: Success, Detail: detail}
}

// Fail creates a failed outcome.
func Fail(detail any) Outcome {
	return Outcome{Status: Failure, Detail: detail}
}

// Result is the evaluation record of a node.
//
// Detail is taken from the deciding child for a Sequence failing or a
// Selector succeeding. Otherwise composite nodes collect the details of all
// their children, in order, as []any.
type Result struct {
	Node     ctree.NodeID
	Kind     ctree.Kind
	Name     string
	Status   Status
	Detail   any
	Err      error    // fault absorbed by the parent, if any
	Children []Result // results of visited children, in visiting order
}

// Succeeded is true if the node succeeded.
func (r Result) Succeeded() bool {
	return r.Status == Success
}

// Failures returns the results of children which failed, in order.
func (r Result) Failures() []Result {
	var f []Result
	for _, ch := range r.Children {
		if ch.Status == Failure {
			f = append(f, ch)
		}
	}
	return f
}

// Visited returns the IDs of all nodes recorded in r, in visiting order.
// Nodes evaluated more than once (see Repeat) appear more than once.
func (r Result) Visited() []ctree.NodeID {
	ids := []ctree.NodeID{r.Node}
	for _, ch := range r.Children {
		ids = append(ids, ch.Visited()...)
	}
	return ids
}

// Find returns the last result recorded for node id.
func (r Result) Find(id ctree.NodeID) (Result, bool) {
	var found Result
	ok := false
	r.walk(func(x Result) {
		if x.Node == id {
			found, ok = x, true
		}
	})
	return found, ok
}

func (r Result) walk(f func(Result)) {
	f(r)
	for _, ch := range r.Children {
		ch.walk(f)
	}
}

func (r Result) String() string {
	s := fmt.Sprintf("%s %s %s", r.Node, r.Kind, r.Status)
	if r.Err != nil {
		s += fmt.Sprintf(" (%v)", r.Err)
	}
	return s
}

func details(results []Result) []any {
	d := make([]any, len(results))
	for i, r := range results {
		d[i] = r.Detail
	}
	return d
}
