package scheduler

import (
	"container/heap"
	"time"
)

// taskKind names the deferred work the event loop runs. The queue holds at
// most one task of each kind.
type taskKind int

const (
	taskNudge taskKind = iota
	taskConfiguration
	taskPoll
	taskRetry
	taskUnthrottle
	taskCanary
)

func (k taskKind) String() string {
	switch k {
	case taskNudge:
		return "nudge"
	case taskConfiguration:
		return "configuration"
	case taskPoll:
		return "poll"
	case taskRetry:
		return "retry"
	case taskUnthrottle:
		return "unthrottle"
	case taskCanary:
		return "canary"
	default:
		return "unknown"
	}
}

type task struct {
	kind     taskKind
	deadline time.Time
	index    int
}

type taskHeap []*task

func (h taskHeap) Len() int { return len(h) }
func (h taskHeap) Less(i, j int) bool {
	if h[i].deadline.Equal(h[j].deadline) {
		return h[i].kind < h[j].kind
	}
	return h[i].deadline.Before(h[j].deadline)
}
func (h taskHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *taskHeap) Push(x any) {
	t := x.(*task)
	t.index = len(*h)
	*h = append(*h, t)
}
func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}

// taskQueue is a deadline-ordered set of tasks keyed by kind.
type taskQueue struct {
	heap  taskHeap
	byKey map[taskKind]*task
}

func newTaskQueue() *taskQueue {
	return &taskQueue{byKey: make(map[taskKind]*task)}
}

// Schedule sets the deadline of kind, adding the task when missing.
func (q *taskQueue) Schedule(kind taskKind, deadline time.Time) {
	if t, ok := q.byKey[kind]; ok {
		t.deadline = deadline
		heap.Fix(&q.heap, t.index)
		return
	}
	t := &task{kind: kind, deadline: deadline}
	heap.Push(&q.heap, t)
	q.byKey[kind] = t
}

// Deadline returns the deadline of kind.
func (q *taskQueue) Deadline(kind taskKind) (time.Time, bool) {
	t, ok := q.byKey[kind]
	if !ok {
		return time.Time{}, false
	}
	return t.deadline, true
}

// Cancel removes kind from the queue.
func (q *taskQueue) Cancel(kind taskKind) {
	t, ok := q.byKey[kind]
	if !ok {
		return
	}
	heap.Remove(&q.heap, t.index)
	delete(q.byKey, kind)
}

// Next returns the earliest deadline.
func (q *taskQueue) Next() (time.Time, bool) {
	if len(q.heap) == 0 {
		return time.Time{}, false
	}
	return q.heap[0].deadline, true
}

// PopDue removes and returns the kinds due at now, earliest first.
func (q *taskQueue) PopDue(now time.Time) []taskKind {
	var due []taskKind
	for len(q.heap) > 0 && !q.heap[0].deadline.After(now) {
		t := heap.Pop(&q.heap).(*task)
		delete(q.byKey, t.kind)
		due = append(due, t.kind)
	}
	return due
}

func (q *taskQueue) Len() int {
	return len(q.heap)
}

func (q *taskQueue) Clear() {
	q.heap = nil
	q.byKey = make(map[taskKind]*task)
}
