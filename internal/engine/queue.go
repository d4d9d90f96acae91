package engine

// stateQueue is the FIFO worklist of the backward reachability pass.
//
// Each state is pushed at most once (it is marked live before being
// pushed), so the backing slice is sized to the state count up front and
// never grows. Not safe for concurrent use; it only lives for the duration
// of a single construction.
type stateQueue struct {
	states []int
	head   int
}

// newStateQueue creates an empty queue able to hold capacity states.
func newStateQueue(capacity int) *stateQueue {
	return &stateQueue{states: make([]int, 0, capacity)}
}

// Push adds a state to the back of the queue.
func (q *stateQueue) Push(state int) {
	q.states = append(q.states, state)
}

// Pop removes and returns the front state.
// Returns (Absent, false) if the queue is empty.
func (q *stateQueue) Pop() (int, bool) {
	if q.head >= len(q.states) {
		return Absent, false
	}
	s := q.states[q.head]
	q.head++
	return s, true
}

// Len returns the number of states still waiting.
func (q *stateQueue) Len() int {
	return len(q.states) - q.head
}
