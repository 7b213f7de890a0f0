package comm

import "sync"

// round is one collective operation in flight; it completes when every rank
// has contributed.
type round struct {
	arrived int
	slots   []any
	done    chan struct{}
}

// Hub connects a fixed number of in-process ranks.
type Hub struct {
	size int

	mu    sync.Mutex
	cur   *round
	abort chan struct{}
	once  sync.Once
}

func NewHub(size int) (*Hub, error) {
	if size < 1 {
		return nil, ErrBadRanks
	}
	return &Hub{size: size, abort: make(chan struct{})}, nil
}

// Abort releases every rank blocked in, or later entering, a collective.
func (h *Hub) Abort() {
	h.once.Do(func() { close(h.abort) })
}

// Endpoint returns the communicator of one rank.
func (h *Hub) Endpoint(rank int) Comm {
	return &endpoint{hub: h, rank: rank}
}

func (h *Hub) rendezvous(rank int, contrib any) ([]any, error) {
	select {
	case <-h.abort:
		return nil, ErrAborted
	default:
	}

	h.mu.Lock()
	r := h.cur
	if r == nil {
		r = &round{slots: make([]any, h.size), done: make(chan struct{})}
		h.cur = r
	}
	r.slots[rank] = contrib
	r.arrived++
	if r.arrived == h.size {
		h.cur = nil
		close(r.done)
	}
	h.mu.Unlock()

	select {
	case <-r.done:
		return r.slots, nil
	case <-h.abort:
		return nil, ErrAborted
	}
}

type endpoint struct {
	hub  *Hub
	rank int
}

func (e *endpoint) Rank() int { return e.rank }
func (e *endpoint) Size() int { return e.hub.size }

func (e *endpoint) BcastFloat(buf []float64, root int) error {
	if err := checkRoot(root, e.hub.size); err != nil {
		return err
	}
	var contrib any
	if e.rank == root {
		contrib = append([]float64(nil), buf...)
	}
	slots, err := e.hub.rendezvous(e.rank, contrib)
	if err != nil {
		return err
	}
	if e.rank != root {
		copy(buf, slots[root].([]float64))
	}
	return nil
}

func (e *endpoint) BcastComplex(buf []complex128, root int) error {
	if err := checkRoot(root, e.hub.size); err != nil {
		return err
	}
	var contrib any
	if e.rank == root {
		contrib = append([]complex128(nil), buf...)
	}
	slots, err := e.hub.rendezvous(e.rank, contrib)
	if err != nil {
		return err
	}
	if e.rank != root {
		copy(buf, slots[root].([]complex128))
	}
	return nil
}

// AllReduceSumFloat sums contributions in rank order so every rank ends with
// bitwise identical results.
func (e *endpoint) AllReduceSumFloat(buf []float64) error {
	slots, err := e.hub.rendezvous(e.rank, append([]float64(nil), buf...))
	if err != nil {
		return err
	}
	for i := range buf {
		buf[i] = 0
	}
	for _, s := range slots {
		for i, v := range s.([]float64) {
			buf[i] += v
		}
	}
	return nil
}
