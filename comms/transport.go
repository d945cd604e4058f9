package comms

import (
	"fmt"
	"sync"

	"github.com/notargets/goswe/utils"
)

/*
	Transport carries point to point messages between ranks running as
	goroutines inside one process. The calling conventions mirror MPI:

		- Isend is non blocking and fire-and-forget; the payload is
		  captured at call time and the caller never waits on it.
		- Irecv is non blocking and returns a Request; the receive
		  completes when Request.Wait (or Waitall) returns.
		- Per (sender, receiver, tag), delivery order is FIFO.

	There are no application level timeouts: a Wait blocks until the
	matching message arrives or the transport is aborted, in which case
	every outstanding and future Wait returns the abort error.
*/
type Transport struct {
	size  int
	boxes []*mailbox
}

type slotKey struct {
	source, tag int
}

type mailbox struct {
	mu    sync.Mutex
	cond  *sync.Cond
	slots map[slotKey][][]float64
	fault error
}

func newMailbox() (mb *mailbox) {
	mb = &mailbox{
		slots: make(map[slotKey][][]float64),
	}
	mb.cond = sync.NewCond(&mb.mu)
	return
}

func NewTransport(size int) (t *Transport) {
	t = &Transport{
		size:  size,
		boxes: make([]*mailbox, size),
	}
	for n := 0; n < size; n++ {
		t.boxes[n] = newMailbox()
	}
	return
}

func (t *Transport) Size() int { return t.size }

// Abort poisons every mailbox; all outstanding and future waits return err.
func (t *Transport) Abort(err error) {
	for _, mb := range t.boxes {
		mb.mu.Lock()
		if mb.fault == nil {
			mb.fault = err
		}
		mb.mu.Unlock()
		mb.cond.Broadcast()
	}
}

// Comm is one rank's handle onto the transport.
type Comm struct {
	t    *Transport
	rank int
}

func (t *Transport) Comm(rank int) *Comm {
	if rank < 0 || rank >= t.size {
		panic(fmt.Errorf("rank %d out of range [0,%d)", rank, t.size))
	}
	return &Comm{t: t, rank: rank}
}

func (c *Comm) Rank() int { return c.rank }
func (c *Comm) Size() int { return c.t.size }

// Isend posts one message to dest. The source view is gathered into a
// private copy before return, so the sender is free to mutate its grid
// immediately; there is no request handle to wait on.
func (c *Comm) Isend(src utils.StridedVec, dest, tag int) {
	var (
		mb      = c.t.boxes[dest]
		key     = slotKey{source: c.rank, tag: tag}
		payload = src.Gather()
	)
	mb.mu.Lock()
	mb.slots[key] = append(mb.slots[key], payload)
	mb.mu.Unlock()
	mb.cond.Broadcast()
}

// IsendScalar posts a single float64 value, used for timestep envelopes.
func (c *Comm) IsendScalar(val float64, dest, tag int) {
	buf := []float64{val}
	c.Isend(utils.StridedVec{DataP: buf, Offset: 0, Count: 1, Stride: 1}, dest, tag)
}

// Request is an outstanding receive. The destination view is filled when
// Wait returns nil.
type Request struct {
	mb   *mailbox
	key  slotKey
	dst  utils.StridedVec
	rank int
}

// Irecv posts a non blocking receive into dst and returns its Request.
func (c *Comm) Irecv(dst utils.StridedVec, source, tag int) *Request {
	return &Request{
		mb:   c.t.boxes[c.rank],
		key:  slotKey{source: source, tag: tag},
		dst:  dst,
		rank: c.rank,
	}
}

// Wait blocks until the matching message is delivered into the
// destination view, or the transport has been aborted.
func (r *Request) Wait() error {
	var (
		mb = r.mb
	)
	mb.mu.Lock()
	for len(mb.slots[r.key]) == 0 && mb.fault == nil {
		mb.cond.Wait()
	}
	if mb.fault != nil {
		err := mb.fault
		mb.mu.Unlock()
		return fmt.Errorf("rank %d: transport fault waiting on (source %d, tag %#x): %s",
			r.rank, r.key.source, r.key.tag, err.Error())
	}
	q := mb.slots[r.key]
	payload := q[0]
	if len(q) == 1 {
		delete(mb.slots, r.key)
	} else {
		mb.slots[r.key] = q[1:]
	}
	mb.mu.Unlock()
	if len(payload) != r.dst.Count {
		return fmt.Errorf("rank %d: message from %d tag %#x has %d elements, receiver expects %d",
			r.rank, r.key.source, r.key.tag, len(payload), r.dst.Count)
	}
	r.dst.Scatter(payload)
	return nil
}

// Waitall completes the requests in order and returns at the first error;
// requests after the failing one are not waited on.
// Nil requests are skipped, mirroring MPI_REQUEST_NULL entries.
func Waitall(reqs []*Request) error {
	for _, r := range reqs {
		if r == nil {
			continue
		}
		if err := r.Wait(); err != nil {
			return err
		}
	}
	return nil
}
