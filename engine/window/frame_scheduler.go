package window

// frameScheduler queues frame callbacks for the next refresh of a host without a native frame clock.
// Callbacks requested while a batch fires run on the following refresh.
type frameScheduler struct {
	next    int
	pending map[int]func(timestampMs float64)
	order   []int
}

func newFrameScheduler() *frameScheduler {
	return &frameScheduler{pending: make(map[int]func(float64))}
}

func (s *frameScheduler) request(callback func(timestampMs float64)) int {
	s.next++
	s.pending[s.next] = callback
	s.order = append(s.order, s.next)
	return s.next
}

func (s *frameScheduler) cancel(handle int) {
	if _, ok := s.pending[handle]; !ok {
		return
	}
	delete(s.pending, handle)
	for i, h := range s.order {
		if h == handle {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// outstanding returns the number of callbacks waiting for the next refresh.
func (s *frameScheduler) outstanding() int {
	return len(s.pending)
}

// fire runs every callback queued before the call, in request order.
func (s *frameScheduler) fire(timestampMs float64) int {
	batch := s.order
	s.order = nil

	fired := 0
	for _, h := range batch {
		cb, ok := s.pending[h]
		if !ok {
			continue
		}
		delete(s.pending, h)
		cb(timestampMs)
		fired++
	}
	return fired
}
