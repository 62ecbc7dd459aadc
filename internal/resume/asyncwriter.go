package resume

// AsyncWriter serializes Store.Save calls through a single background
// goroutine, so a caller can enqueue a resume snapshot after every piece
// completion without blocking on disk I/O. Only a single-consumer mailbox
// is used; there is no internal locking beyond the channel itself.
type AsyncWriter struct {
	store Store
	reqs  chan *State
	done  chan struct{}
}

// NewAsyncWriter starts the background writer goroutine over store.
func NewAsyncWriter(store Store) *AsyncWriter {
	w := &AsyncWriter{
		store: store,
		reqs:  make(chan *State, 1),
		done:  make(chan struct{}),
	}
	go w.run()
	return w
}

func (w *AsyncWriter) run() {
	defer close(w.done)
	for st := range w.reqs {
		_ = w.store.Save(st)
	}
}

// Enqueue schedules st to be saved. If the writer has not yet caught up
// with a previously enqueued snapshot, that stale one is dropped in favor
// of st: only the most recent state is worth persisting.
func (w *AsyncWriter) Enqueue(st *State) {
	select {
	case w.reqs <- st:
		return
	default:
	}
	select {
	case <-w.reqs:
	default:
	}
	select {
	case w.reqs <- st:
	default:
	}
}

// Close stops the background goroutine, waits for the last enqueued save
// to finish, and closes the underlying store.
func (w *AsyncWriter) Close() error {
	close(w.reqs)
	<-w.done
	return w.store.Close()
}
