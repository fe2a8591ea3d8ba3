package cache

// mru tracks recency of keys and decides what to evict.
type mru[TK any] struct {
	minCapacity int
	maxCapacity int
	list        doublyLinkedList[TK]
}

func newMru[TK any](minCapacity, maxCapacity int) *mru[TK] {
	return &mru[TK]{minCapacity: minCapacity, maxCapacity: maxCapacity}
}

func (m *mru[TK]) add(key TK) *element[TK] {
	e := &element[TK]{data: key}
	m.list.pushFront(e)
	return e
}

func (m *mru[TK]) touch(e *element[TK]) {
	m.list.unlink(e)
	m.list.pushFront(e)
}

func (m *mru[TK]) remove(e *element[TK]) {
	m.list.unlink(e)
}

// evict drops least recently used keys down to minCapacity once maxCapacity is exceeded
// and returns them.
func (m *mru[TK]) evict() []TK {
	if m.list.size <= m.maxCapacity {
		return nil
	}
	var evicted []TK
	for m.list.size > m.minCapacity {
		k, ok := m.list.popBack()
		if !ok {
			break
		}
		evicted = append(evicted, k)
	}
	return evicted
}
