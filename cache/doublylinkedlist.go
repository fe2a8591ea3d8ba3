package cache

type element[T any] struct {
	data       T
	prev, next *element[T]
}

// doublyLinkedList keeps the most recently used item at its head.
type doublyLinkedList[T any] struct {
	head, tail *element[T]
	size       int
}

func (l *doublyLinkedList[T]) pushFront(e *element[T]) {
	e.prev = nil
	e.next = l.head
	if l.head != nil {
		l.head.prev = e
	} else {
		l.tail = e
	}
	l.head = e
	l.size++
}

// unlink detaches e, which must belong to l.
func (l *doublyLinkedList[T]) unlink(e *element[T]) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		l.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		l.tail = e.prev
	}
	e.prev, e.next = nil, nil
	l.size--
}

func (l *doublyLinkedList[T]) popBack() (T, bool) {
	e := l.tail
	if e == nil {
		var zero T
		return zero, false
	}
	l.unlink(e)
	return e.data, true
}
