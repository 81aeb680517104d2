package common

type List[T any] struct {
	items []T
}

func (l *List[T]) Add(item T) {
	l.items = append(l.items, item)
}

func (l *List[T]) Items() []T {
	return l.items
}

func (l *List[T]) Len() int {
	return len(l.items)
}

func (l *List[T]) Reset() {
	l.items = l.items[:0]
}
