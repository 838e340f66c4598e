package tui

// noSelection marks an empty list.
const noSelection = -1

// selectList is an ordered list with a selection index that is noSelection
// when the list is empty and a valid index otherwise.
type selectList[T any] struct {
	items    []T
	selected int
}

func newSelectList[T any](items []T) selectList[T] {
	l := selectList[T]{selected: noSelection}
	return l.replace(items)
}

// replace swaps in new items, keeping the selection when it is still valid
// and clamping it to the last item otherwise.
func (l selectList[T]) replace(items []T) selectList[T] {
	l.items = items
	switch {
	case len(items) == 0:
		l.selected = noSelection
	case l.selected == noSelection:
		l.selected = 0
	case l.selected >= len(items):
		l.selected = len(items) - 1
	}
	return l
}

func (l *selectList[T]) next() {
	if len(l.items) > 0 && l.selected < len(l.items)-1 {
		l.selected++
	}
}

func (l *selectList[T]) prev() {
	if len(l.items) > 0 && l.selected > 0 {
		l.selected--
	}
}

func (l *selectList[T]) first() {
	if len(l.items) > 0 {
		l.selected = 0
	}
}

func (l *selectList[T]) last() {
	if len(l.items) > 0 {
		l.selected = len(l.items) - 1
	}
}

func (l selectList[T]) current() (T, bool) {
	var zero T
	if l.selected == noSelection {
		return zero, false
	}
	return l.items[l.selected], true
}
