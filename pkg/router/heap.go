package router

import "math"

// item is a priority-queue entry: a vertex and its tentative distance.
type item struct {
	vertex uint32
	dist   float64
}

// minHeap is a concrete-typed binary min-heap keyed on dist, avoiding the
// interface-boxing overhead of container/heap for the hot single-source
// relaxation loop run once per vertex during Build.
type minHeap struct {
	items []item
}

func (h *minHeap) Len() int { return len(h.items) }

func (h *minHeap) Push(vertex uint32, dist float64) {
	h.items = append(h.items, item{vertex, dist})
	h.siftUp(len(h.items) - 1)
}

func (h *minHeap) Pop() item {
	n := len(h.items)
	top := h.items[0]
	h.items[0] = h.items[n-1]
	h.items = h.items[:n-1]
	if len(h.items) > 0 {
		h.siftDown(0)
	}
	return top
}

func (h *minHeap) PeekDist() float64 {
	if len(h.items) == 0 {
		return math.Inf(1)
	}
	return h.items[0].dist
}

func (h *minHeap) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if h.items[i].dist >= h.items[parent].dist {
			break
		}
		h.items[i], h.items[parent] = h.items[parent], h.items[i]
		i = parent
	}
}

func (h *minHeap) siftDown(i int) {
	n := len(h.items)
	for {
		smallest := i
		left, right := 2*i+1, 2*i+2
		if left < n && h.items[left].dist < h.items[smallest].dist {
			smallest = left
		}
		if right < n && h.items[right].dist < h.items[smallest].dist {
			smallest = right
		}
		if smallest == i {
			break
		}
		h.items[i], h.items[smallest] = h.items[smallest], h.items[i]
		i = smallest
	}
}
