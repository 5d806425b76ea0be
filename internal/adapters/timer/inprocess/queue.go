package inprocess

import (
	"container/heap"
	"time"

	"medication-reminders/internal/ports/alarms"
)

type entry struct {
	req   alarms.Request
	stale bool
}

// timerQueue es un min-heap por FireAt con índice por ID. Reemplazos y
// cancelaciones marcan la entrada como stale; el descarte real ocurre de
// forma perezosa cuando la entrada llega a la cabeza del heap.
type timerQueue struct {
	backing []*entry
	byID    map[int64]*entry
}

func newTimerQueue() *timerQueue {
	q := &timerQueue{byID: make(map[int64]*entry)}
	heap.Init(q)
	return q
}

func (q *timerQueue) Len() int { return len(q.backing) }

func (q *timerQueue) Less(i, j int) bool {
	return q.backing[i].req.FireAt.Before(q.backing[j].req.FireAt)
}

func (q *timerQueue) Swap(i, j int) {
	q.backing[j], q.backing[i] = q.backing[i], q.backing[j]
}

func (q *timerQueue) Push(x any) {
	e, ok := x.(*entry)
	if !ok {
		return
	}
	q.backing = append(q.backing, e)
}

func (q *timerQueue) Pop() any {
	n := len(q.backing)
	if n == 0 {
		return nil
	}
	popped := q.backing[n-1]
	q.backing = q.backing[:n-1]
	return popped
}

// schedule registra la request; si ya había una con el mismo ID la reemplaza
// (queda exactamente un timer vivo por ID).
func (q *timerQueue) schedule(r alarms.Request) {
	if old, ok := q.byID[r.ID]; ok {
		old.stale = true
	}
	e := &entry{req: r}
	q.byID[r.ID] = e
	heap.Push(q, e)
}

func (q *timerQueue) cancel(id int64) {
	if e, ok := q.byID[id]; ok {
		e.stale = true
		delete(q.byID, id)
	}
}

// popDue saca la próxima entrada vencida a now, salteando las stale. Devuelve
// nil cuando la cabeza está en el futuro o no queda nada.
func (q *timerQueue) popDue(now time.Time) *entry {
	for len(q.backing) > 0 {
		head := q.backing[0]
		if head.stale {
			heap.Pop(q)
			continue
		}
		if head.req.FireAt.After(now) {
			return nil
		}
		heap.Pop(q)
		if cur, ok := q.byID[head.req.ID]; ok && cur == head {
			delete(q.byID, head.req.ID)
		}
		return head
	}
	return nil
}

// pending es la cantidad de timers vivos (sin contar stale).
func (q *timerQueue) pending() int { return len(q.byID) }
