// Package queue is the FIFO of pending dish requests.
package queue

import (
	"fmt"
	"io"

	"github.com/kilianp07/brigade/core/model"
)

// Queue holds dishes waiting to be prepared in arrival order. It owns the
// queued dishes and never holds nil.
type Queue struct {
	dishes []*model.Dish
}

// New returns a queue containing the given dishes in order. Nil entries are
// skipped.
func New(dishes ...*model.Dish) *Queue {
	q := &Queue{}
	for _, d := range dishes {
		q.Push(d)
	}
	return q
}

// Push appends the dish at the back.
func (q *Queue) Push(d *model.Dish) bool {
	if d == nil {
		return false
	}
	q.dishes = append(q.dishes, d)
	return true
}

// PushWithAdjustment applies the dietary request to the dish in place and
// enqueues it.
func (q *Queue) PushWithAdjustment(d *model.Dish, req model.DietaryRequest) bool {
	if d == nil {
		return false
	}
	d.ApplyDietaryAdjustment(req)
	return q.Push(d)
}

// Front returns the dish at the head without removing it.
func (q *Queue) Front() (*model.Dish, bool) {
	if len(q.dishes) == 0 {
		return nil, false
	}
	return q.dishes[0], true
}

// Pop removes and returns the head.
func (q *Queue) Pop() (*model.Dish, bool) {
	if len(q.dishes) == 0 {
		return nil, false
	}
	d := q.dishes[0]
	q.dishes[0] = nil
	q.dishes = q.dishes[1:]
	return d, true
}

func (q *Queue) IsEmpty() bool { return len(q.dishes) == 0 }

func (q *Queue) Len() int { return len(q.dishes) }

// DrainToDisplay lists the queued dish names front to back. The queue is not
// modified.
func (q *Queue) DrainToDisplay() []string {
	names := make([]string, len(q.dishes))
	for i, d := range q.dishes {
		names[i] = d.Name
	}
	return names
}

// Display writes one dish name per line.
func (q *Queue) Display(w io.Writer) error {
	for _, name := range q.DrainToDisplay() {
		if _, err := fmt.Fprintln(w, name); err != nil {
			return err
		}
	}
	return nil
}

// Items returns a copy of the queue contents.
func (q *Queue) Items() []*model.Dish {
	return append([]*model.Dish(nil), q.dishes...)
}

// Replace swaps the queue contents for dishes, dropping nil entries.
func (q *Queue) Replace(dishes []*model.Dish) {
	q.Clear()
	for _, d := range dishes {
		q.Push(d)
	}
}

// Clear empties the queue and releases the dishes.
func (q *Queue) Clear() {
	for i := range q.dishes {
		q.dishes[i] = nil
	}
	q.dishes = nil
}
