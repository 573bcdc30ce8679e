// timer/timer.go
package timer

import (
	"container/heap"
	"sync"
	"time"
)

type TimerTask struct {
	Id       int64
	Execute  time.Time
	Interval time.Duration
	Callback func()
	index    int
}

type TimerQueue []*TimerTask

func (q TimerQueue) Len() int { return len(q) }

func (q TimerQueue) Less(i, j int) bool {
	if q[i].Execute.Equal(q[j].Execute) {
		return q[i].Id < q[j].Id
	}
	return q[i].Execute.Before(q[j].Execute)
}

func (q TimerQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *TimerQueue) Push(x interface{}) {
	n := len(*q)
	task := x.(*TimerTask)
	task.index = n
	*q = append(*q, task)
}

func (q *TimerQueue) Pop() interface{} {
	old := *q
	n := len(old)
	task := old[n-1]
	old[n-1] = nil
	task.index = -1
	*q = old[0 : n-1]
	return task
}

// TimerManager fires callbacks at their deadline. All callbacks run one
// after another on the manager's goroutine, so a callback never overlaps
// another callback of the same manager.
type TimerManager struct {
	queue   TimerQueue
	tasks   map[int64]*TimerTask
	mutex   sync.Mutex
	nextId  int64
	wake    chan struct{}
	stop    chan struct{}
	stopped chan struct{}
	once    sync.Once
	now     func() time.Time
}

func NewTimerManager() *TimerManager {
	manager := &TimerManager{
		queue:   make(TimerQueue, 0),
		tasks:   make(map[int64]*TimerTask),
		nextId:  1,
		wake:    make(chan struct{}, 1),
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
		now:     time.Now,
	}
	heap.Init(&manager.queue)
	go manager.process()
	return manager
}

// AddTimer runs callback after delay, then every interval if interval is
// positive. The returned id cancels it through RemoveTimer.
func (m *TimerManager) AddTimer(delay time.Duration, interval time.Duration, callback func()) int64 {
	m.mutex.Lock()
	task := &TimerTask{
		Id:       m.nextId,
		Execute:  m.now().Add(delay),
		Interval: interval,
		Callback: callback,
	}
	m.nextId++

	heap.Push(&m.queue, task)
	m.tasks[task.Id] = task
	m.mutex.Unlock()

	m.notify()
	return task.Id
}

// RemoveTimer cancels a pending timer. It reports false when the timer
// already fired (one-shot) or never existed.
func (m *TimerManager) RemoveTimer(timerId int64) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	task, exists := m.tasks[timerId]
	if !exists {
		return false
	}
	delete(m.tasks, timerId)
	if task.index >= 0 {
		heap.Remove(&m.queue, task.index)
	}
	return true
}

// Pending returns the number of scheduled timers.
func (m *TimerManager) Pending() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return len(m.tasks)
}

// Stop ends the manager goroutine and drops every pending timer. It waits
// for a running callback to return.
func (m *TimerManager) Stop() {
	m.once.Do(func() {
		close(m.stop)
	})
	<-m.stopped
}

func (m *TimerManager) notify() {
	select {
	case m.wake <- struct{}{}:
	default:
	}
}

func (m *TimerManager) process() {
	defer close(m.stopped)

	t := time.NewTimer(time.Hour)
	defer t.Stop()

	for {
		select {
		case <-m.stop:
			m.drop()
			return
		default:
		}

		m.mutex.Lock()
		wait := time.Hour
		if m.queue.Len() > 0 {
			wait = m.queue[0].Execute.Sub(m.now())
		}
		m.mutex.Unlock()

		if wait <= 0 {
			m.runDue()
			continue
		}

		if !t.Stop() {
			select {
			case <-t.C:
			default:
			}
		}
		t.Reset(wait)

		select {
		case <-t.C:
			m.runDue()
		case <-m.wake:
		case <-m.stop:
			m.drop()
			return
		}
	}
}

// drop forgets every pending timer.
func (m *TimerManager) drop() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.queue = m.queue[:0]
	m.tasks = make(map[int64]*TimerTask)
}

// runDue fires every task whose deadline passed. The lock is released
// while a callback runs so callbacks may add or remove timers.
func (m *TimerManager) runDue() {
	for {
		select {
		case <-m.stop:
			return
		default:
		}

		m.mutex.Lock()
		if m.queue.Len() == 0 || m.queue[0].Execute.After(m.now()) {
			m.mutex.Unlock()
			return
		}
		task := heap.Pop(&m.queue).(*TimerTask)
		if task.Interval > 0 {
			task.Execute = task.Execute.Add(task.Interval)
			heap.Push(&m.queue, task)
		} else {
			delete(m.tasks, task.Id)
		}
		callback := task.Callback
		m.mutex.Unlock()

		callback()
	}
}
