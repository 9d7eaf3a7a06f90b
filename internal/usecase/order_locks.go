package usecase

import "sync"

// OrderLocks hands out one mutex per order id. Entries are dropped once no
// caller holds or waits on them.
type OrderLocks struct {
	mu    sync.Mutex
	locks map[int64]*orderLock
}

type orderLock struct {
	sync.Mutex
	refs int
}

func NewOrderLocks() *OrderLocks {
	return &OrderLocks{locks: make(map[int64]*orderLock)}
}

// Lock blocks until the order is free and returns the unlock func.
func (l *OrderLocks) Lock(orderID int64) func() {
	ol := l.acquire(orderID)
	ol.Lock()
	return func() {
		ol.Unlock()
		l.release(orderID)
	}
}

// TryLock reports false when the order is already held.
func (l *OrderLocks) TryLock(orderID int64) (func(), bool) {
	ol := l.acquire(orderID)
	if !ol.TryLock() {
		l.release(orderID)
		return nil, false
	}
	return func() {
		ol.Unlock()
		l.release(orderID)
	}, true
}

func (l *OrderLocks) acquire(orderID int64) *orderLock {
	l.mu.Lock()
	defer l.mu.Unlock()

	ol, ok := l.locks[orderID]
	if !ok {
		ol = &orderLock{}
		l.locks[orderID] = ol
	}
	ol.refs++
	return ol
}

func (l *OrderLocks) release(orderID int64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ol := l.locks[orderID]
	ol.refs--
	if ol.refs == 0 {
		delete(l.locks, orderID)
	}
}
