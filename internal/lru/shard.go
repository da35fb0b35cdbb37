package lru

import (
	"container/list"
	"sync"
)

type shardEntry struct {
	key   uint64
	value []byte
}

type lruShard struct {
	mu         sync.Mutex
	maxBytes   uint64
	totalBytes uint64
	evictList  *list.List
	elems      map[uint64]*list.Element
	onEvict    OnEvict
}

func newLruShard(maxBytes uint64, onEvict OnEvict) *lruShard {
	return &lruShard{
		maxBytes:  maxBytes,
		evictList: list.New(),
		elems:     make(map[uint64]*list.Element),
		onEvict:   onEvict,
	}
}

func (ls *lruShard) get(key uint64) ([]byte, bool) {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	elem, ok := ls.elems[key]
	if !ok {
		return nil, false
	}

	ls.evictList.MoveToFront(elem)

	return elem.Value.(*shardEntry).value, true
}

// add - stores value under key, then evicts from the cold end until
// the shard fits its byte budget again. A value larger than the whole
// budget evicts itself right away. Returns the number of evictions.
func (ls *lruShard) add(key uint64, value []byte) int {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	if elem, ok := ls.elems[key]; ok {
		ls.evictList.MoveToFront(elem)
		ent := elem.Value.(*shardEntry)
		ls.totalBytes -= uint64(len(ent.value))
		ent.value = value
		ls.totalBytes += uint64(len(value))

		return ls.evictOverflowUnderLock()
	}

	elem := ls.evictList.PushFront(&shardEntry{key: key, value: value})
	ls.elems[key] = elem
	ls.totalBytes += uint64(len(value))

	return ls.evictOverflowUnderLock()
}

func (ls *lruShard) evictOverflowUnderLock() int {
	var evicted int

	for ls.totalBytes > ls.maxBytes {
		elem := ls.evictList.Back()
		if elem == nil {
			break
		}

		ent := elem.Value.(*shardEntry)
		ls.removeElementUnderLock(elem)
		evicted++

		if ls.onEvict != nil {
			ls.onEvict(ent.key, ent.value)
		}
	}

	return evicted
}

func (ls *lruShard) remove(key uint64) bool {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	elem, ok := ls.elems[key]
	if !ok {
		return false
	}

	ls.removeElementUnderLock(elem)

	return true
}

func (ls *lruShard) removeElementUnderLock(elem *list.Element) {
	ent := elem.Value.(*shardEntry)
	ls.evictList.Remove(elem)
	delete(ls.elems, ent.key)
	ls.totalBytes -= uint64(len(ent.value))
}

func (ls *lruShard) purge() {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	ls.evictList.Init()
	ls.elems = make(map[uint64]*list.Element)
	ls.totalBytes = 0
}

func (ls *lruShard) len() int {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	return len(ls.elems)
}

func (ls *lruShard) bytes() uint64 {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	return ls.totalBytes
}
