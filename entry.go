package pomelo

import "time"

// meta carries the bookkeeping fields of a stored record.
type meta struct {
	version   uint64
	createdAt time.Time
	updatedAt time.Time
}

type entry struct {
	key   RK
	value []byte
	meta  meta
}

func newEntry(key RK, value []byte) *entry {
	return &entry{key: key, value: value}
}
