// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package xsync

import (
	"runtime"
	"sync"

	"github.com/zeebo/xxh3"
)

const maxShards = 64

type shard[V any] struct {
	sync.RWMutex
	m map[string]V
}

// ShardedMap is a string keyed concurrent map split into shards selected
// by the xxh3 hash of the key.
type ShardedMap[V any] struct {
	shards []*shard[V]
}

// NewShardedMap creates an instance of ShardedMap
func NewShardedMap[V any]() *ShardedMap[V] {
	count := min(runtime.NumCPU()*4, maxShards)
	shards := make([]*shard[V], count)
	for i := range shards {
		shards[i] = &shard[V]{m: make(map[string]V)}
	}
	return &ShardedMap[V]{shards: shards}
}

// Load returns the value of a given key
func (s *ShardedMap[V]) Load(key string) (V, bool) {
	shard := s.shard(key)
	shard.RLock()
	val, ok := shard.m[key]
	shard.RUnlock()
	return val, ok
}

// StoreIfAbsent adds the key/value pair unless key is present.
// It returns false when the key already existed.
func (s *ShardedMap[V]) StoreIfAbsent(key string, value V) bool {
	shard := s.shard(key)
	shard.Lock()
	defer shard.Unlock()
	if _, ok := shard.m[key]; ok {
		return false
	}
	shard.m[key] = value
	return true
}

// LoadAndDelete removes key and returns its value, if any
func (s *ShardedMap[V]) LoadAndDelete(key string) (V, bool) {
	shard := s.shard(key)
	shard.Lock()
	defer shard.Unlock()
	val, ok := shard.m[key]
	if ok {
		delete(shard.m, key)
	}
	return val, ok
}

// Delete removes a given key
func (s *ShardedMap[V]) Delete(key string) {
	shard := s.shard(key)
	shard.Lock()
	delete(shard.m, key)
	shard.Unlock()
}

// Range calls f for every entry until f returns false
func (s *ShardedMap[V]) Range(f func(key string, value V) bool) {
	for _, shard := range s.shards {
		shard.RLock()
		for k, v := range shard.m {
			if !f(k, v) {
				shard.RUnlock()
				return
			}
		}
		shard.RUnlock()
	}
}

// Len returns the number of entries
func (s *ShardedMap[V]) Len() int {
	total := 0
	for _, shard := range s.shards {
		shard.RLock()
		total += len(shard.m)
		shard.RUnlock()
	}
	return total
}

func (s *ShardedMap[V]) shard(key string) *shard[V] {
	return s.shards[xxh3.HashString(key)%uint64(len(s.shards))]
}
