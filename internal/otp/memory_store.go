package otp

import (
	"context"
	"hash/fnv"
	"sync"
)

const shardCount = 64

type shard struct {
	mu         sync.Mutex
	challenges map[string]Challenge
}

// MemoryStore keeps challenges in process memory behind sharded locks.
// Challenges do not survive a restart and are not shared between instances.
type MemoryStore struct {
	shards [shardCount]*shard
}

func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{}
	for i := range s.shards {
		s.shards[i] = &shard{challenges: make(map[string]Challenge)}
	}
	return s
}

func (s *MemoryStore) shardFor(email string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(email))
	return s.shards[h.Sum32()%shardCount]
}

func (s *MemoryStore) Put(_ context.Context, email string, ch Challenge) error {
	sh := s.shardFor(email)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sh.challenges[email] = ch
	return nil
}

func (s *MemoryStore) Update(_ context.Context, email string, fn func(ch *Challenge) Action) error {
	sh := s.shardFor(email)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	var current *Challenge
	if ch, ok := sh.challenges[email]; ok {
		current = &ch
	}

	switch fn(current) {
	case Save:
		if current != nil {
			sh.challenges[email] = *current
		}
	case Delete:
		delete(sh.challenges, email)
	}
	return nil
}

// Len reports the number of stored challenges.
func (s *MemoryStore) Len() int {
	n := 0
	for _, sh := range s.shards {
		sh.mu.Lock()
		n += len(sh.challenges)
		sh.mu.Unlock()
	}
	return n
}
