package cache

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/cespare/xxhash"
	"github.com/rs/zerolog/log"

	"github.com/domino14/banco/equity"
	"github.com/domino14/banco/shoe"
)

// The cache holds computed results keyed by the exact inputs that produced
// them. The engine is a pure function, so a hit is always identical to a
// fresh computation. It matters for servers where many clients ask about the
// same shoe.

type loadFunc func() (equity.CalculationResult, error)

type Cache struct {
	sync.Mutex
	objects map[uint64]equity.CalculationResult
	// keys in insertion order, for eviction.
	order   []uint64
	maxSize int
}

// New creates a cache holding at most maxSize results.
func New(maxSize int) *Cache {
	return &Cache{
		objects: make(map[uint64]equity.CalculationResult),
		maxSize: max(maxSize, 1),
	}
}

// Key digests a shoe, a schedule and a label set.
func Key(s *shoe.Shoe, sched equity.Schedule, labels equity.Labels) uint64 {
	d := xxhash.New()
	var buf [8]byte
	putInt := func(v int) {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		d.Write(buf[:])
	}
	putFloat := func(f float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
		d.Write(buf[:])
	}
	for _, r := range shoe.Ranks {
		putInt(s.Count(r))
	}
	for _, f := range []float64{sched.Banker, sched.Player, sched.Tie, sched.PlayerPair, sched.BankerPair} {
		putFloat(f)
	}
	for _, f := range sched.TieBonus {
		putFloat(f)
	}
	for _, str := range []string{labels.Player, labels.Banker, labels.Tie,
		labels.PlayerPair, labels.BankerPair, labels.TiePoint} {
		d.Write([]byte(str))
		d.Write([]byte{0})
	}
	return d.Sum64()
}

func (c *Cache) store(key uint64, obj equity.CalculationResult) {
	c.Lock()
	defer c.Unlock()
	if _, ok := c.objects[key]; ok {
		return
	}
	if len(c.order) >= c.maxSize {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.objects, oldest)
	}
	c.objects[key] = obj
	c.order = append(c.order, key)
}

// Load returns the cached result for key, calling loadFunc on a miss.
// loadFunc runs without the lock held, so misses on different keys proceed
// in parallel; concurrent misses on the same key may each compute it.
func (c *Cache) Load(key uint64, loadFunc loadFunc) (equity.CalculationResult, error) {
	c.Lock()
	obj, ok := c.objects[key]
	c.Unlock()
	if ok {
		log.Debug().Uint64("key", key).Msg("getting obj from cache")
		return obj, nil
	}

	log.Debug().Uint64("key", key).Msg("loading into cache")
	obj, err := loadFunc()
	if err != nil {
		return obj, err
	}
	c.store(key, obj)
	return obj, nil
}

func (c *Cache) Len() int {
	c.Lock()
	defer c.Unlock()
	return len(c.objects)
}
