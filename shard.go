package ctcp

import (
	"encoding/binary"

	"golang.org/x/crypto/blake2b"
)

// RegistryShards partitions connections across N independently-locked
// Registries so a multi-threaded host can keep each connection confined
// to its owning thread (spec §5: "implementations that host multiple
// connections on multiple threads must partition connections across
// threads and keep each connection confined to one thread"). Each shard
// is a plain Registry; TickAll drives every shard's timer in turn, which
// is enough for a single tick-driver goroutine that merely owns the
// *iteration* while each shard's own mutex still protects concurrent
// Init/Destroy calls from the threads that actually own those
// connections.
type RegistryShards struct {
	shards []Registry
}

// NewRegistryShards allocates n shards (at least one).
func NewRegistryShards(n int) *RegistryShards {
	if n < 1 {
		n = 1
	}
	return &RegistryShards{shards: make([]Registry, n)}
}

// Shard returns the Registry responsible for a connection identified by
// key — typically the remote address/port tuple the framing/demux driver
// demultiplexes on. The key is folded into a shard index with BLAKE2b
// (see DESIGN.md for why this library, not a teacher dependency, was
// chosen for the job).
func (s *RegistryShards) Shard(key []byte) *Registry {
	sum := blake2b.Sum256(key)
	idx := binary.BigEndian.Uint64(sum[:8]) % uint64(len(s.shards))
	return &s.shards[idx]
}

// Len returns the number of shards.
func (s *RegistryShards) Len() int { return len(s.shards) }

// TickAll drives every shard's retransmission timer.
func (s *RegistryShards) TickAll(nowMS int64) {
	for i := range s.shards {
		s.shards[i].Tick(nowMS)
	}
}

// SetMetrics attaches the same collector to every shard.
func (s *RegistryShards) SetMetrics(m MetricsCollector) {
	for i := range s.shards {
		s.shards[i].SetMetrics(m)
	}
}
