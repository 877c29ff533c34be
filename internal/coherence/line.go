package coherence

const (
	// NumProcessors is the fixed ring size P. Non-goals exclude any
	// configurability of topology size.
	NumProcessors = 4

	// NumCacheBlocks is B, the number of direct-mapped frames per private
	// cache.
	NumCacheBlocks = 512

	offsetBits = 2
	indexBits  = 9
)

// DecodeAddress splits a 32-bit word address into (index, tag):
// index = addr[10:2], tag = addr[31:11]. The 2-bit offset is ignored —
// this simulator tracks line state and tags only, never data.
func DecodeAddress(addr uint32) (index int, tag uint32) {
	index = int((addr >> offsetBits) & (1<<indexBits - 1))
	tag = addr >> (offsetBits + indexBits)

	return index, tag
}

// CacheLine is the private per-frame record: {state, tag}, no payload.
// Tag is meaningful only when State != Invalid.
type CacheLine struct {
	State CacheState
	Tag   uint32
}

// Equal reports whether two lines carry the same state and (when relevant)
// the same tag. Two Invalid lines are always equal regardless of their Tag
// field, since an Invalid line's tag is undefined — carried
// over from the original implementation's CacheLine equality used by its
// test suite.
func (l CacheLine) Equal(o CacheLine) bool {
	if l.State != o.State {
		return false
	}

	if l.State == Invalid {
		return true
	}

	return l.Tag == o.Tag
}
