package store

// Op is a single recorded write. A delete carries no value.
type Op struct {
	Key    []byte
	Value  []byte
	Delete bool
}

// SetOp records that key was set to value.
func SetOp(key, value []byte) Op {
	return Op{Key: key, Value: value}
}

// DelOp records that key was removed.
func DelOp(key []byte) Op {
	return Op{Key: key, Delete: true}
}

// Apply performs the write on out.
func (o Op) Apply(out SetDeleter) error {
	if o.Delete {
		return out.Delete(o.Key)
	}
	return out.Set(o.Key, o.Value)
}

// Journal is a Batch that records writes and replays them, in order, on
// Write. Replay is not atomic. It suits memory layers and the iavl
// working tree, which only becomes durable on commit.
type Journal struct {
	out SetDeleter
	ops []Op
}

var _ Batch = (*Journal)(nil)

// NewJournal returns an empty journal that replays into out.
func NewJournal(out SetDeleter) *Journal {
	return &Journal{out: out}
}

func (j *Journal) Set(key, value []byte) error {
	j.ops = append(j.ops, SetOp(key, value))
	return nil
}

func (j *Journal) Delete(key []byte) error {
	j.ops = append(j.ops, DelOp(key))
	return nil
}

// Write replays all recorded writes and empties the journal. On failure
// the remaining writes are kept.
func (j *Journal) Write() error {
	for i, op := range j.ops {
		if err := op.Apply(j.out); err != nil {
			j.ops = j.ops[i:]
			return err
		}
	}
	j.ops = nil
	return nil
}

// Ops returns the writes recorded so far.
func (j *Journal) Ops() []Op {
	return j.ops
}

// nullStore holds nothing and drops every write. It is the bottom of a
// MemStore.
type nullStore struct{}

var _ KVStore = nullStore{}

func (nullStore) Get([]byte) ([]byte, error) { return nil, nil }
func (nullStore) Has([]byte) (bool, error) { return false, nil }
func (nullStore) Set(_, _ []byte) error { return nil }
func (nullStore) Delete([]byte) error { return nil }
func (n nullStore) NewBatch() Batch { return NewJournal(n) }
