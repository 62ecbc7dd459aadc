package resume

import (
	"bytes"
	"encoding/gob"
	"time"

	"github.com/cenkalti/backoff/v3"
	bolt "go.etcd.io/bbolt"
)

var (
	bucketName    = []byte("resume")
	numPiecesKey  = []byte("num_pieces")
	haveKey       = []byte("have")
	filterKey     = []byte("filter")
	havesKey      = []byte("haves")
)

// BoltStore is the bbolt-backed Store. A single bucket holds the have and
// filter bitfields as raw bytes plus the have-log encoded with gob.
type BoltStore struct {
	db *bolt.DB
}

// Open opens (creating if necessary) a BoltStore at path.
func Open(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &BoltStore{db: db}, nil
}

var _ Store = (*BoltStore)(nil)

func (s *BoltStore) Close() error { return s.db.Close() }

// Load reads back the last saved State. A freshly opened database with no
// prior save returns a zero-valued State and a nil error.
func (s *BoltStore) Load() (*State, error) {
	st := &State{}
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		if v := b.Get(numPiecesKey); len(v) == 4 {
			st.NumPieces = uint32(v[0])<<24 | uint32(v[1])<<16 | uint32(v[2])<<8 | uint32(v[3])
		}
		if v := b.Get(haveKey); v != nil {
			st.Have = append([]byte(nil), v...)
		}
		if v := b.Get(filterKey); v != nil {
			st.Filter = append([]byte(nil), v...)
		}
		if v := b.Get(havesKey); v != nil {
			return gob.NewDecoder(bytes.NewReader(v)).Decode(&st.Haves)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}

// Save writes st, retrying transient bbolt errors with an exponential
// backoff so a momentarily locked database does not drop progress.
func (s *BoltStore) Save(st *State) error {
	bo := &backoff.ExponentialBackOff{
		InitialInterval:    50 * time.Millisecond,
		RandomizationFactor: 0.25,
		Multiplier:         2,
		MaxInterval:        2 * time.Second,
		MaxElapsedTime:     10 * time.Second,
		Clock:              backoff.SystemClock,
	}
	bo.Reset()
	return backoff.Retry(func() error { return s.save(st) }, bo)
}

func (s *BoltStore) save(st *State) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(st.Haves); err != nil {
		return err
	}
	n := st.NumPieces
	npBytes := []byte{byte(n >> 24), byte(n >> 16), byte(n >> 8), byte(n)}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		if err := b.Put(numPiecesKey, npBytes); err != nil {
			return err
		}
		if err := b.Put(haveKey, st.Have); err != nil {
			return err
		}
		if err := b.Put(filterKey, st.Filter); err != nil {
			return err
		}
		return b.Put(havesKey, buf.Bytes())
	})
}
