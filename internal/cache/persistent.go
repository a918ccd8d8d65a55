package cache

import (
	"context"
	"sync"

	badger "github.com/dgraph-io/badger/v4"
)

// Persistent is the `--cache` variant: an append-only LSM store
// (Badger) behind the same single-flight contract as Memory. A
// process-local pending-entry map still provides in-process
// single-flight fan-in (many goroutines awaiting one producer);
// Badger transactions provide the atomic install/finalize/remove of
// the on-disk record, and make the resulting value durable across
// runs.
type Persistent[V any] struct {
	db    *badger.DB
	codec Codec[V]
	m     sync.Map // string -> *entry[V], in-process waiters only
}

// OpenPersistent opens (creating if absent) a Badger store rooted at
// dir for use as a persistent cache of V.
func OpenPersistent[V any](dir string) (*Persistent[V], error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, storageError("open", err)
	}
	return &Persistent[V]{db: db}, nil
}

func (c *Persistent[V]) GetOrCompute(ctx context.Context, key string, produce Producer[V]) (V, error) {
	for {
		if value, found, err := c.loadValue(key); err != nil {
			var zero V
			return zero, err
		} else if found {
			return value, nil
		}

		actual, loaded := c.m.LoadOrStore(key, newEntry[V]())
		e := actual.(*entry[V])

		if !loaded {
			return c.runProducer(ctx, key, e, produce)
		}

		value, err, retry, ctxErr := awaitEntry(ctx, e)
		if ctxErr != nil {
			var zero V
			return zero, ctxErr
		}
		if retry {
			continue
		}
		return value, err
	}
}

func (c *Persistent[V]) runProducer(ctx context.Context, key string, e *entry[V], produce Producer[V]) (V, error) {
	var zero V

	if err := c.storePending(key); err != nil {
		c.m.CompareAndDelete(key, e)
		e.err = err
		close(e.done)
		return zero, err
	}

	value, prodErr := produce(ctx)
	if prodErr != nil {
		_ = c.removeKey(key)
		c.m.CompareAndDelete(key, e)
		e.err = prodErr
		close(e.done)
		return zero, prodErr
	}

	if err := c.storeValue(key, value); err != nil {
		c.m.CompareAndDelete(key, e)
		e.err = err
		close(e.done)
		return zero, err
	}

	e.value = value
	close(e.done)
	return value, nil
}

func (c *Persistent[V]) loadValue(key string) (value V, found bool, err error) {
	txErr := c.db.View(func(txn *badger.Txn) error {
		item, getErr := txn.Get([]byte(key))
		if getErr == badger.ErrKeyNotFound {
			return nil
		}
		if getErr != nil {
			return getErr
		}
		return item.Value(func(raw []byte) error {
			v, pending, decErr := c.codec.Decode(raw)
			if decErr != nil {
				return codecError("decode", decErr)
			}
			if pending {
				return nil
			}
			value, found = v, true
			return nil
		})
	})
	if txErr != nil {
		if ce, ok := txErr.(*Error); ok {
			return value, false, ce
		}
		return value, false, storageError("view", txErr)
	}
	return value, found, nil
}

func (c *Persistent[V]) storePending(key string) error {
	err := c.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), c.codec.EncodePending())
	})
	if err != nil {
		return storageError("install pending marker", err)
	}
	return nil
}

func (c *Persistent[V]) storeValue(key string, value V) error {
	encoded, err := c.codec.EncodeValue(value)
	if err != nil {
		return codecError("encode", err)
	}
	if err := c.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), encoded)
	}); err != nil {
		return storageError("install value", err)
	}
	return nil
}

func (c *Persistent[V]) removeKey(key string) error {
	if err := c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	}); err != nil {
		return storageError("remove", err)
	}
	return nil
}

func (c *Persistent[V]) Remove(_ context.Context, key string) error {
	if v, ok := c.m.LoadAndDelete(key); ok {
		e := v.(*entry[V])
		e.removed.Store(true)
	}
	return c.removeKey(key)
}

func (c *Persistent[V]) Close() error {
	if err := c.db.Close(); err != nil {
		return storageError("close", err)
	}
	return nil
}
