/*
Package redisstore provides a tree.NodeStore that keeps nodes
on a redis database, so trees too large for the memory of a
process can still be grown and inspected.
*/
package redisstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/pbanos/orchard/tree"
	"gopkg.in/redis.v5"
)

/*
NodeEncodeDecoder is an interface for objects
that allow encoding nodes into slices of
bytes and decoding them back to nodes.
*/
type NodeEncodeDecoder interface {
	Encode(*tree.Node) ([]byte, error)
	Decode([]byte) (*tree.Node, error)
}

type redisStore struct {
	rc      *redis.Client
	prefix  string
	nencdec NodeEncodeDecoder
	lock    sync.Mutex
	keys    map[string]struct{}
}

/*
New builds a tree.NodeStore backed by a redis DB. Nodes are stored
under keys made of the given prefix and a random UUID as ID. The store
only lives as long as the tree it holds: closing it deletes the keys of
every node it created and did not delete yet.
*/
func New(rc *redis.Client, prefix string, nencdec NodeEncodeDecoder) tree.NodeStore {
	return &redisStore{rc: rc, prefix: prefix, nencdec: nencdec, keys: make(map[string]struct{})}
}

/*
Dial takes a redis URL, a key prefix and a NodeEncodeDecoder and returns a
tree.NodeStore on the database the URL points to, or an error if the URL
cannot be parsed or the server does not answer.
*/
func Dial(url, prefix string, nencdec NodeEncodeDecoder) (tree.NodeStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %v", err)
	}
	rc := redis.NewClient(opts)
	if err = rc.Ping().Err(); err != nil {
		rc.Close()
		return nil, fmt.Errorf("connecting to redis: %v", err)
	}
	return New(rc, prefix, nencdec), nil
}

func (rs *redisStore) Create(ctx context.Context, n *tree.Node) error {
	var ok bool
	for !ok {
		if err := ctx.Err(); err != nil {
			return err
		}
		n.ID = uuid.NewString()
		data, err := rs.nencdec.Encode(n)
		if err != nil {
			return fmt.Errorf("creating node: encoding node: %v", err)
		}
		ok, err = rs.rc.SetNX(rs.keyFor(n.ID), data, 0).Result()
		if err != nil {
			return fmt.Errorf("creating node in redis: %v", err)
		}
	}
	rs.lock.Lock()
	rs.keys[rs.keyFor(n.ID)] = struct{}{}
	rs.lock.Unlock()
	return nil
}

func (rs *redisStore) Get(ctx context.Context, id string) (*tree.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := rs.rc.Get(rs.keyFor(id)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("retrieving node %q: %v", id, err)
	}
	n, err := rs.nencdec.Decode([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("retrieving node %q: decoding %q: %v", id, data, err)
	}
	return n, nil
}

func (rs *redisStore) Store(ctx context.Context, n *tree.Node) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key := rs.keyFor(n.ID)
	data, err := rs.nencdec.Encode(n)
	if err != nil {
		return fmt.Errorf("storing node %q: encoding node: %v", key, err)
	}
	err = rs.rc.Set(key, data, 0).Err()
	if err != nil {
		return fmt.Errorf("storing node %q in redis: %v", key, err)
	}
	return nil
}

func (rs *redisStore) Delete(ctx context.Context, n *tree.Node) error {
	key := rs.keyFor(n.ID)
	err := rs.rc.Del(key).Err()
	if err != nil {
		return fmt.Errorf("deleting node %q from redis: %v", key, err)
	}
	rs.lock.Lock()
	delete(rs.keys, key)
	rs.lock.Unlock()
	return nil
}

func (rs *redisStore) Close(ctx context.Context) error {
	rs.lock.Lock()
	keys := make([]string, 0, len(rs.keys))
	for k := range rs.keys {
		keys = append(keys, k)
	}
	rs.keys = make(map[string]struct{})
	rs.lock.Unlock()
	var err error
	if len(keys) > 0 {
		if err = rs.rc.Del(keys...).Err(); err != nil {
			err = fmt.Errorf("deleting %d nodes from redis: %v", len(keys), err)
		}
	}
	if cerr := rs.rc.Close(); err == nil {
		err = cerr
	}
	return err
}

func (rs *redisStore) keyFor(id string) string {
	return fmt.Sprintf("%s:%s", rs.prefix, id)
}
