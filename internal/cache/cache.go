// Package cache provides the key-value stores the answer service memoizes
// into: process memory, local disk, or Azure Blob Storage.
package cache

import (
	"context"
	"errors"
	"io"
)

// Cache is a string-keyed blob store.
type Cache interface {
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Exists(ctx context.Context, key string) (bool, error)
	Put(ctx context.Context, key, value string, opts PutOptions) error
}

// ListCache additionally enumerates keys under a prefix. The marker argument
// resumes a partial listing where a backend supports it.
type ListCache interface {
	Cache
	List(ctx context.Context, prefix string, marker string) ([]string, error)
}

var (
	ErrNotFound      = errors.New("cache: key not found")
	ErrAlreadyExists = errors.New("cache: key already exists")
)

type PutCondition int

const (
	PutUnconditional PutCondition = iota
	PutIfNoneMatch
)

// PutOptions controls how Put treats an existing entry.
type PutOptions struct {
	Condition PutCondition
}

func Unconditional() PutOptions {
	return PutOptions{Condition: PutUnconditional}
}

// IfNoneMatch makes Put fail with ErrAlreadyExists instead of overwriting.
func IfNoneMatch() PutOptions {
	return PutOptions{Condition: PutIfNoneMatch}
}
