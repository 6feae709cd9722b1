package cfs

import (
	"errors"
	"fmt"

	"github.com/joshuapare/cfskit/cfs/backing"
)

// OpenFile opens an existing store file read-write.
func OpenFile(path string, opts *Options) (*Store, error) {
	f, err := backing.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	s, err := Open(f, opts)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("open %s: %w", path, err), f.Close())
	}
	return s, nil
}

// CreateFile creates (or replaces) a store file at path.
func CreateFile(path string, cfg CreateConfig, opts *Options) (*Store, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	f, err := backing.CreateFile(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	s, err := Create(f, cfg, opts)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("create %s: %w", path, err), f.Close())
	}
	return s, nil
}
