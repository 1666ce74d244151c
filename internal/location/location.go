// Package location maps a (switch, ingress port) pair to a named network
// location for location_src classification.
package location

import (
	"context"
	"errors"
	"strconv"
)

// ErrNotFound is returned when no location is registered for a port.
var ErrNotFound = errors.New("location not found")

// Directory resolves the location of a switch port. Lookup may block; the
// caller bounds it through ctx.
type Directory interface {
	Lookup(ctx context.Context, dpid uint64, port uint32) (string, error)
}

// Entry is one switch port to location binding.
type Entry struct {
	DPID uint64 `mapstructure:"dpid" yaml:"dpid"`
	Port uint32 `mapstructure:"port" yaml:"port"`
	Name string `mapstructure:"name" yaml:"name"`
}

// Static is an in-memory Directory. It is safe for concurrent reads once
// built.
type Static map[string]string

func NewStatic(entries []Entry) Static {
	s := make(Static, len(entries))
	for _, e := range entries {
		s[portKey(e.DPID, e.Port)] = e.Name
	}
	return s
}

func (s Static) Lookup(ctx context.Context, dpid uint64, port uint32) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name, ok := s[portKey(dpid, port)]
	if !ok {
		return "", ErrNotFound
	}
	return name, nil
}

func portKey(dpid uint64, port uint32) string {
	return strconv.FormatUint(dpid, 10) + ":" + strconv.FormatUint(uint64(port), 10)
}
