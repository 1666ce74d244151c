// Package ipspace parses policy IP address spaces. A space is a single
// address, a CIDR network or an inclusive address range, and answers
// membership queries for flow addresses.
package ipspace

import (
	"fmt"
	"net/netip"
	"strings"

	"go4.org/netipx"

	"static-flow-classifier/internal/model"
)

type kind int

const (
	single kind = iota
	network
	addrRange
)

// Space is an immutable IP address space. The zero value contains nothing.
type Space struct {
	kind   kind
	addr   netip.Addr
	prefix netip.Prefix
	rng    netipx.IPRange
}

// Parse classifies text by shape: a "/" makes it a CIDR network, a "-" makes
// it a two-part range and anything else is a plain address. Ranges must have
// endpoints of the same family with the first strictly below the second.
func Parse(text string) (Space, error) {
	switch {
	case strings.Contains(text, "/"):
		p, err := netip.ParsePrefix(text)
		if err != nil {
			return Space{}, fmt.Errorf("%w: network %q: %v", model.ErrMalformedLiteral, text, err)
		}
		return Space{kind: network, prefix: p.Masked()}, nil
	case strings.Contains(text, "-"):
		parts := strings.Split(text, "-")
		if len(parts) != 2 {
			return Space{}, fmt.Errorf("%w: range %q has %d parts, want 2",
				model.ErrMalformedLiteral, text, len(parts))
		}
		lo, err := parseAddr(parts[0])
		if err != nil {
			return Space{}, err
		}
		hi, err := parseAddr(parts[1])
		if err != nil {
			return Space{}, err
		}
		if lo.BitLen() != hi.BitLen() {
			return Space{}, fmt.Errorf("%w: range %q mixes IP versions", model.ErrIncompatibleRange, text)
		}
		if !lo.Less(hi) {
			return Space{}, fmt.Errorf("%w: range %q is not ascending", model.ErrIncompatibleRange, text)
		}
		return Space{kind: addrRange, rng: netipx.IPRangeFrom(lo, hi)}, nil
	default:
		a, err := parseAddr(text)
		if err != nil {
			return Space{}, err
		}
		return Space{kind: single, addr: a}, nil
	}
}

func parseAddr(text string) (netip.Addr, error) {
	a, err := netip.ParseAddr(text)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("%w: address %q: %v", model.ErrMalformedLiteral, text, err)
	}
	if a.Zone() != "" {
		return netip.Addr{}, fmt.Errorf("%w: address %q carries a zone", model.ErrMalformedLiteral, text)
	}
	return a.Unmap(), nil
}

// Contains reports whether addr lies in the space. IPv4-mapped IPv6
// addresses are compared as IPv4. An invalid addr is never contained.
func (s Space) Contains(addr netip.Addr) bool {
	if !addr.IsValid() {
		return false
	}
	addr = addr.Unmap()
	switch s.kind {
	case network:
		return s.prefix.IsValid() && s.prefix.Contains(addr)
	case addrRange:
		return s.rng.IsValid() && s.rng.Contains(addr)
	default:
		return s.addr.IsValid() && s.addr == addr
	}
}
