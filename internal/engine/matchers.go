package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"time"

	"github.com/gopacket/gopacket/layers"

	"static-flow-classifier/internal/ipspace"
	"static-flow-classifier/internal/location"
	"static-flow-classifier/internal/model"
	"static-flow-classifier/internal/normalize"
	"static-flow-classifier/internal/timeofday"
	"static-flow-classifier/internal/validate"
)

type matchFunc func(ctx context.Context, e *Evaluator, flow *model.Flow, value string, now time.Time) (bool, error)

var matchers = map[model.Attribute]matchFunc{
	model.LocationSrc: matchLocation,
	model.TimeOfDay: func(_ context.Context, _ *Evaluator, _ *model.Flow, value string, now time.Time) (bool, error) {
		return matchTimeOfDay(value, now)
	},
	model.EthSrc: func(_ context.Context, _ *Evaluator, f *model.Flow, value string, _ time.Time) (bool, error) {
		return matchMAC(f.EthSrc, value)
	},
	model.EthDst: func(_ context.Context, _ *Evaluator, f *model.Flow, value string, _ time.Time) (bool, error) {
		return matchMAC(f.EthDst, value)
	},
	model.EthType: func(_ context.Context, _ *Evaluator, f *model.Flow, value string, _ time.Time) (bool, error) {
		return matchEtherType(f.EthType, value)
	},
	model.IPSrc: func(_ context.Context, _ *Evaluator, f *model.Flow, value string, _ time.Time) (bool, error) {
		return matchIPSpace(f.IPSrc, value)
	},
	model.IPDst: func(_ context.Context, _ *Evaluator, f *model.Flow, value string, _ time.Time) (bool, error) {
		return matchIPSpace(f.IPDst, value)
	},
	model.TCPSrc: func(_ context.Context, _ *Evaluator, f *model.Flow, value string, _ time.Time) (bool, error) {
		return matchTransport(f.Proto, layers.IPProtocolTCP, f.TPSrc, value)
	},
	model.TCPDst: func(_ context.Context, _ *Evaluator, f *model.Flow, value string, _ time.Time) (bool, error) {
		return matchTransport(f.Proto, layers.IPProtocolTCP, f.TPDst, value)
	},
	model.UDPSrc: func(_ context.Context, _ *Evaluator, f *model.Flow, value string, _ time.Time) (bool, error) {
		return matchTransport(f.Proto, layers.IPProtocolUDP, f.TPSrc, value)
	},
	model.UDPDst: func(_ context.Context, _ *Evaluator, f *model.Flow, value string, _ time.Time) (bool, error) {
		return matchTransport(f.Proto, layers.IPProtocolUDP, f.TPDst, value)
	},
}

// matchLocation compares the location of the flow's ingress switch port
// with the policy location name. Ports with no registered location match
// nothing.
func matchLocation(ctx context.Context, e *Evaluator, flow *model.Flow, value string, _ time.Time) (bool, error) {
	if e.locations == nil {
		return false, fmt.Errorf("%w: no location directory configured", model.ErrLocationLookup)
	}
	name, err := e.locations.Lookup(ctx, flow.DPID, flow.InPort)
	if errors.Is(err, location.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: dpid=%d port=%d: %v", model.ErrLocationLookup, flow.DPID, flow.InPort, err)
	}
	return name == value, nil
}

func matchTimeOfDay(value string, now time.Time) (bool, error) {
	w, err := timeofday.Parse(value)
	if err != nil {
		return false, err
	}
	return w.Contains(now), nil
}

func matchMAC(flowMAC net.HardwareAddr, value string) (bool, error) {
	policy, err := validate.ParseMAC(value)
	if err != nil {
		return false, err
	}
	if len(flowMAC) == 0 {
		return false, fmt.Errorf("%w: flow has no MAC address", model.ErrMissingField)
	}
	if len(flowMAC) != len(policy) {
		return false, fmt.Errorf("%w: flow MAC %s is not 48 bits", model.ErrMalformedLiteral, flowMAC)
	}
	return bytes.Equal(flowMAC, policy), nil
}

// matchEtherType compares EtherTypes after normalising the policy value,
// which may be written in hex or decimal. Flow EtherTypes are numeric.
func matchEtherType(flowType uint16, value string) (bool, error) {
	v, err := normalize.HexOrDecimal(value)
	if err != nil {
		return false, err
	}
	return int64(flowType) == v, nil
}

func matchIPSpace(addr netip.Addr, value string) (bool, error) {
	if !addr.IsValid() {
		return false, fmt.Errorf("%w: flow has no IP address", model.ErrMissingField)
	}
	space, err := ipspace.Parse(value)
	if err != nil {
		return false, err
	}
	return space.Contains(addr), nil
}

// matchTransport requires the flow to carry the given IP protocol and the
// flow port to equal the policy port.
func matchTransport(flowProto uint8, want layers.IPProtocol, flowPort uint16, value string) (bool, error) {
	if layers.IPProtocol(flowProto) != want {
		return false, nil
	}
	port, err := validate.ParsePort(value)
	if err != nil {
		return false, err
	}
	return flowPort == port, nil
}
