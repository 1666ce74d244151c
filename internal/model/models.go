package model

import (
	"net"
	"net/netip"
	"strings"
	"time"
)

type Attribute string // "eth_src", "ip_dst", ...

const (
	LocationSrc Attribute = "location_src"
	TimeOfDay   Attribute = "time_of_day"
	EthSrc      Attribute = "eth_src"
	EthDst      Attribute = "eth_dst"
	EthType     Attribute = "eth_type"
	IPSrc       Attribute = "ip_src"
	IPDst       Attribute = "ip_dst"
	TCPSrc      Attribute = "tcp_src"
	TCPDst      Attribute = "tcp_dst"
	UDPSrc      Attribute = "udp_src"
	UDPDst      Attribute = "udp_dst"
)

// Attributes lists every supported static classifier attribute.
var Attributes = []Attribute{
	LocationSrc, TimeOfDay, EthSrc, EthDst, EthType,
	IPSrc, IPDst, TCPSrc, TCPDst, UDPSrc, UDPDst,
}

// ParseAttribute maps a policy tag to an Attribute. Hyphenated spellings
// ("eth-src", "location-source") are accepted. The second return value is
// false for tags outside the supported set.
func ParseAttribute(tag string) (Attribute, bool) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(tag)), "-", "_")
	if norm == "location_source" {
		norm = string(LocationSrc)
	}
	for _, a := range Attributes {
		if string(a) == norm {
			return a, true
		}
	}
	return Attribute(tag), false
}

// Flow is a single observed flow as seen by the classifier. Absent fields
// are left at their zero value: a nil MAC, an invalid netip.Addr.
type Flow struct {
	DPID    uint64
	InPort  uint32
	EthSrc  net.HardwareAddr
	EthDst  net.HardwareAddr
	EthType uint16
	IPSrc   netip.Addr
	IPDst   netip.Addr
	Proto   uint8
	TPSrc   uint16
	TPDst   uint16
	Time    time.Time
}

// PolicyRule is one (attribute, value) classification clause. Match is
// overwritten by every evaluation.
type PolicyRule struct {
	// Attribute must be one of the canonical tags listed in Attributes.
	// Loaders normalize authored spellings with ParseAttribute; the
	// evaluator does not.
	Attribute Attribute
	Value     string
	Match     bool
}

type RuleResult struct {
	FlowIndex int
	Attribute Attribute
	Value     string
	EthType   string
	Proto     string
	Service   string
	Match     bool
}
