// Package wellknown holds display tables for protocol numbers seen in flows.
// Lookups fall back to the raw number when a value is not tabled.
package wellknown

import (
	"fmt"
	"net/netip"
	"strconv"

	"github.com/gopacket/gopacket/layers"
)

var ethTypes = map[layers.EthernetType]string{
	layers.EthernetTypeIPv4:               "IPv4",
	layers.EthernetTypeARP:                "ARP",
	layers.EthernetTypeIPv6:               "IPv6",
	layers.EthernetTypeLinkLayerDiscovery: "LLDP",
}

var ipProtos = map[layers.IPProtocol]string{
	layers.IPProtocolICMPv4: "ICMP",
	layers.IPProtocolIGMP:   "IGMP",
	layers.IPProtocolTCP:    "TCP",
	layers.IPProtocolUDP:    "UDP",
	layers.IPProtocolIPv6:   "IPv6",
}

// EnumerateEthType names a decimal EtherType, e.g. 2054 becomes "ARP".
// Unknown values are returned as their decimal text.
func EnumerateEthType(ethType uint16) string {
	if name, ok := ethTypes[layers.EthernetType(ethType)]; ok {
		return name
	}
	return strconv.Itoa(int(ethType))
}

func HoverEthType(ethType uint16) string {
	return fmt.Sprintf("Ethernet Type: %d (decimal)", ethType)
}

// EnumerateIPProto names an IP protocol number, e.g. 6 becomes "TCP".
// Unknown values are returned as their decimal text.
func EnumerateIPProto(proto uint8) string {
	if name, ok := ipProtos[layers.IPProtocol(proto)]; ok {
		return name
	}
	return strconv.Itoa(int(proto))
}

func HoverIPProto(proto uint8) string {
	return fmt.Sprintf("IP Protocol: %d (decimal)", proto)
}

func HoverIPAddr(addr netip.Addr) string {
	return "IP Address: " + addr.String()
}
