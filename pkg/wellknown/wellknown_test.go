package wellknown

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnumerateEthType(t *testing.T) {
	assert.Equal(t, "IPv4", EnumerateEthType(2048))
	assert.Equal(t, "ARP", EnumerateEthType(2054))
	assert.Equal(t, "IPv6", EnumerateEthType(34525))
	assert.Equal(t, "LLDP", EnumerateEthType(35020))
	assert.Equal(t, "33024", EnumerateEthType(33024))
}

func TestEnumerateIPProto(t *testing.T) {
	assert.Equal(t, "ICMP", EnumerateIPProto(1))
	assert.Equal(t, "IGMP", EnumerateIPProto(2))
	assert.Equal(t, "TCP", EnumerateIPProto(6))
	assert.Equal(t, "UDP", EnumerateIPProto(17))
	assert.Equal(t, "IPv6", EnumerateIPProto(41))
	assert.Equal(t, "132", EnumerateIPProto(132))
}

func TestHoverText(t *testing.T) {
	assert.Equal(t, "Ethernet Type: 2048 (decimal)", HoverEthType(2048))
	assert.Equal(t, "IP Protocol: 17 (decimal)", HoverIPProto(17))
	assert.Equal(t, "IP Address: 10.0.0.1", HoverIPAddr(netip.MustParseAddr("10.0.0.1")))
}

func TestServiceName(t *testing.T) {
	name, ok := ServiceName(6, 22)
	assert.True(t, ok)
	assert.Equal(t, "ssh", name)

	name, ok = ServiceName(17, 53)
	assert.True(t, ok)
	assert.Equal(t, "domain", name)

	// ssh is registered for tcp only.
	_, ok = ServiceName(17, 22)
	assert.False(t, ok)

	assert.Equal(t, "Port: 443 (https)", HoverPort(6, 443))
	assert.Equal(t, "Port: 40000", HoverPort(6, 40000))
}
