package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAttribute(t *testing.T) {
	testCases := []struct {
		Name  string
		Tag   string
		Exp   Attribute
		ExpOK bool
	}{
		{Name: "canonical", Tag: "eth_src", Exp: EthSrc, ExpOK: true},
		{Name: "hyphenated", Tag: "tcp-dst", Exp: TCPDst, ExpOK: true},
		{Name: "upper case", Tag: "IP_SRC", Exp: IPSrc, ExpOK: true},
		{Name: "surrounding space", Tag: "  udp_src ", Exp: UDPSrc, ExpOK: true},
		{Name: "location alias", Tag: "location_source", Exp: LocationSrc, ExpOK: true},
		{Name: "hyphenated location alias", Tag: "Location-Source", Exp: LocationSrc, ExpOK: true},
		{Name: "time of day", Tag: "time-of-day", Exp: TimeOfDay, ExpOK: true},
		{Name: "unknown keeps tag", Tag: "vlan_id", Exp: Attribute("vlan_id"), ExpOK: false},
		{Name: "empty", Tag: "", Exp: Attribute(""), ExpOK: false},
		{Name: "partial", Tag: "eth", Exp: Attribute("eth"), ExpOK: false},
	}
	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			got, ok := ParseAttribute(tc.Tag)
			assert.Equal(t, tc.ExpOK, ok)
			assert.Equal(t, tc.Exp, got)
		})
	}
}

func TestParseAttributeCoversEveryAttribute(t *testing.T) {
	for _, a := range Attributes {
		got, ok := ParseAttribute(string(a))
		assert.True(t, ok, a)
		assert.Equal(t, a, got)
	}
}
