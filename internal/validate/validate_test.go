package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"static-flow-classifier/internal/model"
)

func TestMAC(t *testing.T) {
	v := New(nil)
	for _, ok := range []string{"00:1b:77:49:54:fd", "00-1B-77-49-54-FD", "001b.7749.54fd", "ff:ff:ff:ff:ff:ff"} {
		assert.True(t, v.MAC(ok), ok)
	}
	for _, bad := range []string{"", "foo", "00:1b:77:49:54", "00:1b:77:49:54:fd:01:02", "00:1b:77:49:54:zz"} {
		assert.False(t, v.MAC(bad), bad)
	}
}

func TestEtherType(t *testing.T) {
	v := New(nil)
	for _, ok := range []string{"0x0800", "2048", "0x86dd", "1", "65535", "0xffff"} {
		assert.True(t, v.EtherType(ok), ok)
	}
	for _, bad := range []string{"", "0", "0x0", "65536", "0x10000", "-1", "0x", "0xgg", "0x+800", "0x-1", "ipv4", "99999999999999999999999"} {
		assert.False(t, v.EtherType(bad), bad)
	}
}

func TestTransportPort(t *testing.T) {
	v := New(nil)
	for _, ok := range []string{"1", "80", "65535"} {
		assert.True(t, v.TransportPort(ok), ok)
	}
	for _, bad := range []string{"", "0", "65536", "-80", "http", "80.0", "0x50", "99999999999999999999999"} {
		assert.False(t, v.TransportPort(bad), bad)
	}
}

func TestIPSpace(t *testing.T) {
	v := New(nil)
	for _, ok := range []string{
		"10.1.0.1", "2001:db8::1", "10.1.0.0/16", "2001:db8::/32",
		"10.1.0.1-10.1.0.9", "2001:db8::1-2001:db8::9",
	} {
		assert.True(t, v.IPSpace(ok), ok)
	}
	for _, bad := range []string{
		"", "foo", "10.1.0.0/40", "10.1.0.9-10.1.0.1", "10.1.0.1-10.1.0.1",
		"10.1.0.1-2001:db8::9", "10.1.0.1-10.1.0.5-10.1.0.9", "-", "10.1.0.1-",
		"256.1.1.1", strings.Repeat("1-", 100),
	} {
		assert.False(t, v.IPSpace(bad), bad)
	}
}

func TestTimeOfDay(t *testing.T) {
	v := New(nil)
	assert.True(t, v.TimeOfDay("09:00-17:00"))
	assert.True(t, v.TimeOfDay("22:00-02:00"))
	assert.False(t, v.TimeOfDay("25:00-02:00"))
	assert.False(t, v.TimeOfDay("morning"))
}

func TestRejectionsAreLogged(t *testing.T) {
	testCases := []struct {
		Name    string
		Check   func(v *Validator) bool
		Value   string
		ExpKind string
	}{
		{Name: "mac", Check: func(v *Validator) bool { return v.MAC("foo") }, Value: "foo", ExpKind: "malformed_literal"},
		{Name: "eth type", Check: func(v *Validator) bool { return v.EtherType("0") }, Value: "0", ExpKind: "malformed_literal"},
		{Name: "port", Check: func(v *Validator) bool { return v.TransportPort("http") }, Value: "http", ExpKind: "malformed_literal"},
		{
			Name:    "descending range",
			Check:   func(v *Validator) bool { return v.IPSpace("10.0.0.9-10.0.0.1") },
			Value:   "10.0.0.9-10.0.0.1",
			ExpKind: "incompatible_range",
		},
		{Name: "window", Check: func(v *Validator) bool { return v.TimeOfDay("noon") }, Value: "noon", ExpKind: "malformed_literal"},
	}
	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			assert.False(t, tc.Check(New(zap.New(core))))
			require.Equal(t, 1, logs.Len())
			entry := logs.All()[0]
			assert.Equal(t, zapcore.DebugLevel, entry.Level)
			fields := entry.ContextMap()
			assert.Equal(t, tc.ExpKind, fields["kind"])
			assert.Equal(t, tc.Value, fields["value"])
			assert.Contains(t, fields, "error")
		})
	}
}

func TestAcceptedValuesAreNotLogged(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	v := New(zap.New(core))
	assert.True(t, v.MAC("00:1b:77:49:54:fd"))
	assert.True(t, v.IPSpace("10.0.0.0/8"))
	assert.Zero(t, logs.Len())
}

func TestRule(t *testing.T) {
	testCases := []struct {
		Name   string
		Rule   model.PolicyRule
		ExpErr error
	}{
		{Name: "valid tcp port", Rule: model.PolicyRule{Attribute: model.TCPDst, Value: "443"}},
		{Name: "valid ip space", Rule: model.PolicyRule{Attribute: model.IPSrc, Value: "10.0.0.0/8"}},
		{Name: "valid eth type", Rule: model.PolicyRule{Attribute: model.EthType, Value: "0x0806"}},
		{Name: "valid mac", Rule: model.PolicyRule{Attribute: model.EthDst, Value: "08:00:27:2a:d6:dd"}},
		{Name: "valid location", Rule: model.PolicyRule{Attribute: model.LocationSrc, Value: "internal"}},
		{Name: "valid window", Rule: model.PolicyRule{Attribute: model.TimeOfDay, Value: "21:00-06:00"}},
		{
			Name:   "port out of range",
			Rule:   model.PolicyRule{Attribute: model.UDPSrc, Value: "70000"},
			ExpErr: model.ErrMalformedLiteral,
		},
		{
			Name:   "descending range",
			Rule:   model.PolicyRule{Attribute: model.IPDst, Value: "10.0.0.9-10.0.0.1"},
			ExpErr: model.ErrIncompatibleRange,
		},
		{
			Name:   "empty location",
			Rule:   model.PolicyRule{Attribute: model.LocationSrc},
			ExpErr: model.ErrMalformedLiteral,
		},
		{
			Name:   "unknown attribute",
			Rule:   model.PolicyRule{Attribute: "vlan_id", Value: "10"},
			ExpErr: model.ErrUnsupportedAttribute,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			err := New(zap.New(core)).Rule(&tc.Rule)
			if tc.ExpErr == nil {
				assert.NoError(t, err)
				assert.Zero(t, logs.Len())
				return
			}
			assert.ErrorIs(t, err, tc.ExpErr)
			assert.Contains(t, err.Error(), string(tc.Rule.Attribute))
			assert.Equal(t, 1, logs.Len())
		})
	}
}
