// Package validate holds the acceptance tests a policy loader applies to
// policy-authored literals before trusting them. Every function tolerates
// arbitrary input and reports rejection rather than failing.
package validate

import (
	"fmt"
	"net"
	"strconv"

	"go.uber.org/zap"

	"static-flow-classifier/internal/ipspace"
	"static-flow-classifier/internal/model"
	"static-flow-classifier/internal/normalize"
	"static-flow-classifier/internal/timeofday"
)

const (
	maxEtherType = 65535
	maxPort      = 65535
)

// ParseMAC parses a 48-bit hardware address. Longer EUI-64 and
// InfiniBand forms are rejected.
func ParseMAC(text string) (net.HardwareAddr, error) {
	hw, err := net.ParseMAC(text)
	if err != nil {
		return nil, fmt.Errorf("%w: MAC address %q: %v", model.ErrMalformedLiteral, text, err)
	}
	if len(hw) != 6 {
		return nil, fmt.Errorf("%w: MAC address %q is %d bits, want 48", model.ErrMalformedLiteral, text, len(hw)*8)
	}
	return hw, nil
}

// ParsePort parses a TCP or UDP port number in the range 1-65535.
func ParsePort(text string) (uint16, error) {
	v, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("%w: port %q", model.ErrMalformedLiteral, text)
	}
	if v < 1 || v > maxPort {
		return 0, fmt.Errorf("%w: port %d out of range 1-%d", model.ErrMalformedLiteral, v, maxPort)
	}
	return uint16(v), nil
}

// ParseEtherType parses a hex ("0x0800") or decimal ("2048") EtherType in
// the range 1-65535.
func ParseEtherType(text string) (uint16, error) {
	v, err := normalize.HexOrDecimal(text)
	if err != nil {
		return 0, err
	}
	if v < 1 || v > maxEtherType {
		return 0, fmt.Errorf("%w: EtherType %q out of range 1-%d", model.ErrMalformedLiteral, text, maxEtherType)
	}
	return uint16(v), nil
}

// Validator applies the acceptance tests and logs every rejection at debug
// level with its failure kind and offending value.
type Validator struct {
	logger *zap.Logger
}

// New returns a Validator logging to logger, or to nowhere when nil.
func New(logger *zap.Logger) *Validator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Validator{logger: logger}
}

func (v *Validator) check(check, value string, err error) bool {
	if err == nil {
		return true
	}
	v.logger.Debug("Policy value rejected",
		zap.String("check", check),
		zap.String("kind", model.ErrorKind(err)),
		zap.String("value", value),
		zap.Error(err))
	return false
}

func (v *Validator) MAC(text string) bool {
	_, err := ParseMAC(text)
	return v.check("mac", text, err)
}

func (v *Validator) EtherType(text string) bool {
	_, err := ParseEtherType(text)
	return v.check("eth_type", text, err)
}

func (v *Validator) TransportPort(text string) bool {
	_, err := ParsePort(text)
	return v.check("transport_port", text, err)
}

// IPSpace accepts a single address, a CIDR network or an ascending range of
// two addresses of the same IP version.
func (v *Validator) IPSpace(text string) bool {
	_, err := ipspace.Parse(text)
	return v.check("ip_space", text, err)
}

func (v *Validator) TimeOfDay(text string) bool {
	_, err := timeofday.Parse(text)
	return v.check("time_of_day", text, err)
}

// Rule checks a rule's value against the validator for its attribute. The
// returned error carries the failure kind and the offending value.
func (v *Validator) Rule(rule *model.PolicyRule) error {
	err := checkRule(rule)
	v.check(string(rule.Attribute), rule.Value, err)
	return err
}

func checkRule(rule *model.PolicyRule) error {
	var err error
	switch rule.Attribute {
	case model.LocationSrc:
		if rule.Value == "" {
			err = fmt.Errorf("%w: empty location name", model.ErrMalformedLiteral)
		}
	case model.TimeOfDay:
		_, err = timeofday.Parse(rule.Value)
	case model.EthSrc, model.EthDst:
		_, err = ParseMAC(rule.Value)
	case model.EthType:
		_, err = ParseEtherType(rule.Value)
	case model.IPSrc, model.IPDst:
		_, err = ipspace.Parse(rule.Value)
	case model.TCPSrc, model.TCPDst, model.UDPSrc, model.UDPDst:
		_, err = ParsePort(rule.Value)
	default:
		err = fmt.Errorf("%w: %q", model.ErrUnsupportedAttribute, rule.Attribute)
	}
	if err != nil {
		return fmt.Errorf("%s=%q: %w", rule.Attribute, rule.Value, err)
	}
	return nil
}
