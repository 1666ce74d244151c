package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"net"
	"net/netip"
	"strconv"
	"strings"
	"time"

	"static-flow-classifier/internal/model"
	"static-flow-classifier/internal/normalize"
)

// FlowColumns is the header ParseFlows understands. Only eth_type is
// required; other missing columns leave the field absent.
var FlowColumns = []string{
	"dpid", "in_port", "eth_src", "eth_dst", "eth_type",
	"ip_src", "ip_dst", "proto", "tp_src", "tp_dst", "time",
}

// ParseFlows reads flow records from CSV. Rows that cannot be parsed are
// skipped and counted in the returned skip total.
func ParseFlows(r io.Reader) ([]model.Flow, int, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("could not read header: %w", err)
	}

	colMap := make(map[string]int)
	for i, colName := range header {
		colMap[strings.ToLower(strings.TrimSpace(colName))] = i
	}
	if _, ok := colMap["eth_type"]; !ok {
		return nil, 0, fmt.Errorf("could not find 'eth_type' column in flow file")
	}

	var flows []model.Flow
	skipped := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, skipped, err
		}
		flow, err := parseFlowRecord(colMap, record)
		if err != nil {
			skipped++
			continue
		}
		flows = append(flows, flow)
	}
	return flows, skipped, nil
}

func parseFlowRecord(colMap map[string]int, record []string) (model.Flow, error) {
	get := func(col string) string {
		if i, ok := colMap[col]; ok && i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}

	var flow model.Flow
	var err error
	if flow.DPID, err = parseUint(get("dpid"), 64); err != nil {
		return flow, fmt.Errorf("dpid: %w", err)
	}
	inPort, err := parseUint(get("in_port"), 32)
	if err != nil {
		return flow, fmt.Errorf("in_port: %w", err)
	}
	flow.InPort = uint32(inPort)
	if flow.EthSrc, err = parseMAC(get("eth_src")); err != nil {
		return flow, fmt.Errorf("eth_src: %w", err)
	}
	if flow.EthDst, err = parseMAC(get("eth_dst")); err != nil {
		return flow, fmt.Errorf("eth_dst: %w", err)
	}
	ethType, err := normalize.HexOrDecimal(get("eth_type"))
	if err != nil || ethType < 0 || ethType > 0xffff {
		return flow, fmt.Errorf("eth_type %q", get("eth_type"))
	}
	flow.EthType = uint16(ethType)
	if flow.IPSrc, err = parseAddr(get("ip_src")); err != nil {
		return flow, fmt.Errorf("ip_src: %w", err)
	}
	if flow.IPDst, err = parseAddr(get("ip_dst")); err != nil {
		return flow, fmt.Errorf("ip_dst: %w", err)
	}
	proto, err := parseUint(get("proto"), 8)
	if err != nil {
		return flow, fmt.Errorf("proto: %w", err)
	}
	flow.Proto = uint8(proto)
	tpSrc, err := parseUint(get("tp_src"), 16)
	if err != nil {
		return flow, fmt.Errorf("tp_src: %w", err)
	}
	tpDst, err := parseUint(get("tp_dst"), 16)
	if err != nil {
		return flow, fmt.Errorf("tp_dst: %w", err)
	}
	flow.TPSrc, flow.TPDst = uint16(tpSrc), uint16(tpDst)
	if ts := get("time"); ts != "" {
		if flow.Time, err = time.Parse(time.RFC3339, ts); err != nil {
			return flow, fmt.Errorf("time: %w", err)
		}
	}
	return flow, nil
}

// Empty cells are absent fields and parse to zero values.
func parseUint(s string, bits int) (uint64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseUint(s, 10, bits)
}

func parseMAC(s string) (net.HardwareAddr, error) {
	if s == "" {
		return nil, nil
	}
	return net.ParseMAC(s)
}

func parseAddr(s string) (netip.Addr, error) {
	if s == "" {
		return netip.Addr{}, nil
	}
	a, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Addr{}, err
	}
	return a.Unmap(), nil
}
