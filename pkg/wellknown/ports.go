package wellknown

import (
	"bytes"
	"encoding/csv"
	"io"
	"log"
	"strconv"
	"strings"

	_ "embed"

	"github.com/gopacket/gopacket/layers"
)

//go:embed well_known_ports.csv
var wellKnownPortsData string

type portKey struct {
	proto layers.IPProtocol
	port  uint16
}

var serviceRegistry map[portKey]string

func init() {
	serviceRegistry = make(map[portKey]string)
	reader := csv.NewReader(bytes.NewBufferString(wellKnownPortsData))
	reader.TrimLeadingSpace = true
	// Skip header
	if _, err := reader.Read(); err != nil {
		log.Fatalf("Failed to read header from embedded well_known_ports.csv: %v", err)
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Fatalf("Failed to parse embedded well_known_ports.csv: %v", err)
		}
		if len(record) < 3 {
			continue
		}

		port, err := strconv.ParseUint(record[0], 10, 16)
		if err != nil {
			continue
		}

		if name := strings.TrimSpace(record[1]); name != "" && name != "N/A" {
			serviceRegistry[portKey{layers.IPProtocolTCP, uint16(port)}] = name
		}
		if name := strings.TrimSpace(record[2]); name != "" && name != "N/A" {
			serviceRegistry[portKey{layers.IPProtocolUDP, uint16(port)}] = name
		}
	}
}

// ServiceName returns the registered service name of a TCP or UDP port.
func ServiceName(proto uint8, port uint16) (string, bool) {
	name, ok := serviceRegistry[portKey{layers.IPProtocol(proto), port}]
	return name, ok
}

// HoverPort wraps a transport port with its well-known service, if any.
func HoverPort(proto uint8, port uint16) string {
	if name, ok := ServiceName(proto, port); ok {
		return "Port: " + strconv.Itoa(int(port)) + " (" + name + ")"
	}
	return "Port: " + strconv.Itoa(int(port))
}
