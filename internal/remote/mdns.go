package remote

import (
	"fmt"
	"log"
	"net"
	"os"

	"github.com/hashicorp/mdns"
)

// Advertise announces this instance on the local network so draftctl and
// other clients can find it without knowing the address.
func Advertise(port int) (*mdns.Server, error) {
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("could not get hostname: %w", err)
	}

	info := []string{fmt.Sprintf("pid=%d", os.Getpid())}
	service, err := mdns.NewMDNSService(
		fmt.Sprintf("%s-%d", host, os.Getpid()),
		serviceType,
		"", // domain, defaults to .local
		"", // OS hostname
		port,
		[]net.IP{outgoingIP()},
		info,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("failed to start mDNS server: %w", err)
	}
	log.Printf("[remote] Advertising %s on port %d", serviceType, port)
	return server, nil
}

// Browse looks up advertised instances and calls found with each host:port.
func Browse(found func(addr string)) error {
	entries := make(chan *mdns.ServiceEntry, 8)
	go func() {
		for e := range entries {
			if e.AddrV4 == nil || e.Port == 0 {
				continue
			}
			found(fmt.Sprintf("%s:%d", e.AddrV4.String(), e.Port))
		}
	}()
	return mdns.Lookup(serviceType, entries)
}
