package pkg

import (
	"fmt"
	"net"
	"net/http"
	"strings"
)

// LocalClient is what ClientIP reports for requests from this machine or its docker bridge.
const LocalClient = "localhost"

// ClientIP is the address a request came from. Proxy headers win over RemoteAddr:
// X-Real-Ip first, then the first hop of X-Forwarded-For. The port is dropped.
func ClientIP(r *http.Request) (string, error) {
	addr := strings.TrimSpace(r.Header.Get("X-Real-Ip"))
	if addr == "" {
		if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
			addr = strings.TrimSpace(strings.Split(forwarded, ",")[0])
		}
	}
	if addr == "" {
		addr = r.RemoteAddr
	}

	host := addr
	if h, _, err := net.SplitHostPort(addr); err == nil {
		host = h
	}

	ip := net.ParseIP(host)
	if ip == nil {
		return "", fmt.Errorf("invalid client ip: %q", addr)
	}
	if isLocal(ip) {
		return LocalClient, nil
	}

	return ip.String(), nil
}

func isLocal(ip net.IP) bool {
	if ip.IsLoopback() {
		return true
	}
	// docker bridge gateway, 172.x.0.1
	ip4 := ip.To4()
	return ip4 != nil && ip4[0] == 172 && ip4[2] == 0 && ip4[3] == 1
}
