package mcpquic

import (
	"crypto/tls"
	"time"

	"github.com/quic-go/quic-go"
)

const (
	ALPNProtocolMCP  = "climate-mcp-v1"
	MagicBytesMCP    = "CDB1"
	MaxMessageSize   = 4 * 1024 * 1024
	HandshakeTimeout = 10 * time.Second
	IdleTimeout      = 5 * time.Minute
	KeepAlive        = 30 * time.Second
)

// QUICConfig is shared by the server listener and the client dialer.
func QUICConfig() *quic.Config {
	return &quic.Config{
		HandshakeIdleTimeout:       HandshakeTimeout,
		MaxStreamReceiveWindow:     10 * 1024 * 1024,
		MaxConnectionReceiveWindow: 50 * 1024 * 1024,
		MaxIdleTimeout:             IdleTimeout,
		KeepAlivePeriod:            KeepAlive,
	}
}

// ClientTLSConfig negotiates the MCP ALPN. insecure skips certificate
// verification for the self-signed development certificate.
func ClientTLSConfig(insecure bool) *tls.Config {
	return &tls.Config{
		NextProtos:         []string{ALPNProtocolMCP},
		MinVersion:         tls.VersionTLS13,
		InsecureSkipVerify: insecure,
	}
}
