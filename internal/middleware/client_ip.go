package middleware

import (
	"net"

	"github.com/labstack/echo/v4"
)

// ClientIPExtractor decides where c.RealIP() comes from. With no trusted
// proxies the socket peer address is used and forwarding headers are
// ignored. Otherwise X-Forwarded-For is honoured only for hops inside the
// trusted ranges.
func ClientIPExtractor(trustedProxies []*net.IPNet) echo.IPExtractor {
	if len(trustedProxies) == 0 {
		return echo.ExtractIPDirect()
	}
	options := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, network := range trustedProxies {
		options = append(options, echo.TrustIPRange(network))
	}
	return echo.ExtractIPFromXFFHeader(options...)
}
