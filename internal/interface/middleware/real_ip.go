package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// RealIP sets the real client IP into Gin context (key: "real_ip").
// Forwarding headers are honored only when the direct peer is a loopback
// or private address, i.e. a proxy in front of us; otherwise they are
// client-controlled and ignored.
// Priority:
// 1) CF-Connecting-IP (Cloudflare)
// 2) X-Forwarded-For (left-most)
// 3) fallback to the direct peer address
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		if behindProxy(c) {
			if cf := strings.TrimSpace(c.GetHeader("CF-Connecting-IP")); cf != "" {
				if ip := net.ParseIP(cf); ip != nil {
					c.Set("real_ip", ip.String())
					c.Next()
					return
				}
			}
			if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
				first, _, _ := strings.Cut(xff, ",")
				if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
					c.Set("real_ip", ip.String())
					c.Next()
					return
				}
			}
		}
		c.Set("real_ip", c.RemoteIP())
		c.Next()
	}
}

func behindProxy(c *gin.Context) bool {
	peer := net.ParseIP(c.RemoteIP())
	return peer != nil && (peer.IsLoopback() || peer.IsPrivate())
}
