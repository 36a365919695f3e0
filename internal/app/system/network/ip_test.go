package network

import (
	"net/http/httptest"
	"testing"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		xff        string
		xRealIP    string
		remoteAddr string
		want       string
	}{
		{name: "forwarded single", xff: "192.168.1.1", remoteAddr: "10.0.0.1:12345", want: "192.168.1.1"},
		{name: "forwarded chain", xff: "192.168.1.1, 10.0.0.2", remoteAddr: "10.0.0.1:12345", want: "192.168.1.1"},
		{name: "forwarded padded", xff: "  192.168.1.1  ", remoteAddr: "10.0.0.1:12345", want: "192.168.1.1"},
		{name: "forwarded empty first hop", xff: " , 10.0.0.2", xRealIP: "172.16.0.9", remoteAddr: "10.0.0.1:1", want: "172.16.0.9"},
		{name: "real ip", xRealIP: "192.168.1.7", remoteAddr: "10.0.0.1:12345", want: "192.168.1.7"},
		{name: "remote addr v4", remoteAddr: "10.0.0.1:12345", want: "10.0.0.1"},
		{name: "remote addr v6", remoteAddr: "[::1]:8080", want: "::1"},
		{name: "remote addr without port", remoteAddr: "10.0.0.1", want: "10.0.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xRealIP != "" {
				req.Header.Set("X-Real-IP", tt.xRealIP)
			}
			if got := ClientIP(req); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
