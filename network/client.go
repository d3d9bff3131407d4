// Package network holds the HTTP client and websocket dialer shared by the CLI.
package network

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// Client is used for release lookups.
var Client = &http.Client{
	Timeout:   30 * time.Second,
	Transport: newTransport(),
}

func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 10
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 15 * time.Second
	return t
}

// Dialer opens relay connections. It honours HTTP(S)_PROXY like Client does.
var Dialer = &websocket.Dialer{
	Proxy:            http.ProxyFromEnvironment,
	HandshakeTimeout: 10 * time.Second,
	ReadBufferSize:   4096,
	WriteBufferSize:  4096,
}
