package util

import (
	"net"
	"testing"
)

func TestFindAvailablePortSkipsBusyPort(t *testing.T) {
	ln, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	busy := ln.Addr().(*net.TCPAddr).Port

	port, err := FindAvailablePort(busy, 20)
	if err != nil {
		t.Fatalf("find port: %v", err)
	}
	if port == busy {
		t.Errorf("returned busy port %d", port)
	}
	if port < busy || port >= busy+20 {
		t.Errorf("port %d outside range", port)
	}
}
