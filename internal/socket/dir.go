package socket

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	socketPrefix = "renderwatch-"
	socketSuffix = ".sock"
)

// socketDir returns the directory sockets live in: XDG_RUNTIME_DIR if
// available, otherwise ~/.local/share
func socketDir() string {
	if xdgRuntime := os.Getenv("XDG_RUNTIME_DIR"); xdgRuntime != "" {
		return filepath.Join(xdgRuntime, "renderwatch")
	}
	return filepath.Join(os.Getenv("HOME"), ".local", "share", "renderwatch")
}

func socketName(pid int) string {
	return fmt.Sprintf("%s%d%s", socketPrefix, pid, socketSuffix)
}

// pidFromSocket extracts the pid from a socket file name, 0 if it has none
func pidFromSocket(path string) int {
	name := filepath.Base(path)
	if !strings.HasPrefix(name, socketPrefix) || !strings.HasSuffix(name, socketSuffix) {
		return 0
	}
	pid, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, socketPrefix), socketSuffix))
	if err != nil {
		return 0
	}
	return pid
}
