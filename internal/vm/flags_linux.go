package vm

import "golang.org/x/sys/unix"

// MAP_NORESERVE keeps large reservations from counting against overcommit limits.
const reserveFlags = unix.MAP_PRIVATE | unix.MAP_ANON | unix.MAP_NORESERVE
