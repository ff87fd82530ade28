// syscall_layout.go - declarative struct marshalling for the syscall bridge
//
// Every struct the bridge copies between guest and host memory (stat,
// timespec, iovec, pollfd, ...) is described as a small ordered table of
// fields - guest byte offset, width, and a get/set pair bound to the host
// Go struct - and walked by one generic routine. This replaces what would
// otherwise be a bespoke marshal/unmarshal function per struct with one
// walker plus a field table per struct.

package main

import "encoding/binary"

// field describes one struct member's position in the big-endian guest
// struct and how to read/write the corresponding host value.
type field struct {
	guestOffset uint32
	width       int // 1, 2, 4 or 8 bytes
	get         func() uint64
	set         func(uint64)
}

// f2/f4/f8 build a field of the given width from plain int/uint getters
// and setters, so call sites read as a flat table rather than boilerplate.
func f4(off uint32, get func() uint32, set func(uint32)) field {
	return field{guestOffset: off, width: 4,
		get: func() uint64 { return uint64(get()) },
		set: func(v uint64) { set(uint32(v)) },
	}
}
func f8(off uint32, get func() uint64, set func(uint64)) field {
	return field{guestOffset: off, width: 8, get: get, set: set}
}
func f2(off uint32, get func() uint16, set func(uint16)) field {
	return field{guestOffset: off, width: 2,
		get: func() uint64 { return uint64(get()) },
		set: func(v uint64) { set(uint16(v)) },
	}
}

// writeStruct serialises fields into big-endian guest memory at base.
func writeStruct(mem *GuestMemory, base uint32, fields []field) bool {
	var buf [8]byte
	for _, fld := range fields {
		v := fld.get()
		switch fld.width {
		case 1:
			buf[0] = byte(v)
		case 2:
			binary.BigEndian.PutUint16(buf[:2], uint16(v))
		case 4:
			binary.BigEndian.PutUint32(buf[:4], uint32(v))
		case 8:
			binary.BigEndian.PutUint64(buf[:8], v)
		}
		if !mem.WriteBytes(base+fld.guestOffset, buf[:fld.width]) {
			return false
		}
	}
	return true
}

// readStruct populates fields from big-endian guest memory at base.
func readStruct(mem *GuestMemory, base uint32, fields []field) bool {
	var buf [8]byte
	for _, fld := range fields {
		if !mem.ReadBytes(base+fld.guestOffset, buf[:fld.width]) {
			return false
		}
		var v uint64
		switch fld.width {
		case 1:
			v = uint64(buf[0])
		case 2:
			v = uint64(binary.BigEndian.Uint16(buf[:2]))
		case 4:
			v = uint64(binary.BigEndian.Uint32(buf[:4]))
		case 8:
			v = binary.BigEndian.Uint64(buf[:8])
		}
		fld.set(v)
	}
	return true
}

// guestTimespec is the 32-bit guest struct timespec { tv_sec, tv_nsec int32 }.
type guestTimespec struct {
	Sec  int64
	Nsec int64
}

func timespecFields(ts *guestTimespec) []field {
	return []field{
		f4(0, func() uint32 { return uint32(ts.Sec) }, func(v uint32) { ts.Sec = int64(int32(v)) }),
		f4(4, func() uint32 { return uint32(ts.Nsec) }, func(v uint32) { ts.Nsec = int64(int32(v)) }),
	}
}

// guestTimeval is the 32-bit guest struct timeval.
type guestTimeval struct {
	Sec  int64
	Usec int64
}

func timevalFields(tv *guestTimeval) []field {
	return []field{
		f4(0, func() uint32 { return uint32(tv.Sec) }, func(v uint32) { tv.Sec = int64(int32(v)) }),
		f4(4, func() uint32 { return uint32(tv.Usec) }, func(v uint32) { tv.Usec = int64(int32(v)) }),
	}
}

// guestIovec is the 32-bit guest struct iovec { void *iov_base; size_t iov_len; }.
type guestIovec struct {
	Base uint32
	Len  uint32
}

func iovecFields(v *guestIovec) []field {
	return []field{
		f4(0, func() uint32 { return v.Base }, func(x uint32) { v.Base = x }),
		f4(4, func() uint32 { return v.Len }, func(x uint32) { v.Len = x }),
	}
}

// guestWinsize mirrors struct winsize for TIOCGWINSZ/TIOCSWINSZ.
type guestWinsize struct {
	Row, Col, XPixel, YPixel uint16
}

func winsizeFields(w *guestWinsize) []field {
	return []field{
		f2(0, func() uint16 { return w.Row }, func(v uint16) { w.Row = v }),
		f2(2, func() uint16 { return w.Col }, func(v uint16) { w.Col = v }),
		f2(4, func() uint16 { return w.XPixel }, func(v uint16) { w.XPixel = v }),
		f2(6, func() uint16 { return w.YPixel }, func(v uint16) { w.YPixel = v }),
	}
}

// guestStat64 is the 32-bit big-endian guest struct stat64 (asm-generic
// stat64 layout shared by most 32-bit Linux ports: 64-bit ino/size fields,
// 32-bit everything else). Offsets follow that layout; an implementer
// targeting one specific libc should re-verify against its headers, per the
// ABI caveat already called out for >6-argument syscalls.
type guestStat64 struct {
	Dev, Ino                     uint64
	Mode, Nlink                  uint32
	Uid, Gid                     uint32
	Rdev                         uint64
	Size                         int64
	Blksize                      int64
	Blocks                       int64
	Atime, Mtime, Ctime          int64
	AtimeNsec, MtimeNsec, CtimeNsec int64
}

func stat64Fields(s *guestStat64) []field {
	return []field{
		f8(0, func() uint64 { return s.Dev }, func(v uint64) { s.Dev = v }),
		f8(8, func() uint64 { return s.Ino }, func(v uint64) { s.Ino = v }),
		f4(16, func() uint32 { return s.Mode }, func(v uint32) { s.Mode = v }),
		f4(20, func() uint32 { return s.Nlink }, func(v uint32) { s.Nlink = v }),
		f4(24, func() uint32 { return s.Uid }, func(v uint32) { s.Uid = v }),
		f4(28, func() uint32 { return s.Gid }, func(v uint32) { s.Gid = v }),
		f8(32, func() uint64 { return s.Rdev }, func(v uint64) { s.Rdev = v }),
		f8(40, func() uint64 { return uint64(s.Size) }, func(v uint64) { s.Size = int64(v) }),
		f8(48, func() uint64 { return uint64(s.Blksize) }, func(v uint64) { s.Blksize = int64(v) }),
		f8(56, func() uint64 { return uint64(s.Blocks) }, func(v uint64) { s.Blocks = int64(v) }),
		f8(64, func() uint64 { return uint64(s.Atime) }, func(v uint64) { s.Atime = int64(v) }),
		f8(72, func() uint64 { return uint64(s.AtimeNsec) }, func(v uint64) { s.AtimeNsec = int64(v) }),
		f8(80, func() uint64 { return uint64(s.Mtime) }, func(v uint64) { s.Mtime = int64(v) }),
		f8(88, func() uint64 { return uint64(s.MtimeNsec) }, func(v uint64) { s.MtimeNsec = int64(v) }),
		f8(96, func() uint64 { return uint64(s.Ctime) }, func(v uint64) { s.Ctime = int64(v) }),
		f8(104, func() uint64 { return uint64(s.CtimeNsec) }, func(v uint64) { s.CtimeNsec = int64(v) }),
	}
}

const guestStat64Size = 112

// guestUtsname mirrors struct utsname (uname(2)), six 65-byte NUL-padded
// fields laid out back to back.
type guestUtsname struct {
	Sysname, Nodename, Release, Version, Machine, Domainname string
}

const utsFieldLen = 65

// guestSiginfo mirrors the subset of siginfo_t that waitid(2) populates for
// P_PID/P_ALL on the 32-bit layout: the three common leading fields plus the
// waitid-specific union members (pid, uid, status), each a plain 32-bit
// field in guest byte order.
type guestSiginfo struct {
	Signo, Errno, Code int32
	Pid                int32
	Uid                uint32
	Status             int32
}

func siginfoFields(si *guestSiginfo) []field {
	return []field{
		f4(0, func() uint32 { return uint32(si.Signo) }, func(v uint32) { si.Signo = int32(v) }),
		f4(4, func() uint32 { return uint32(si.Errno) }, func(v uint32) { si.Errno = int32(v) }),
		f4(8, func() uint32 { return uint32(si.Code) }, func(v uint32) { si.Code = int32(v) }),
		f4(12, func() uint32 { return uint32(si.Pid) }, func(v uint32) { si.Pid = int32(v) }),
		f4(16, func() uint32 { return si.Uid }, func(v uint32) { si.Uid = v }),
		f4(20, func() uint32 { return uint32(si.Status) }, func(v uint32) { si.Status = int32(v) }),
	}
}

// guestCapData mirrors one cap_user_data_t entry (capget/capset): three
// 32-bit capability-set words. Version 2/3 headers (the only ones in
// practice) use two consecutive entries to cover the 64-bit-wide sets.
type guestCapData struct {
	Effective, Permitted, Inheritable uint32
}

func capDataFields(entryOffset uint32, d *guestCapData) []field {
	return []field{
		f4(entryOffset+0, func() uint32 { return d.Effective }, func(v uint32) { d.Effective = v }),
		f4(entryOffset+4, func() uint32 { return d.Permitted }, func(v uint32) { d.Permitted = v }),
		f4(entryOffset+8, func() uint32 { return d.Inheritable }, func(v uint32) { d.Inheritable = v }),
	}
}

const (
	linuxCapabilityVersion1 = 0x19980330
)

// capEntries reports how many cap_user_data_t entries a given header
// version uses: one 32-bit-wide entry for the legacy version, two for
// version 2/3's 64-bit-wide capability sets.
func capEntries(version uint32) int {
	if version == linuxCapabilityVersion1 {
		return 1
	}
	return 2
}

func writeUtsname(mem *GuestMemory, base uint32, u guestUtsname) bool {
	parts := []string{u.Sysname, u.Nodename, u.Release, u.Version, u.Machine, u.Domainname}
	for i, s := range parts {
		buf := make([]byte, utsFieldLen)
		copy(buf, s)
		if !mem.WriteBytes(base+uint32(i*utsFieldLen), buf) {
			return false
		}
	}
	return true
}
