// syscall_layout_test.go - struct marshalling round trips

package main

import "testing"

func newTestMem(base, size uint32) *GuestMemory {
	mem := NewGuestMemory()
	mem.MapSegment(base, nil, size, PermRead|PermWrite, "test")
	return mem
}

func TestTimespecRoundTrip(t *testing.T) {
	mem := newTestMem(0x1000, 0x100)
	want := guestTimespec{Sec: 1732000000, Nsec: 123456789}

	if !writeStruct(mem, 0x1000, timespecFields(&want)) {
		t.Fatal("writeStruct failed")
	}
	var got guestTimespec
	if !readStruct(mem, 0x1000, timespecFields(&got)) {
		t.Fatal("readStruct failed")
	}
	if got != want {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, want)
	}

	var raw [4]byte
	mem.ReadBytes(0x1000, raw[:])
	if raw[0] != byte(want.Sec>>24) {
		t.Errorf("tv_sec not stored big-endian: got %x", raw)
	}
}

func TestIovecRoundTrip(t *testing.T) {
	mem := newTestMem(0x1000, 0x100)
	want := guestIovec{Base: 0x00402000, Len: 256}

	writeStruct(mem, 0x1000, iovecFields(&want))
	var got guestIovec
	readStruct(mem, 0x1000, iovecFields(&got))

	if got != want {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, want)
	}
}

func TestStat64RoundTrip(t *testing.T) {
	mem := newTestMem(0x1000, guestStat64Size)
	want := guestStat64{
		Dev: 0x801, Ino: 123456,
		Mode: 0100644, Nlink: 1,
		Uid: 1000, Gid: 1000,
		Rdev: 0, Size: 4096, Blksize: 512, Blocks: 8,
		Atime: 1700000000, AtimeNsec: 1,
		Mtime: 1700000001, MtimeNsec: 2,
		Ctime: 1700000002, CtimeNsec: 3,
	}

	if !writeStruct(mem, 0x1000, stat64Fields(&want)) {
		t.Fatal("writeStruct failed")
	}
	var got guestStat64
	if !readStruct(mem, 0x1000, stat64Fields(&got)) {
		t.Fatal("readStruct failed")
	}
	if got != want {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, want)
	}

	var modeBytes [4]byte
	mem.ReadBytes(0x1000+16, modeBytes[:])
	if modeBytes[3] != byte(want.Mode) || modeBytes[0] != 0 {
		t.Errorf("st_mode not stored big-endian at its field offset: got %x", modeBytes)
	}
}
