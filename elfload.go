// elfload.go - ELF loader for statically linked m68k/Linux executables

package main

import (
	"debug/elf"
	"fmt"
)

// LoadedSegment describes one PT_LOAD program header after validation,
// ready to hand to GuestMemory.MapSegment.
type LoadedSegment struct {
	VAddr   uint32
	Data    []byte
	MemSize uint32
	Perms   uint8
	Name    string
}

// LoadedImage is the result of parsing an ELF executable: its loadable
// segments and the address execution should start at.
type LoadedImage struct {
	Segments []LoadedSegment
	Entry    uint32
	MaxVAddr uint32 // highest address touched by any segment, rounded to a page
}

// LoadELF parses path as an ELF file and validates it is exactly what this
// emulator can run: 32-bit, big-endian, EM_68K, statically linked (ET_EXEC).
func LoadELF(path string) (*LoadedImage, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("elfload: %w", err)
	}
	defer f.Close()

	if f.Class != elf.ELFCLASS32 {
		return nil, fmt.Errorf("elfload: %s is not a 32-bit ELF", path)
	}
	if f.Data != elf.ELFDATA2MSB {
		return nil, fmt.Errorf("elfload: %s is not big-endian", path)
	}
	if f.Machine != elf.EM_68K {
		return nil, fmt.Errorf("elfload: %s is not an m68k binary (machine=%s)", path, f.Machine)
	}
	if f.Type != elf.ET_EXEC {
		return nil, fmt.Errorf("elfload: %s is not a statically linked executable (type=%s); PIE/dynamic binaries are unsupported", path, f.Type)
	}

	img := &LoadedImage{Entry: uint32(f.Entry)}

	for _, prog := range f.Progs {
		if prog.Type != elf.PT_LOAD {
			continue
		}
		data := make([]byte, prog.Filesz)
		if prog.Filesz > 0 {
			n, err := prog.ReadAt(data, 0)
			if err != nil && uint64(n) != prog.Filesz {
				return nil, fmt.Errorf("elfload: reading PT_LOAD segment at 0x%08X: %w", prog.Vaddr, err)
			}
		}

		var perms uint8
		if prog.Flags&elf.PF_R != 0 {
			perms |= PermRead
		}
		if prog.Flags&elf.PF_W != 0 {
			perms |= PermWrite
		}
		if prog.Flags&elf.PF_X != 0 {
			perms |= PermExec
		}

		seg := LoadedSegment{
			VAddr:   uint32(prog.Vaddr),
			Data:    data,
			MemSize: uint32(prog.Memsz),
			Perms:   perms,
			Name:    fmt.Sprintf("load@%08x", prog.Vaddr),
		}
		img.Segments = append(img.Segments, seg)

		top := uint32(prog.Vaddr + prog.Memsz)
		if top > img.MaxVAddr {
			img.MaxVAddr = top
		}
	}

	if len(img.Segments) == 0 {
		return nil, fmt.Errorf("elfload: %s has no PT_LOAD segments", path)
	}

	img.MaxVAddr = (img.MaxVAddr + PAGE_SIZE - 1) &^ (PAGE_SIZE - 1)
	return img, nil
}
