// main.go - entry point for the m68k userspace emulator

/*
(c) 2024 - 2025 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package main

import (
	"flag"
	"fmt"
	"os"
)

func main() {
	trace := flag.Bool("trace", false, "disassemble the first 16 instructions at the entry point and log each syscall to stdout")
	root := flag.String("root", "/", "base directory path-based syscalls are sandboxed beneath")
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "usage: m68kuser [-trace] [-root dir] <elf-binary> [guest-args...]")
		os.Exit(1)
	}

	path := args[0]
	argv := args
	envp := os.Environ()

	proc, err := NewGuestProcess(path, argv, envp, *root, *trace)
	if err != nil {
		fmt.Fprintf(os.Stderr, "m68kuser: %v\n", err)
		os.Exit(1)
	}

	code := proc.Run()
	os.Exit(code)
}
