// syscall_numbers.go - m68k Linux syscall numbers

package main

// Guest (m68k) syscall numbers, from the historical m68k unistd.h table
// (the same base numbering i386 used before the unified syscall table, plus
// the m68k-specific slots for the 64-bit-offset and realtime-signal calls).
// TRAP #0 delivers one of these in D0.
const (
	SYS_EXIT          = 1
	SYS_FORK          = 2
	SYS_READ          = 3
	SYS_WRITE         = 4
	SYS_OPEN          = 5
	SYS_CLOSE         = 6
	SYS_WAITPID       = 7
	SYS_CREAT         = 8
	SYS_LINK          = 9
	SYS_UNLINK        = 10
	SYS_EXECVE        = 11
	SYS_CHDIR         = 12
	SYS_TIME          = 13
	SYS_CHMOD         = 15
	SYS_LCHOWN        = 16
	SYS_STAT          = 18
	SYS_LSEEK         = 19
	SYS_GETPID        = 20
	SYS_SETUID        = 23
	SYS_GETUID        = 24
	SYS_FSTAT         = 28
	SYS_ACCESS        = 33
	SYS_KILL          = 37
	SYS_RENAME        = 38
	SYS_MKDIR         = 39
	SYS_RMDIR         = 40
	SYS_DUP           = 41
	SYS_PIPE          = 42
	SYS_BRK           = 45
	SYS_SETGID        = 46
	SYS_GETGID        = 47
	SYS_GETEUID       = 49
	SYS_GETEGID       = 50
	SYS_IOCTL         = 54
	SYS_FCNTL         = 55
	SYS_SETPGID       = 57
	SYS_UMASK         = 60
	SYS_DUP2          = 63
	SYS_GETPPID       = 64
	SYS_GETPGRP       = 65
	SYS_SETSID        = 66
	SYS_SIGACTION     = 67
	SYS_SETRLIMIT     = 75
	SYS_GETRLIMIT     = 76
	SYS_GETRUSAGE     = 77
	SYS_GETTIMEOFDAY  = 78
	SYS_SETTIMEOFDAY  = 79
	SYS_SELECT        = 82
	SYS_READLINK      = 85
	SYS_MMAP          = 90
	SYS_MUNMAP        = 91
	SYS_FCHMOD        = 94
	SYS_FCHOWN        = 95
	SYS_WAIT4         = 114
	SYS_IPC           = 117
	SYS_CLONE         = 120
	SYS_UNAME         = 122
	SYS_MPROTECT      = 125
	SYS_SIGPROCMASK   = 126
	SYS_GETPGID       = 132
	SYS_FCHDIR        = 133
	SYS_LLSEEK        = 140
	SYS_GETDENTS      = 141
	SYS_NEWSELECT     = 142
	SYS_FLOCK         = 143
	SYS_READV         = 145
	SYS_WRITEV        = 146
	SYS_GETSID        = 147
	SYS_NANOSLEEP     = 162
	SYS_MREMAP        = 163
	SYS_POLL          = 168
	SYS_PREAD64       = 180
	SYS_PWRITE64      = 181
	SYS_GETCWD        = 183
	SYS_CAPGET        = 184
	SYS_CAPSET        = 185
	SYS_SENDFILE      = 187
	SYS_MMAP2         = 192
	SYS_TRUNCATE64    = 193
	SYS_FTRUNCATE64   = 194
	SYS_STAT64        = 195
	SYS_LSTAT64       = 196
	SYS_FSTAT64       = 197
	SYS_GETUID32      = 199
	SYS_GETGID32      = 200
	SYS_GETEUID32     = 201
	SYS_GETEGID32     = 202
	SYS_FCNTL64       = 220
	SYS_EXIT_GROUP    = 221
	SYS_GETTID        = 224
	SYS_READAHEAD     = 225
	SYS_SETXATTR      = 226
	SYS_FUTEX         = 235
	SYS_IOPRIO_SET    = 230
	SYS_SENDTO        = 369
	SYS_RECVFROM      = 371
	SYS_SHUTDOWN      = 373
	SYS_SOCKET        = 359
	SYS_CONNECT       = 362
	SYS_ACCEPT        = 363
	SYS_BIND          = 361
	SYS_LISTEN        = 364
	SYS_GETSOCKNAME   = 367
	SYS_GETPEERNAME   = 368
	SYS_SOCKETPAIR    = 360
	SYS_SETSOCKOPT    = 365
	SYS_GETSOCKOPT    = 366
	SYS_SENDMSG       = 370
	SYS_RECVMSG       = 372
	SYS_ACCEPT4       = 442
	SYS_PIPE2         = 331
	SYS_DUP3          = 330
	SYS_RT_SIGACTION  = 244
	SYS_RT_SIGPROCMASK = 245
	SYS_OPENAT        = 322
	SYS_MKDIRAT       = 323
	SYS_FSTATAT64     = 328
	SYS_UNLINKAT      = 325
	SYS_CLOCK_GETTIME = 265
	SYS_PPOLL         = 376
	SYS_GETRANDOM     = 388
	SYS_OPENAT2       = 437
	SYS_WAITID        = 280
)
