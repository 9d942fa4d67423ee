// Package compiler turns a memory game definition into a script program for
// the playback device. The device has no loops and no call stack: every
// decision is a guarded line, every loop is unrolled into named states
// linked by jumps, and all state lives in global registers.
//
// Pipeline: Definition → Generate → AllocateRegisters → RestartScripts → AssignCodes
package compiler
