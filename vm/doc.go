// Package vm implements the intcode interpreter: a machine that executes
// a linear, self-modifying program of integer opcodes against a single
// growable memory tape.
//
// # Architecture Overview
//
//   - Program: the initial list of integers. Immutable; every run copies it.
//
//   - Memory: the tape a machine reads and writes. Addresses past the end
//     are zero-filled on first access, so programs may use cells beyond
//     their own length as scratch space.
//
//   - Decode: splits an instruction word into an opcode (low two decimal
//     digits) and one addressing mode per parameter (remaining digits,
//     least significant first): position, immediate or relative.
//
//   - Machine: the fetch-decode-execute loop. It owns the program counter
//     and the relative base register and stops on opcode 99, on a fault,
//     or when its IO capability asks it to halt.
//
//   - IO: the capability the input and output opcodes go through. Buffer
//     replays a fixed input list; Controller adapts plain functions so the
//     program can drive external state. The pipeline package provides a
//     channel-connected implementation.
//
// # Faults
//
// Unknown opcodes, writes in immediate mode, invalid mode digits,
// addresses below zero or above MaxAddress and exhausted buffered input
// stop the machine. Run
// returns a *Fault wrapping one of the Err* sentinels; use errors.Is to
// match them.
package vm
