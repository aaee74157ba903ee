// Command stockpile is the operator CLI for the metal stock inventory:
// item intake and lookup, scanner-driven batch relocation, shortening, and
// daemon status.
package main
