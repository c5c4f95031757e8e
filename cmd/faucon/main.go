// Command faucon estimates the steady-state throughput of a basic block on
// a generic out-of-order x86-64 core, mirroring llvm_sim/x86/faucon.cc.
package main

import "github.com/keurnel/faucon/cmd/cli/cmd"

func main() {
	cmd.Execute()
}
