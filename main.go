// Package main is the entry point for the snipcheck CLI.
package main

import "snipcheck.dev/pkg/snipcheck/cmd"

func main() {
	cmd.Execute()
}
