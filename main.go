// Package main is the entry point for the scopemeter CLI.
package main

import "scopemeter.dev/pkg/scopemeter/cmd"

func main() {
	cmd.Execute()
}
