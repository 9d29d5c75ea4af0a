// Package main is the entry point for the bootmigrate CLI.
package main

import "bootmigrate.dev/pkg/bootmigrate/cmd"

func main() {
	cmd.Execute()
}
