//go:build !windows && !cgo

package main

func ensureConsole()  {}
func releaseConsole() {}
