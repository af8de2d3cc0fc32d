//go:build linux && !tinygo

package main

import (
	"wifiwake-go/services/board"
	"wifiwake-go/services/power"
)

func platformResources() (board.Resources, error) { return board.NewPeriphResources() }
func platformPower() (power.Manager, error)        { return power.NewRTC(), nil }
