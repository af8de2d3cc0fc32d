//go:build !linux || tinygo

package main

import (
	"wifiwake-go/errcode"
	"wifiwake-go/services/board"
	"wifiwake-go/services/power"
)

func platformResources() (board.Resources, error) {
	return nil, &errcode.E{C: errcode.Unsupported, Op: "cyclehost", Msg: "display needs linux"}
}

func platformPower() (power.Manager, error) {
	return nil, &errcode.E{C: errcode.Unsupported, Op: "cyclehost", Msg: "suspend needs linux; use --dry-run"}
}
