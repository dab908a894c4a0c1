// Package adb looks up display metadata for a device serial via the
// Android debug bridge. It is advisory only: a broken or missing adb must
// never block a device listing.
package adb

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/rgupta/uaftctl/uaft"
)

const adbPath = "adb"

// DeviceInfo is human-readable metadata for one serial.
type DeviceInfo struct {
	Serial string `json:"serial"`
	Make   string `json:"make"`
	Model  string `json:"model"`
}

// Info fetches manufacturer and model for a serial. Any failure along the
// way substitutes placeholders: "?" for the manufacturer and the serial
// itself for the model.
func Info(ctx context.Context, runner uaft.Runner, serial string) DeviceInfo {
	info := DeviceInfo{Serial: serial, Make: "?", Model: serial}

	if v, ok := getprop(ctx, runner, serial, "ro.product.manufacturer"); ok {
		info.Make = v
	}
	if v, ok := getprop(ctx, runner, serial, "ro.product.model"); ok {
		info.Model = v
	}
	return info
}

func getprop(ctx context.Context, runner uaft.Runner, serial, prop string) (string, bool) {
	res, err := runner.Run(ctx, []string{adbPath, "-s", serial, "shell", "getprop", prop}, "")
	if err != nil || res.ExitCode != 0 {
		log.Debug().Err(err).Str("serial", serial).Str("prop", prop).Msg("getprop failed, using placeholder")
		return "", false
	}
	value := strings.TrimSpace(res.Stdout)
	return value, value != ""
}
