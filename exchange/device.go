// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package exchange

import (
	"fmt"
	"strings"

	"github.com/hashicorp/signin/config"
)

// Platform identifies the calling surface.
type Platform string

const (
	IOS     Platform = "IOS"
	Android Platform = "ANDROID"
	Web     Platform = "WEB"
)

var supportedPlatforms = map[Platform]bool{
	IOS:     true,
	Android: true,
	Web:     true,
}

// ParsePlatform returns the Platform named by s (case insensitive).
func ParsePlatform(s string) (Platform, error) {
	const op = "exchange.ParsePlatform"
	p := Platform(strings.ToUpper(strings.TrimSpace(s)))
	if !supportedPlatforms[p] {
		return "", fmt.Errorf("%s: unsupported platform %q: %w", op, s, ErrInvalidParameter)
	}
	return p, nil
}

// DeviceContext is sent along with the id_token on every exchange.
type DeviceContext struct {
	DeviceID    string
	Platform    Platform
	PackageName string
}

// DeviceFromConfig builds a DeviceContext from the configured device.
func DeviceFromConfig(c *config.Config) (DeviceContext, error) {
	const op = "exchange.DeviceFromConfig"
	if c == nil {
		return DeviceContext{}, fmt.Errorf("%s: config is nil: %w", op, ErrNilParameter)
	}
	p, err := ParsePlatform(c.Device.Platform)
	if err != nil {
		return DeviceContext{}, fmt.Errorf("%s: %w", op, err)
	}
	d := DeviceContext{
		DeviceID:    c.Device.ID,
		Platform:    p,
		PackageName: c.Device.PackageName,
	}
	if err := d.Validate(); err != nil {
		return DeviceContext{}, fmt.Errorf("%s: %w", op, err)
	}
	return d, nil
}

// Validate the device context.
func (d DeviceContext) Validate() error {
	const op = "exchange.(DeviceContext).Validate"
	switch {
	case d.DeviceID == "":
		return fmt.Errorf("%s: device id is empty: %w", op, ErrInvalidParameter)
	case d.PackageName == "":
		return fmt.Errorf("%s: package name is empty: %w", op, ErrInvalidParameter)
	case !supportedPlatforms[d.Platform]:
		return fmt.Errorf("%s: unsupported platform %q: %w", op, d.Platform, ErrInvalidParameter)
	}
	return nil
}
