//go:build linux

// Package watchdog drives a Linux hardware watchdog device such as /dev/watchdog.
// The device reboots the board unless it is kicked before the timeout elapses.
package watchdog

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// MaxTimeoutSeconds is the largest timeout the Raspberry Pi watchdog accepts.
const MaxTimeoutSeconds = 15

type Device struct {
	f       *os.File
	timeout int
}

// Open opens the device and sets its timeout. The returned timeout is the one the driver settled on.
func Open(path string, timeoutSeconds int) (*Device, error) {
	if timeoutSeconds <= 0 || timeoutSeconds > MaxTimeoutSeconds {
		return nil, fmt.Errorf("watchdog timeout must be in [1, %d], got %d", MaxTimeoutSeconds, timeoutSeconds)
	}
	f, err := os.OpenFile(path, os.O_RDWR|unix.O_NOCTTY, 0)
	if err != nil {
		return nil, fmt.Errorf("open watchdog: %w", err)
	}
	fd := int(f.Fd())
	if err := unix.IoctlSetPointerInt(fd, unix.WDIOC_SETTIMEOUT, timeoutSeconds); err != nil {
		f.Close()
		return nil, fmt.Errorf("set watchdog timeout: %w", err)
	}
	timeout, err := unix.IoctlGetInt(fd, unix.WDIOC_GETTIMEOUT)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("get watchdog timeout: %w", err)
	}
	return &Device{f: f, timeout: timeout}, nil
}

func (d *Device) TimeoutSeconds() int {
	return d.timeout
}

func (d *Device) Kick() error {
	return unix.IoctlWatchdogKeepalive(int(d.f.Fd()))
}

// Close disarms the watchdog with the magic close character before closing the device.
func (d *Device) Close() error {
	if _, err := d.f.Write([]byte("V")); err != nil {
		d.f.Close()
		return fmt.Errorf("disarm watchdog: %w", err)
	}
	return d.f.Close()
}
