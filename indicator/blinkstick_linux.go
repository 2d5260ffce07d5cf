package indicator

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	blinkStickVendor  = 0x20a0
	blinkStickProduct = 0x41e5

	// Feature report 1 carries a single RGB triple.
	colorReportID = 1

	hidrawClassDir = "/sys/class/hidraw"
	devDir         = "/dev"
)

// BlinkStick talks to the first BlinkStick found under hidraw. The device is
// looked up on every Set so a stick plugged in later is picked up.
type BlinkStick struct {
	colors     Colors
	classDir   string
	devDir     string
	setFeature func(f *os.File, report []byte) error
}

func detect(colors Colors) Light {
	if _, err := os.Stat(hidrawClassDir); err != nil {
		return nil
	}
	return NewBlinkStick(colors)
}

func NewBlinkStick(colors Colors) *BlinkStick {
	return &BlinkStick{
		colors:     colors,
		classDir:   hidrawClassDir,
		devDir:     devDir,
		setFeature: hidSetFeature,
	}
}

func (b *BlinkStick) Name() string { return "blinkstick" }

// Set changes the colour. No attached stick is not an error.
func (b *BlinkStick) Set(on bool) error {
	path, err := b.Find()
	if errors.Is(err, ErrNoDevice) {
		return nil
	}
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("blinkstick: %w", err)
	}
	defer f.Close()

	c := b.colors.For(on)
	if err := b.setFeature(f, []byte{colorReportID, c.R, c.G, c.B}); err != nil {
		return fmt.Errorf("blinkstick %s: set color: %w", path, err)
	}
	return nil
}

// Find returns the device node of the first attached BlinkStick.
func (b *BlinkStick) Find() (string, error) {
	ueventPaths, err := filepath.Glob(filepath.Join(b.classDir, "hidraw*", "device", "uevent"))
	if err != nil {
		return "", err
	}
	for _, p := range ueventPaths {
		if !isBlinkStick(p) {
			continue
		}
		node := filepath.Base(filepath.Dir(filepath.Dir(p)))
		return filepath.Join(b.devDir, node), nil
	}
	return "", ErrNoDevice
}

func isBlinkStick(ueventPath string) bool {
	f, err := os.Open(ueventPath)
	if err != nil {
		return false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		v, ok := strings.CutPrefix(scanner.Text(), "HID_ID=")
		if !ok {
			continue
		}
		vendor, product, ok := parseHIDID(v)
		return ok && vendor == blinkStickVendor && product == blinkStickProduct
	}
	return false
}

// ioctl request encoding from asm-generic/ioctl.h.
const (
	iocWrite = 1
	iocRead  = 2
)

func ioc(dir, typ, nr, size uintptr) uintptr {
	return dir<<30 | size<<16 | typ<<8 | nr
}

// hidSetFeature issues HIDIOCSFEATURE(len(report)).
func hidSetFeature(f *os.File, report []byte) error {
	req := ioc(iocRead|iocWrite, 'H', 0x06, uintptr(len(report)))
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, f.Fd(), req, uintptr(unsafe.Pointer(&report[0])))
	if errno != 0 {
		return errno
	}
	return nil
}
