// Package usbhid discovers and opens challenge-response tokens over USB
// HID and adapts them to the session transport: the slot protocol rides on
// 8-byte feature reports against the keyboard interface, not on interrupt
// endpoints.
package usbhid

import (
	"fmt"
	"sync"

	"github.com/sstallion/go-hid"

	"github.com/hidtoken/ykchalresp/session"
)

// reportSize is the feature report width used by all supported devices.
const reportSize = 8

// featureReportID is the HID report ID for the slot interface. The
// underlying library expects it prepended to every transfer.
const featureReportID = 0x00

// ID is a USB vendor/product pair.
type ID struct {
	Vendor  uint16
	Product uint16
}

// supportedDevices lists the vendor/product pairs that speak the slot
// protocol over feature reports.
var supportedDevices = map[ID]string{
	{0x1050, 0x0010}: "YubiKey 1/2",
	{0x1050, 0x0110}: "YubiKey NEO OTP",
	{0x1050, 0x0111}: "YubiKey NEO OTP+CCID",
	{0x1050, 0x0114}: "YubiKey NEO OTP+U2F",
	{0x1050, 0x0116}: "YubiKey NEO OTP+U2F+CCID",
	{0x1050, 0x0401}: "YubiKey 4/5 OTP",
	{0x1050, 0x0403}: "YubiKey 4/5 OTP+U2F",
	{0x1050, 0x0405}: "YubiKey 4/5 OTP+CCID",
	{0x1050, 0x0407}: "YubiKey 4/5 OTP+U2F+CCID",
	{0x1050, 0x0410}: "YubiKey Plus",
	{0x1d50, 0x60fc}: "OnlyKey",
	{0x20a0, 0x4211}: "NitroKey",
}

var initOnce sync.Once

func ensureInit() {
	initOnce.Do(func() {
		// hid.Init is idempotent per process; failures resurface on open.
		_ = hid.Init()
	})
}

// DeviceInfo describes one attached supported token.
type DeviceInfo struct {
	// Path is the platform device path, usable with OpenPath
	Path string

	// VendorID and ProductID identify the USB device
	VendorID  uint16
	ProductID uint16

	// Serial is the USB serial string, empty if not exposed
	Serial string

	// Product is the model name for the vendor/product pair
	Product string
}

// List enumerates all attached supported tokens.
func List() ([]DeviceInfo, error) {
	ensureInit()

	var found []DeviceInfo
	err := hid.Enumerate(hid.VendorIDAny, hid.ProductIDAny, func(info *hid.DeviceInfo) error {
		name, ok := supportedDevices[ID{info.VendorID, info.ProductID}]
		if !ok {
			return nil
		}
		// Composite devices expose several interfaces; the slot protocol
		// lives on the keyboard interface.
		if info.InterfaceNbr > 0 {
			return nil
		}
		found = append(found, DeviceInfo{
			Path:      info.Path,
			VendorID:  info.VendorID,
			ProductID: info.ProductID,
			Serial:    info.SerialNbr,
			Product:   name,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("enumerate devices: %w", err)
	}
	return found, nil
}

// Open opens the first attached supported token.
//
// Returns session.ErrNotFound if no supported device is attached.
func Open() (*Device, error) {
	devices, err := List()
	if err != nil {
		return nil, err
	}
	if len(devices) == 0 {
		return nil, session.ErrNotFound
	}
	return OpenPath(devices[0].Path)
}

// OpenSerial opens the attached token with the given USB serial string.
//
// Returns session.ErrNotFound if no supported device carries that serial.
func OpenSerial(serial string) (*Device, error) {
	devices, err := List()
	if err != nil {
		return nil, err
	}
	for _, d := range devices {
		if d.Serial == serial {
			return OpenPath(d.Path)
		}
	}
	return nil, session.ErrNotFound
}

// OpenPath opens the token at a platform device path from List.
func OpenPath(path string) (*Device, error) {
	ensureInit()

	handle, err := hid.OpenPath(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &Device{handle: handle}, nil
}

// Device is an opened token handle implementing session.Transport.
type Device struct {
	handle *hid.Device
}

var _ session.Transport = (*Device)(nil)

// ReadReport reads one feature report into buf.
func (d *Device) ReadReport(buf []byte) (int, error) {
	transfer := make([]byte, reportSize+1)
	transfer[0] = featureReportID

	n, err := d.handle.GetFeatureReport(transfer)
	if err != nil {
		return 0, fmt.Errorf("get feature report: %w", err)
	}
	if n < 1 {
		return 0, nil
	}
	// Strip the report ID byte.
	return copy(buf, transfer[1:n]), nil
}

// WriteReport writes one feature report. The packet must be exactly
// ReportSize bytes.
func (d *Device) WriteReport(packet []byte) error {
	if len(packet) != reportSize {
		return fmt.Errorf("packet is %d bytes, need %d", len(packet), reportSize)
	}

	transfer := make([]byte, reportSize+1)
	transfer[0] = featureReportID
	copy(transfer[1:], packet)

	if _, err := d.handle.SendFeatureReport(transfer); err != nil {
		return fmt.Errorf("send feature report: %w", err)
	}
	return nil
}

// ReportSize is the fixed feature report width.
func (d *Device) ReportSize() int { return reportSize }

// Close releases the device handle.
func (d *Device) Close() error {
	return d.handle.Close()
}
