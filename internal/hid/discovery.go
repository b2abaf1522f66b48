package hid

import (
	"github.com/karalabe/hid"
)

// UsagePageDigitizer is the HID usage page reported by touch surfaces
const UsagePageDigitizer uint16 = 0x0D

// DeviceInfo contains information about a discovered HID device
type DeviceInfo struct {
	VendorID     uint16
	ProductID    uint16
	Path         string
	Manufacturer string
	Product      string
	SerialNumber string
	UsagePage    uint16
	Usage        uint16
}

// IsDigitizer reports whether the interface identifies as a touch digitizer
func (d DeviceInfo) IsDigitizer() bool {
	return d.UsagePage == UsagePageDigitizer
}

func fromHID(d hid.DeviceInfo) DeviceInfo {
	return DeviceInfo{
		VendorID:     d.VendorID,
		ProductID:    d.ProductID,
		Path:         d.Path,
		Manufacturer: d.Manufacturer,
		Product:      d.Product,
		SerialNumber: d.Serial,
		UsagePage:    d.UsagePage,
		Usage:        d.Usage,
	}
}

// ListDevices returns a list of all available HID devices
func ListDevices() ([]DeviceInfo, error) {
	devices := hid.Enumerate(0, 0)

	result := make([]DeviceInfo, len(devices))
	for i, d := range devices {
		result[i] = fromHID(d)
	}

	return result, nil
}

// FindDevice searches for a device matching the given vendor and product
// IDs, preferring a digitizer interface. It returns nil when none is
// connected.
func FindDevice(vendorID, productID uint16) (*DeviceInfo, error) {
	devices := hid.Enumerate(vendorID, productID)
	if len(devices) == 0 {
		return nil, nil
	}

	info := fromHID(devices[0])
	for _, d := range devices {
		if candidate := fromHID(d); candidate.IsDigitizer() {
			info = candidate
			break
		}
	}
	return &info, nil
}
