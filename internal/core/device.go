package core

// DeviceType indicates the kind of playback device.
type DeviceType string

const (
	DeviceTypeSpeaker  DeviceType = "speaker"
	DeviceTypeComputer DeviceType = "computer"
	DeviceTypePhone    DeviceType = "phone"
	DeviceTypeTV       DeviceType = "tv"
	DeviceTypeCar      DeviceType = "car"
	DeviceTypeOther    DeviceType = "other"
)

// Device represents a Spotify Connect playback device.
type Device struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Type         DeviceType `json:"type"`
	IsActive     bool       `json:"is_active"`
	IsRestricted bool       `json:"is_restricted"`
	// Volume is nil for devices that do not report a volume.
	Volume *int `json:"volume,omitempty"`
}

// Controllable reports whether the Web API accepts commands for the device.
func (d *Device) Controllable() bool {
	return d != nil && !d.IsRestricted
}
