package model

import (
	"time"

	"github.com/google/uuid"
)

// AdminSourceAddress marks device entries force-added through the admin API.
const AdminSourceAddress = "admin"

// DeviceEntry represents one admitted device for one token. The pair
// (Token, DeviceHash) is unique; re-admitting the same device never consumes
// a second slot.
type DeviceEntry struct {
	ID         uuid.UUID `json:"id" db:"id"`
	Token      string    `json:"token" db:"token"`
	DeviceHash string    `json:"device_hash" db:"device_hash"`
	IP         string    `json:"ip" db:"ip"`
	UserAgent  string    `json:"user_agent" db:"user_agent"`
	ScreenSize string    `json:"screen_size" db:"screen_size"`
	Timezone   string    `json:"timezone" db:"timezone"`
	AdmittedAt time.Time `json:"admitted_at" db:"admitted_at"`
}

// DeviceSignal is the raw fingerprint material posted by the watch page.
type DeviceSignal struct {
	IP         string `json:"-"`
	UserAgent  string `json:"userAgent"`
	ScreenSize string `json:"screenSize"`
	Timezone   string `json:"timezone"`
}

// VerifyResponse is returned on successful admission or recheck. Identity is
// the fingerprint hash the client hands back on subsequent rechecks.
type VerifyResponse struct {
	Status   string `json:"status"`
	Identity string `json:"identity,omitempty"`
}

// KickDeviceRequest represents the admin request to evict a device.
type KickDeviceRequest struct {
	Token  string `form:"token" json:"token" binding:"required"`
	Device string `form:"device" json:"device" binding:"required"`
}

// AddDeviceRequest represents the admin request to force-add a device.
type AddDeviceRequest struct {
	Token  string `form:"token" json:"token" binding:"required"`
	Device string `form:"device" json:"device" binding:"required"`
}
