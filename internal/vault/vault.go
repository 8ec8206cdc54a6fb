// Package vault is the durable local key-value store behind the session:
// the bearer token, the profile snapshot and the device ID live here.
package vault

import "errors"

const (
	KeyAuthToken = "auth_token"
	KeyUserData  = "user_data"
	KeyDeviceID  = "device_id"
)

var ErrNotFound = errors.New("vault: key not found")

// Vault stores string entries under fixed keys. Each Set overwrites the
// whole entry; there is no partial update.
type Vault interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
	Close() error
}
