// Package ids generates k-sortable identifiers for device registrations and
// dev-server records.
package ids

import "github.com/segmentio/ksuid"

func New() string {
	return ksuid.New().String()
}
