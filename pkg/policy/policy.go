package policy

import (
	"errors"

	"github.com/bootguard-fw/bootguard-go/pkg/nvstore"
)

// ReadFlag returns the persisted protection-disable byte.
// A store that holds no written byte yields the zero (invalid) flag.
func ReadFlag(store nvstore.Store) (nvstore.Flag, error) {
	value, err := store.ReadByte()
	if errors.Is(err, nvstore.ErrNotWritten) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return nvstore.Flag(value), nil
}

// Effective reports whether memory protections start enabled this boot:
// the global toggle must be on and no valid disable byte may be pending.
func Effective(cfg Config, flag nvstore.Flag) bool {
	return cfg.GlobalToggle && !flag.Disabled()
}

// ClearFlag resets the persisted byte after policy has acted on it, so a
// later boot starts from a clean state. Writes an invalid (zero) byte
// rather than removing the store contents.
func ClearFlag(store nvstore.Store) error {
	return store.WriteByte(0)
}
