package encryption

import (
	"fmt"

	"gameshelf/internal/config"
	"gameshelf/internal/shelf"
)

// NewEncryptorFromConfig creates an Encryptor based on the configuration type.
// armored selects text output for the age encryptor (used for export files).
func NewEncryptorFromConfig(cfg config.EncryptionConfig, armored bool) (shelf.Encryptor, error) {
	switch cfg.Type {
	case "age", "":
		e := NewAgeEncryptor(cfg)
		if armored {
			return e.Armored(), nil
		}
		return e, nil
	case "test":
		return NewTestEncryptor(), nil
	default:
		return nil, fmt.Errorf("unknown encryption type: %q", cfg.Type)
	}
}
