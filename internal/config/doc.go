// Package config manages the persistent CLI configuration stored at
// ~/.braid/config.yaml, backed by Viper with BRAID_* env overrides.
package config
