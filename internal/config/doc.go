// Package config loads and validates application settings from config files
// and ATELIER_-prefixed environment variables.
package config
