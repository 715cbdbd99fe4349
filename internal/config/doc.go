// Package config manages packfix settings.
//
// Settings are stored as a JSON file and every field has a sensible default,
// so running without a config file is fully supported:
//
//	settings := config.DefaultSettings()
//
//	settings, err := config.Load("/path/to/config.json") // missing file → defaults
//
//	err = settings.Save("/path/to/config.json")
package config
