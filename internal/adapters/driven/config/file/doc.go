// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data under the DocFoundry config directory.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage
//   - TokenStore: TOML credentials file, watched with fsnotify
package file
