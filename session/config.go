// Package session - the state a memimg user carries between runs: the last
// target (pid, address, geometry, format), the dump folder, the zoom level and
// the status line.
package session

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/nvr-ai/go-memimg/memory"
	"github.com/nvr-ai/go-memimg/pixfmt"
)

// Config is the persisted session. Field names follow the TOML keys.
type Config struct {
	// PID is the target process. Zero means no process is selected.
	PID uint32 `toml:"pid" json:"pid"`
	// Address is the start address as typed, e.g. "0x7ffd1234".
	Address string `toml:"address" json:"address"`
	// Width is the image width in pixels.
	Width int `toml:"width" json:"width"`
	// Height is the image height in pixels.
	Height int `toml:"height" json:"height"`
	// Format is the pixel format of the buffer.
	Format pixfmt.Format `toml:"format" json:"format"`
	// Order is the channel order of the buffer.
	Order pixfmt.ChannelOrder `toml:"order" json:"order"`
	// DumpFolder receives quick dumps. Empty disables them.
	DumpFolder string `toml:"dump_folder" json:"dump_folder"`
}

// DefaultConfig returns the configuration used when nothing is persisted yet.
func DefaultConfig() Config {
	return Config{
		Format: pixfmt.DefaultFormat,
		Order:  pixfmt.RGB,
	}
}

// Keys lists the settable keys in display order.
var Keys = []string{"pid", "address", "width", "height", "format", "order", "dump_folder"}

// Set updates one field from its text form.
//
// Arguments:
//   - key: One of Keys.
//   - value: The new value; it is validated the same way the CLI validates flags.
//
// Returns:
//   - error: If the key is unknown or the value is invalid.
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "pid":
		pid, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return errors.Wrapf(err, "pid %q", value)
		}
		c.PID = uint32(pid)
	case "address":
		if value != "" {
			if _, err := memory.ParseAddress(value); err != nil {
				return err
			}
		}
		c.Address = value
	case "width", "height":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return errors.Errorf("%s must be a non-negative integer, got %q", key, value)
		}
		if key == "width" {
			c.Width = n
		} else {
			c.Height = n
		}
	case "format":
		f, err := pixfmt.ParseFormat(value)
		if err != nil {
			return err
		}
		c.Format = f
	case "order":
		o, err := pixfmt.ParseChannelOrder(value)
		if err != nil {
			return err
		}
		c.Order = o
	case "dump_folder":
		c.DumpFolder = value
	default:
		return errors.Errorf("unknown config key %q (known: %s)", key, strings.Join(Keys, ", "))
	}
	return nil
}

// Get returns the text form of one field.
func (c Config) Get(key string) (string, error) {
	switch key {
	case "pid":
		return strconv.FormatUint(uint64(c.PID), 10), nil
	case "address":
		return c.Address, nil
	case "width":
		return strconv.Itoa(c.Width), nil
	case "height":
		return strconv.Itoa(c.Height), nil
	case "format":
		return c.Format.String(), nil
	case "order":
		return c.Order.String(), nil
	case "dump_folder":
		return c.DumpFolder, nil
	default:
		return "", errors.Errorf("unknown config key %q", key)
	}
}

// Target is a fully resolved read request.
type Target struct {
	PID     uint32
	Address uint64
	Width   int
	Height  int
	Format  pixfmt.Format
	Order   pixfmt.ChannelOrder
}

// Target resolves the configuration into a read request. It fails if no process
// is selected or the address does not parse.
func (c Config) Target() (Target, error) {
	if c.PID == 0 {
		return Target{}, errors.New("no process selected")
	}
	addr, err := memory.ParseAddress(c.Address)
	if err != nil {
		return Target{}, err
	}
	if !c.Format.Valid() {
		return Target{}, errors.Errorf("invalid format %d", uint8(c.Format))
	}
	return Target{
		PID:     c.PID,
		Address: addr,
		Width:   c.Width,
		Height:  c.Height,
		Format:  c.Format,
		Order:   c.Order,
	}, nil
}
