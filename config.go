package vkc

import (
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

// Config is the application configuration, conventionally read from a
// config.toml alongside the binary.
type Config struct {
	Device DeviceConfig `toml:"device"`
	Vulkan VulkanConfig `toml:"vulkan"`
}

// DeviceConfig selects which physical device to run on. At most one of Index
// and Name may be set; Type expresses a preference used when neither pins a
// specific device.
type DeviceConfig struct {
	// Index selects a device by its position in the enumeration order, as
	// printed by the devices command.
	Index *int `toml:"index"`
	// Name selects the first device whose name contains this string,
	// case-insensitively.
	Name string `toml:"name"`
	// Type prefers a device type: discrete, integrated, virtual, cpu or
	// other.
	Type string `toml:"type"`
}

// VulkanConfig controls runtime behavior of the Vulkan instance.
type VulkanConfig struct {
	// Validation enables the Khronos validation layer. Startup fails if the
	// layer is requested but not installed.
	Validation bool `toml:"validation"`
}

var deviceTypes = map[string]vk.PhysicalDeviceType{
	"discrete":   vk.PhysicalDeviceTypeDiscreteGpu,
	"integrated": vk.PhysicalDeviceTypeIntegratedGpu,
	"virtual":    vk.PhysicalDeviceTypeVirtualGpu,
	"cpu":        vk.PhysicalDeviceTypeCpu,
	"other":      vk.PhysicalDeviceTypeOther,
}

// LoadConfig reads and validates a TOML config file.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to load config %q", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config %q", path)
	}
	return &cfg, nil
}

// Validate checks the config for contradictions.
func (c *Config) Validate() error {
	if c.Device.Index != nil && c.Device.Name != "" {
		return errors.Newf("device.index and device.name are mutually exclusive")
	}
	if c.Device.Index != nil && *c.Device.Index < 0 {
		return errors.Newf("device.index must not be negative, got %d", *c.Device.Index)
	}
	if c.Device.Type != "" {
		if _, ok := deviceTypes[strings.ToLower(c.Device.Type)]; !ok {
			return errors.Newf("unknown device.type %q (want discrete, integrated, virtual, cpu or other)", c.Device.Type)
		}
	}
	return nil
}

// SelectPhysicalDevice picks a device from the enumerated list per the
// config: an explicit index wins, then a name match, then the first device
// of the preferred type, then the first device at all.
func (c *DeviceConfig) SelectPhysicalDevice(devices []*PhysicalDevice) (*PhysicalDevice, error) {
	if len(devices) == 0 {
		return nil, errors.Newf("no physical devices found")
	}

	if c.Index != nil {
		i := *c.Index
		if i < 0 || i >= len(devices) {
			return nil, errors.Newf("device index %d out of range, %d device(s) present", i, len(devices))
		}
		return devices[i], nil
	}

	if c.Name != "" {
		want := strings.ToLower(c.Name)
		for _, d := range devices {
			if strings.Contains(strings.ToLower(d.DeviceName), want) {
				return d, nil
			}
		}
		return nil, errors.Newf("no device name matches %q", c.Name)
	}

	if c.Type != "" {
		want := deviceTypes[strings.ToLower(c.Type)]
		for _, d := range devices {
			if d.DeviceType() == want {
				return d, nil
			}
		}
		// type is a preference, not a requirement
	}

	return devices[0], nil
}
