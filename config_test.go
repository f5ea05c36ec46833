package vkc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `
[device]
name = "llvmpipe"
type = "cpu"

[vulkan]
validation = true
`))
	require.NoError(t, err)

	assert.Nil(t, cfg.Device.Index)
	assert.Equal(t, "llvmpipe", cfg.Device.Name)
	assert.Equal(t, "cpu", cfg.Device.Type)
	assert.True(t, cfg.Vulkan.Validation)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Nil(t, cfg.Device.Index)
	assert.Empty(t, cfg.Device.Name)
	assert.Empty(t, cfg.Device.Type)
	assert.False(t, cfg.Vulkan.Validation)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	idx := 0
	neg := -1

	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name: "index and name conflict",
			cfg: Config{Device: DeviceConfig{
				Index: &idx,
				Name:  "radeon",
			}},
			wantErr: "mutually exclusive",
		},
		{
			name:    "negative index",
			cfg:     Config{Device: DeviceConfig{Index: &neg}},
			wantErr: "must not be negative",
		},
		{
			name:    "unknown type",
			cfg:     Config{Device: DeviceConfig{Type: "quantum"}},
			wantErr: "unknown device.type",
		},
		{
			name: "valid",
			cfg:  Config{Device: DeviceConfig{Type: "discrete"}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
			}
		})
	}
}

func fakeDevice(name string, dtype vk.PhysicalDeviceType) *PhysicalDevice {
	p := &PhysicalDevice{DeviceName: name}
	p.VKPhysicalDeviceProperties.DeviceType = dtype
	return p
}

func TestSelectPhysicalDevice(t *testing.T) {
	devices := []*PhysicalDevice{
		fakeDevice("llvmpipe (LLVM 15.0.7, 256 bits)", vk.PhysicalDeviceTypeCpu),
		fakeDevice("Intel(R) UHD Graphics 630", vk.PhysicalDeviceTypeIntegratedGpu),
		fakeDevice("AMD Radeon RX 6800", vk.PhysicalDeviceTypeDiscreteGpu),
	}

	one := 1
	nine := 9

	t.Run("by index", func(t *testing.T) {
		d, err := (&DeviceConfig{Index: &one}).SelectPhysicalDevice(devices)
		require.NoError(t, err)
		assert.Same(t, devices[1], d)
	})

	t.Run("index out of range", func(t *testing.T) {
		_, err := (&DeviceConfig{Index: &nine}).SelectPhysicalDevice(devices)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "out of range")
	})

	t.Run("by name substring case insensitive", func(t *testing.T) {
		d, err := (&DeviceConfig{Name: "radeon"}).SelectPhysicalDevice(devices)
		require.NoError(t, err)
		assert.Same(t, devices[2], d)
	})

	t.Run("name with no match", func(t *testing.T) {
		_, err := (&DeviceConfig{Name: "geforce"}).SelectPhysicalDevice(devices)
		require.Error(t, err)
	})

	t.Run("by type preference", func(t *testing.T) {
		d, err := (&DeviceConfig{Type: "discrete"}).SelectPhysicalDevice(devices)
		require.NoError(t, err)
		assert.Same(t, devices[2], d)
	})

	t.Run("type preference falls back to first device", func(t *testing.T) {
		d, err := (&DeviceConfig{Type: "virtual"}).SelectPhysicalDevice(devices)
		require.NoError(t, err)
		assert.Same(t, devices[0], d)
	})

	t.Run("empty config picks first device", func(t *testing.T) {
		d, err := (&DeviceConfig{}).SelectPhysicalDevice(devices)
		require.NoError(t, err)
		assert.Same(t, devices[0], d)
	})

	t.Run("no devices", func(t *testing.T) {
		_, err := (&DeviceConfig{}).SelectPhysicalDevice(nil)
		require.Error(t, err)
	})
}
