package vkc

import (
	"fmt"
	"log/slog"
	"unsafe"

	vk "github.com/vulkan-go/vulkan"
)

// ValidationLayer is the comprehensive Khronos validation layer. Vulkan is an
// explicit API and drivers do minimal error checking, so enabling this layer
// during development is the main way of finding incorrect API usage.
const ValidationLayer = "VK_LAYER_KHRONOS_validation"

// InitializeForComputeOnly initializes Vulkan for a compute based task, it
// doesn't enable any graphics capabilities.
func InitializeForComputeOnly() error {
	err := vk.SetDefaultGetInstanceProcAddr()
	if err != nil {
		return err
	}
	return vk.Init()
}

// Version is used to specify versions of components
type Version struct {
	Major int
	Minor int
	Patch int
}

// VKVersion returns a Vulkan compatible version representation
func (v *Version) VKVersion() uint32 {
	return vk.MakeVersion(v.Major, v.Minor, v.Patch)
}

// App is used to provide information about this specific application to Vulkan
type App struct {
	// Name the name of the application
	Name string
	// EngineName the name of the engine associated with the application
	EngineName string
	// Version the version of the application
	Version Version
	// APIVersion the expected minimum version of the Vulkan API (i.e. 1.1.0)
	APIVersion Version

	// EnabledLayers the enabled layers
	EnabledLayers []string

	// EnabledExtensions the enabled extensions
	EnabledExtensions []string
}

// SupportedLayers returns a list of layers supported by the Vulkan runtime.
// Vulkan must have been initialized previously via InitializeForComputeOnly.
func SupportedLayers() ([]string, error) {
	var instanceLayerLen uint32
	err := vk.Error(vk.EnumerateInstanceLayerProperties(&instanceLayerLen, nil))
	if err != nil {
		return nil, err
	}
	instanceLayer := make([]vk.LayerProperties, instanceLayerLen)
	err = vk.Error(vk.EnumerateInstanceLayerProperties(&instanceLayerLen, instanceLayer))
	if err != nil {
		return nil, err
	}
	layerNames := make([]string, 0, instanceLayerLen)
	for _, layer := range instanceLayer {
		layer.Deref()
		layerNames = append(layerNames, vk.ToString(layer.LayerName[:]))
	}
	return layerNames, nil
}

// SupportedExtensions returns a list of instance extensions supported by the
// Vulkan runtime.
func SupportedExtensions() ([]string, error) {
	var instanceExtLen uint32
	err := vk.Error(vk.EnumerateInstanceExtensionProperties("", &instanceExtLen, nil))
	if err != nil {
		return nil, err
	}
	instanceExt := make([]vk.ExtensionProperties, instanceExtLen)
	err = vk.Error(vk.EnumerateInstanceExtensionProperties("", &instanceExtLen, instanceExt))
	if err != nil {
		return nil, err
	}
	extNames := make([]string, 0, instanceExtLen)
	for _, ext := range instanceExt {
		ext.Deref()
		extNames = append(extNames, vk.ToString(ext.ExtensionName[:]))
	}
	return extNames, nil
}

// EnableValidation enables the Khronos validation layer and the debug
// reporting extensions it reports through. It fails if the layer is not
// installed, so callers can surface "install the LunarG SDK" style guidance
// rather than silently running unvalidated.
func (a *App) EnableValidation() error {
	if _, err := a.EnableLayer(ValidationLayer); err != nil {
		return err
	}
	a.EnableExtension("VK_EXT_debug_report")
	return nil
}

// EnableLayer enables a specific layer, verifying first that the runtime
// actually supports it.
func (a *App) EnableLayer(layer string) (*App, error) {
	if a.EnabledLayers == nil {
		a.EnabledLayers = make([]string, 0)
	}
	layers, err := SupportedLayers()
	if err != nil {
		return a, fmt.Errorf("error getting supported layers: %w", err)
	}
	for _, l := range layers {
		if l == layer {
			a.EnabledLayers = append(a.EnabledLayers, layer)
			return a, nil
		}
	}
	return a, fmt.Errorf("validation layer '%s' not found", layer)
}

// EnableExtension enables an instance extension for use by the application
func (a *App) EnableExtension(extension string) *App {
	if a.EnabledExtensions == nil {
		a.EnabledExtensions = make([]string, 0)
	}
	a.EnabledExtensions = append(a.EnabledExtensions, extension)
	return a
}

// VKApplicationInfo creates a structure representing this application in a
// Vulkan friendly format
func (a *App) VKApplicationInfo() vk.ApplicationInfo {
	if a.APIVersion.Major < 1 {
		a.APIVersion.Major = 1
	}

	return vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		ApiVersion:         a.APIVersion.VKVersion(),
		ApplicationVersion: a.Version.VKVersion(),
		PApplicationName:   safeString(a.Name),
		PEngineName:        safeString(a.EngineName),
	}
}

// CreateInstance creates the Vulkan Instance
func (a *App) CreateInstance() (*Instance, error) {
	appInfo := a.VKApplicationInfo()

	extensions := safeStrings(a.EnabledExtensions)
	layers := safeStrings(a.EnabledLayers)

	createInfo := vk.InstanceCreateInfo{
		SType:                   vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo:        &appInfo,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: extensions,
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     layers,
	}

	instance := &Instance{}

	err := vk.Error(vk.CreateInstance(&createInfo, nil, &instance.VKInstance))
	if err != nil {
		return nil, err
	}
	vk.InitInstance(instance.VKInstance)

	return instance, nil
}

// Instance is an instance of the Vulkan subsystem
type Instance struct {
	// VKInstance is the native Vulkan instance object
	VKInstance vk.Instance
}

// PhysicalDevices returns a list of physical devices known to Vulkan
func (i *Instance) PhysicalDevices() ([]*PhysicalDevice, error) {
	var deviceCount uint32
	err := vk.Error(vk.EnumeratePhysicalDevices(i.VKInstance, &deviceCount, nil))
	if err != nil {
		return nil, err
	}

	if deviceCount == 0 {
		return nil, nil
	}

	devices := make([]vk.PhysicalDevice, deviceCount)
	err = vk.Error(vk.EnumeratePhysicalDevices(i.VKInstance, &deviceCount, devices))
	if err != nil {
		return nil, err
	}

	ret := make([]*PhysicalDevice, deviceCount)
	for i, device := range devices {
		ret[i] = &PhysicalDevice{VKPhysicalDevice: device}

		vk.GetPhysicalDeviceProperties(device, &ret[i].VKPhysicalDeviceProperties)
		ret[i].VKPhysicalDeviceProperties.Deref()
		ret[i].DeviceName = vk.ToString(ret[i].VKPhysicalDeviceProperties.DeviceName[:])
	}
	return ret, nil
}

// UseDefaultDebugCallback installs a debug report callback which logs
// validation messages through slog.
func (i *Instance) UseDefaultDebugCallback() error {
	return i.SetDebugCallback(DefaultDebugCallback)
}

// SetDebugCallback registers a debug report callback with the instance. The
// VK_EXT_debug_report extension must have been enabled at instance creation.
func (i *Instance) SetDebugCallback(callback vk.DebugReportCallbackFunc) error {
	var debugCallback vk.DebugReportCallback
	ret := vk.CreateDebugReportCallback(i.VKInstance, &vk.DebugReportCallbackCreateInfo{
		SType:       vk.StructureTypeDebugReportCallbackCreateInfo,
		Flags:       vk.DebugReportFlags(vk.DebugReportErrorBit | vk.DebugReportWarningBit),
		PfnCallback: callback,
	}, nil, &debugCallback)
	return vk.Error(ret)
}

// DefaultDebugCallback routes validation layer messages to slog at a level
// matching their severity.
func DefaultDebugCallback(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType,
	object uint64, location uint, messageCode int32, pLayerPrefix string,
	pMessage string, pUserData unsafe.Pointer) vk.Bool32 {

	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		slog.Error("vulkan validation", "layer", pLayerPrefix, "code", messageCode, "message", pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportWarningBit) != 0,
		flags&vk.DebugReportFlags(vk.DebugReportPerformanceWarningBit) != 0:
		slog.Warn("vulkan validation", "layer", pLayerPrefix, "code", messageCode, "message", pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportDebugBit) != 0:
		slog.Debug("vulkan validation", "layer", pLayerPrefix, "code", messageCode, "message", pMessage)
	default:
		slog.Info("vulkan validation", "layer", pLayerPrefix, "code", messageCode, "message", pMessage)
	}
	return vk.Bool32(vk.False)
}

func (i *Instance) Destroy() {
	vk.DestroyInstance(i.VKInstance, nil)
}
