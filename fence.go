package vkc

import (
	"time"

	vk "github.com/vulkan-go/vulkan"
)

type Fence struct {
	Device  *Device
	VKFence vk.Fence
}

func (d *Device) VKCreateFence(signaled bool) (vk.Fence, error) {
	var fence vk.Fence
	var fenceCreateInfo = vk.FenceCreateInfo{}
	fenceCreateInfo.SType = vk.StructureTypeFenceCreateInfo
	if signaled {
		fenceCreateInfo.Flags = vk.FenceCreateFlags(vk.FenceCreateSignaledBit)
	}
	err := vk.Error(vk.CreateFence(d.VKDevice, &fenceCreateInfo, nil, &fence))
	if err != nil {
		return vk.NullFence, err
	}
	return fence, nil
}

func (d *Device) VKGetFenceStatus(f vk.Fence) vk.Result {
	return vk.GetFenceStatus(d.VKDevice, f)
}

func (d *Device) CreateFence() (*Fence, error) {
	fence, err := d.VKCreateFence(false)
	if err != nil {
		return nil, err
	}

	return &Fence{VKFence: fence, Device: d}, nil
}

// WaitForFences waits up to ts for the fences to signal. When waitForAll is
// false it returns when any fence signals.
func (d *Device) WaitForFences(waitForAll bool, ts time.Duration, fences ...*Fence) error {

	f := make([]vk.Fence, len(fences))
	for i := range fences {
		f[i] = fences[i].VKFence
	}

	wait := vk.Bool32(vk.False)
	if waitForAll {
		wait = vk.Bool32(vk.True)
	}

	return vk.Error(vk.WaitForFences(d.VKDevice, uint32(len(fences)), f, wait, uint64(ts.Nanoseconds())))
}

func (f *Fence) Destroy() {
	vk.DestroyFence(f.Device.VKDevice, f.VKFence, nil)
}
