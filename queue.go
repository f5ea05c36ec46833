package vkc

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"
)

type Queue struct {
	Device      *Device
	QueueFamily *QueueFamily
	VKQueue     vk.Queue
}

func (q *Queue) WaitIdle() error {
	return vk.Error(vk.QueueWaitIdle(q.VKQueue))
}

// SubmitWaitIdle submits the command buffers and blocks until the queue
// drains. Use SubmitWithFence when the wait should be bounded.
func (q *Queue) SubmitWaitIdle(buffers ...*CommandBuffer) error {
	if err := q.submit(vk.NullFence, buffers); err != nil {
		return err
	}
	return q.WaitIdle()
}

// SubmitWithFence submits the command buffers, signalling the fence on
// completion.
func (q *Queue) SubmitWithFence(fence *Fence, buffers ...*CommandBuffer) error {
	return q.submit(fence.VKFence, buffers)
}

func (q *Queue) submit(fence vk.Fence, buffers []*CommandBuffer) error {
	b := make([]vk.CommandBuffer, len(buffers))
	for i := range buffers {
		b[i] = buffers[i].VKCommandBuffer
	}

	submitInfo := vk.SubmitInfo{
		SType:              vk.StructureTypeSubmitInfo,
		CommandBufferCount: uint32(len(buffers)),
		PCommandBuffers:    b,
	}

	return vk.Error(vk.QueueSubmit(q.VKQueue, 1, []vk.SubmitInfo{submitInfo}, fence))
}

func (q *Queue) String() string {
	return fmt.Sprintf("{Device: %s QueueFamily: %s}", q.Device.String(), q.QueueFamily.String())
}
