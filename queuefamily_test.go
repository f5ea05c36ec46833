package vkc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

func familyWithFlags(index int, flags vk.QueueFlagBits) *QueueFamily {
	q := &QueueFamily{Index: index}
	q.VKQueueFamilyProperties.QueueFlags = vk.QueueFlags(flags)
	return q
}

func TestQueueFamilyFlags(t *testing.T) {
	q := familyWithFlags(0, vk.QueueComputeBit|vk.QueueTransferBit)

	assert.True(t, q.IsCompute())
	assert.True(t, q.IsTransfer())
	assert.False(t, q.IsGraphics())
}

func TestQueueFamilyFiltering(t *testing.T) {
	families := QueueFamilySlice{
		familyWithFlags(0, vk.QueueGraphicsBit|vk.QueueComputeBit|vk.QueueTransferBit),
		familyWithFlags(1, vk.QueueTransferBit),
		familyWithFlags(2, vk.QueueComputeBit|vk.QueueTransferBit),
	}

	compute := families.FilterCompute()
	require.Len(t, compute, 2)
	assert.Equal(t, 0, compute[0].Index)
	assert.Equal(t, 2, compute[1].Index)

	assert.Len(t, families.FilterTransfer(), 3)
}

func TestFirstCompute(t *testing.T) {
	families := QueueFamilySlice{
		familyWithFlags(0, vk.QueueTransferBit),
		familyWithFlags(1, vk.QueueComputeBit),
	}

	qf, err := families.FirstCompute()
	require.NoError(t, err)
	assert.Equal(t, 1, qf.Index)

	_, err = QueueFamilySlice{familyWithFlags(0, vk.QueueTransferBit)}.FirstCompute()
	require.Error(t, err)
}
