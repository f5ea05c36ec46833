package vkc

import (
	"testing"
)

func TestAlign(t *testing.T) {
	if makeAlignUp(12, 3) != 12 {
		t.Fail()
	}

	if makeAlignUp(10, 3) != 12 {
		t.Fail()
	}

	if makeAlignUp(0, 256) != 0 {
		t.Fail()
	}

	if makeAlignUp(1, 256) != 256 {
		t.Fail()
	}
}

func TestAllocator(t *testing.T) {

	a := LinearAllocator{Size: 1024}

	ra := a.Allocate(2048, 1)
	if ra != nil {
		t.Error("allocation larger than the pool must fail")
	}

	fa := a.Allocate(512, 1)
	if fa == nil {
		t.Error("first allocation failed")
	}

	ra = a.Allocate(768, 1)
	if ra != nil {
		t.Error("oversubscribing allocation must fail")
	}

	k := a.Allocate(500, 1)
	if k == nil {
		t.Error("tail allocation failed")
	}

	ra = a.Allocate(50, 1)
	if ra != nil {
		t.Error("allocation past remaining space must fail")
	}

	ra = a.Allocate(5, 1)
	if ra == nil {
		t.Error("small tail allocation failed")
	}

	ra = a.Allocate(20, 1)
	if ra != nil {
		t.Error("allocation past remaining space must fail")
	}

	a.Free(k)
	ra = a.Allocate(500, 1)
	if ra == nil {
		t.Error("reusing a freed interior span failed")
	}

	a.Free(fa)
	ra = a.Allocate(20, 1)
	if ra == nil {
		t.Error("allocating from a freed head span failed")
	}
	if ra.Offset != 0 {
		t.Errorf("head allocation expected offset 0, got %d", ra.Offset)
	}

	ra = a.Allocate(40, 1)
	if ra == nil {
		t.Error("second head gap allocation failed")
	}

	ra = a.Allocate(12, 1)
	if ra == nil {
		t.Error("third head gap allocation failed")
	}

	ra = a.Allocate(500, 1)
	if ra != nil {
		t.Error("allocation larger than any gap must fail")
	}

	ra = a.Allocate(5, 1)
	if ra == nil {
		t.Error("small gap allocation failed")
	}
}

func TestAllocatorAlignment(t *testing.T) {
	a := LinearAllocator{Size: 1024}

	first := a.Allocate(10, 1)
	if first == nil {
		t.Fatal("first allocation failed")
	}

	aligned := a.Allocate(64, 256)
	if aligned == nil {
		t.Fatal("aligned allocation failed")
	}
	if aligned.Offset%256 != 0 {
		t.Errorf("expected 256 byte aligned offset, got %d", aligned.Offset)
	}
}

func TestAllocatorZeroAlign(t *testing.T) {
	a := LinearAllocator{Size: 64}

	if a.Allocate(8, 0) == nil {
		t.Error("zero alignment should be treated as unaligned")
	}
	if a.Allocate(8, 0) == nil {
		t.Error("second zero alignment allocation failed")
	}
}
