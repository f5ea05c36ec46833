package vkc

import (
	"fmt"
	"log/slog"
)

// Allocation is a span handed out by an allocator. Object may hold the
// resource bound at this span so pool teardown can destroy it.
type Allocation struct {
	Offset uint64
	Size   uint64
	Object interface{}
}

func (a *Allocation) String() string {
	return fmt.Sprintf("[%d %d]", a.Offset, a.Size)
}

type IAllocator interface {
	Allocate(size uint64, align uint64) *Allocation
	Free(a *Allocation)
	DestroyContents()
	LogDetails()
}

// LinearAllocator hands out aligned offsets within a fixed-size span of
// memory, keeping allocations sorted by offset so freed gaps can be reused.
type LinearAllocator struct {
	Size   uint64
	allocs []*Allocation
}

func makeAlignUp(a uint64, align uint64) uint64 {
	m := a % align
	if m == 0 {
		return a
	}
	return (a - m) + align
}

func (p *LinearAllocator) Free(fa *Allocation) {
	fi := -1
	for i, a := range p.allocs {
		if a == fa {
			fi = i
		}
	}
	if fi != -1 {
		p.allocs = append(p.allocs[:fi], p.allocs[fi+1:]...)
	}
}

// Allocate returns a span of the requested size whose offset is a multiple
// of align, or nil if no gap can fit it.
func (p *LinearAllocator) Allocate(size uint64, align uint64) *Allocation {
	if align == 0 {
		align = 1
	}

	if len(p.allocs) == 0 {
		if size > p.Size {
			return nil
		}
		na := &Allocation{Offset: 0, Size: size}
		p.allocs = append(p.allocs, na)
		return na
	}

	// head gap
	if p.allocs[0].Offset >= size {
		na := &Allocation{Offset: 0, Size: size}
		p.allocs = append([]*Allocation{na}, p.allocs...)
		return na
	}

	// gaps between neighbors
	for i := 0; i+1 < len(p.allocs); i++ {
		c := p.allocs[i]
		n := p.allocs[i+1]

		l := makeAlignUp(c.Offset+c.Size, align)
		if l < n.Offset && n.Offset-l >= size {
			// FIXME: this takes the first fitting gap rather than the best one
			na := &Allocation{Offset: l, Size: size}
			p.allocs = append(p.allocs[:i+1], append([]*Allocation{na}, p.allocs[i+1:]...)...)
			return na
		}
	}

	// tail gap
	last := p.allocs[len(p.allocs)-1]
	nl := makeAlignUp(last.Offset+last.Size, align)
	if nl <= p.Size && p.Size-nl >= size {
		na := &Allocation{Offset: nl, Size: size}
		p.allocs = append(p.allocs, na)
		return na
	}

	return nil
}

// DestroyContents destroys every resource still bound to an allocation. The
// allocation list is detached first since destroying a resource frees its
// allocation back to this allocator.
func (p *LinearAllocator) DestroyContents() {
	allocs := p.allocs
	p.allocs = nil
	for _, a := range allocs {
		if d, ok := a.Object.(IDestructable); ok {
			d.Destroy()
		}
	}
}

func (p *LinearAllocator) LogDetails() {
	slog.Debug("allocator", "size", p.Size, "allocations", len(p.allocs), "spans", p.String())
}

func (p *LinearAllocator) String() string {
	return fmt.Sprintf("%v", p.allocs)
}
