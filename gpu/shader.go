package gpu

import (
	_ "embed"
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"github.com/gogpu/composite"
	"github.com/gogpu/naga"
)

//go:embed shaders/normal.wgsl
var normalShaderSource string

// WorkgroupSize is the x size of the Normal kernel's workgroup.
const WorkgroupSize = 64

// Binding slots of the Normal kernel, all in group 0.
const (
	BindingParams = iota
	BindingInput
	BindingAux
	BindingMask
	BindingOutput
)

// NormalShaderSource returns the WGSL source of the Normal kernel.
func NormalShaderSource() string {
	return normalShaderSource
}

var normalSPIRV struct {
	once sync.Once
	code []uint32
	err  error
}

// CompileNormal compiles the Normal kernel to SPIR-V words. The result is
// computed once and shared; callers must not modify it.
func CompileNormal() ([]uint32, error) {
	normalSPIRV.once.Do(func() {
		normalSPIRV.code, normalSPIRV.err = CompileSPIRV(normalShaderSource)
		if normalSPIRV.err == nil {
			composite.Logger().Debug("gpu: normal kernel compiled", "words", len(normalSPIRV.code))
		}
	})
	return normalSPIRV.code, normalSPIRV.err
}

// CompileSPIRV compiles WGSL source to little-endian SPIR-V words.
func CompileSPIRV(source string) ([]uint32, error) {
	b, err := naga.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("gpu: compile shader: %w", err)
	}
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("gpu: compile shader: SPIR-V length %d is not a multiple of 4", len(b))
	}

	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	return words, nil
}

// NormalParams is the uniform block of the Normal kernel.
type NormalParams struct {
	// Count is the number of samples to process.
	Count uint32

	// Opacity scales the layer alpha.
	Opacity float32

	// HasMask selects whether the mask binding is read.
	HasMask bool
}

// NormalParamsSize is the size in bytes of the encoded uniform block.
const NormalParamsSize = 16

// Bytes encodes p in the uniform buffer layout of the kernel.
func (p NormalParams) Bytes() []byte {
	b := make([]byte, NormalParamsSize)
	binary.LittleEndian.PutUint32(b[0:], p.Count)
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(p.Opacity))
	if p.HasMask {
		binary.LittleEndian.PutUint32(b[8:], 1)
	}
	return b
}

// Workgroups returns the number of workgroups needed to cover n samples.
func Workgroups(n int) uint32 {
	if n <= 0 {
		return 0
	}
	return uint32((n + WorkgroupSize - 1) / WorkgroupSize)
}
