package gpu

import (
	"github.com/vkngwrapper/core/v3/core1_0"
)

// PipelineKind distinguishes graphics pipelines from compute pipelines
type PipelineKind int32

const (
	PipelineGraphics PipelineKind = iota
	PipelineCompute
)

var pipelineKindMapping = map[PipelineKind]string{
	PipelineGraphics: "PipelineGraphics",
	PipelineCompute:  "PipelineCompute",
}

func (k PipelineKind) String() string {
	str, ok := pipelineKindMapping[k]
	if !ok {
		return "unknown"
	}
	return str
}

// PipelineDescription is the information a pass provides so that a PipelineCompiler can build its
// pipeline object. Shader identifiers are opaque to the framegraph.
type PipelineDescription struct {
	Name           string
	Kind           PipelineKind
	VertexShader   string
	FragmentShader string
	ComputeShader  string
	Topology       core1_0.PrimitiveTopology
	ColorFormats   []core1_0.Format
	DepthFormat    core1_0.Format
	Samples        core1_0.SampleCountFlags
}
