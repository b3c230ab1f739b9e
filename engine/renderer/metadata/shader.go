package metadata

// ShaderState is one of ShaderPreBuild, ShaderBuilt or ShaderDisposed.
type ShaderState interface {
	isShaderState()
}

type ShaderPreBuild struct {
	VertexSource   string
	FragmentSource string
}

// ShaderBuilt is a linked program.
type ShaderBuilt struct {
	ID uint32
}

type ShaderDisposed struct{}

func (ShaderPreBuild) isShaderState() {}
func (ShaderBuilt) isShaderState()    {}
func (ShaderDisposed) isShaderState() {}

type ShaderProgram struct {
	Name  string
	State ShaderState
}

func NewShaderProgram(name, vertexSource, fragmentSource string) *ShaderProgram {
	return &ShaderProgram{
		Name:  name,
		State: ShaderPreBuild{VertexSource: vertexSource, FragmentSource: fragmentSource},
	}
}

func (p *ShaderProgram) StateName() string {
	switch p.State.(type) {
	case ShaderPreBuild:
		return "PreBuild"
	case ShaderBuilt:
		return "Built"
	case ShaderDisposed:
		return "Disposed"
	default:
		return "Unknown"
	}
}

func (p *ShaderProgram) ID() (uint32, bool) {
	if s, ok := p.State.(ShaderBuilt); ok {
		return s.ID, true
	}
	return 0, false
}
