package screen

// State is what the screen shows.
//
//uistate:sealed
type State interface {
	isState()
}

// Nested groups the states of the nested flow.
type Nested interface {
	State
	isNested()
}

type Loading struct{}

type Loaded struct{ Data string }

type Error struct{ Message string }

type DeeplyNested struct{}

type hidden struct{}

func (Loading) isState()       {}
func (*Loaded) isState()       {}
func (Error) isState()         {}
func (DeeplyNested) isState()  {}
func (DeeplyNested) isNested() {}
func (hidden) isState()        {}

// Plain is marked but is not a union.
//
//uistate:sealed
type Plain struct{}

// Open can be implemented anywhere.
//
//uistate:sealed
type Open interface {
	Render() string
}

// Unrelated is sealed but not marked.
type Unrelated interface {
	isUnrelated()
}

//uistate:sealed
type internalState interface {
	isInternal()
}
