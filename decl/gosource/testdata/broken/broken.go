package broken

//uistate:sealed
type State interface {
	isState()
}

type Loading struct{}

func (Loading) isState() {}

var _ = undefinedSymbol
