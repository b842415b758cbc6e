package diamond

// State has two sub-unions that share a case.
//
//uistate:sealed
type State interface {
	isState()
}

type A interface {
	State
	isA()
}

type B interface {
	State
	isB()
}

// Both is a case of A and of B.
type Both struct{}

type OnlyA struct{}

type OnlyB struct{}

func (Both) isState()  {}
func (Both) isA()      {}
func (Both) isB()      {}
func (OnlyA) isState() {}
func (OnlyA) isA()     {}
func (OnlyB) isState() {}
func (OnlyB) isB()     {}
