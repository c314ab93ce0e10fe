package modcheck

import "errors"

// Test types for checking
type (
	ComponentA struct{}

	ComponentB struct {
		A *ComponentA
	}

	Component interface {
		ID() string
	}

	ComponentC struct{}

	ComponentD struct {
		Component Component
	}

	ComponentE struct {
		C *ComponentC
	}

	MyFactory struct {
		Msg string
	}

	ComponentF struct {
		Msg string
		A   *ComponentA
	}

	Greeter interface {
		Greet() string
	}

	englishGreeter struct{}

	Host struct {
		Welcome string
	}
)

func (c *ComponentC) ID() string {
	return "C"
}

func (e *ComponentE) ID() string {
	return "E"
}

func (englishGreeter) Greet() string {
	return "hello"
}

// Factories for testing
func newComponentA(Params, Scope) (*ComponentA, error) {
	return &ComponentA{}, nil
}

func newComponentB(_ Params, s Scope) (*ComponentB, error) {
	a, err := Get[*ComponentA](s)
	if err != nil {
		return nil, err
	}
	return &ComponentB{A: a}, nil
}

func newComponentC(Params, Scope) (*ComponentC, error) {
	return &ComponentC{}, nil
}

func newComponentD(_ Params, s Scope) (*ComponentD, error) {
	c, err := Get[Component](s)
	if err != nil {
		return nil, err
	}
	// make sure the placeholder is usable
	_ = c.ID()
	return &ComponentD{Component: c}, nil
}

func newComponentDNamed(qualifier string) func(Params, Scope) (*ComponentD, error) {
	return func(_ Params, s Scope) (*ComponentD, error) {
		c, err := GetNamed[Component](s, qualifier)
		if err != nil {
			return nil, err
		}
		return &ComponentD{Component: c}, nil
	}
}

func newComponentE(_ Params, s Scope) (*ComponentE, error) {
	c, err := Get[*ComponentC](s)
	if err != nil {
		return nil, err
	}
	return &ComponentE{C: c}, nil
}

func newMyFactory(p Params, _ Scope) (*MyFactory, error) {
	msg, err := Param[string](p, 0)
	if err != nil {
		return nil, err
	}
	return &MyFactory{Msg: msg}, nil
}

func newComponentF(p Params, s Scope) (*ComponentF, error) {
	msg, err := Param[string](p, 0)
	if err != nil {
		return nil, err
	}
	a, err := Get[*ComponentA](s)
	if err != nil {
		return nil, err
	}
	return &ComponentF{Msg: msg, A: a}, nil
}

func newFailingComponent(Params, Scope) (*ComponentA, error) {
	return nil, errors.New("factory intentionally failed")
}

func newGreeter(Params, Scope) (Greeter, error) {
	return englishGreeter{}, nil
}

func newHost(_ Params, s Scope) (*Host, error) {
	g, err := Get[Greeter](s)
	if err != nil {
		return nil, err
	}
	return &Host{Welcome: g.Greet()}, nil
}
