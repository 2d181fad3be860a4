package smali

import "fmt"

type scanState uint8

const (
	stateName scanState = iota
	stateParams
	stateParamsLong
	stateReturn
	stateReturnLong
	stateDone
)

// scanMethod splits a "name(params)return" token. Inside a reference
// ("L" up to ";") no character other than ';' is special. A run of '['
// applies to the next emitted type only, one array layer per '['. Void
// may only appear as the bare return type.
func scanMethod(tok string) (string, []Type, Type, error) {
	var (
		name   string
		params []Type
		ret    Type
		depth  int
		start  int
		state  = stateName
	)

	emit := func(t Type) {
		t.ArrayDepth = depth
		depth = 0
		if state == stateParams || state == stateParamsLong {
			params = append(params, t)
			state = stateParams
			return
		}
		ret = t
		state = stateDone
	}

	for i := 0; i < len(tok); i++ {
		c := tok[i]
		switch state {
		case stateName:
			if c == '(' {
				name = tok[:i]
				state = stateParams
			}
		case stateParams, stateReturn:
			switch {
			case c == ')' && state == stateParams:
				if depth > 0 {
					return "", nil, Type{}, fmt.Errorf("array marker without element type at offset %d", i)
				}
				state = stateReturn
			case c == '[':
				depth++
			case c == 'L':
				start = i
				if state == stateParams {
					state = stateParamsLong
				} else {
					state = stateReturnLong
				}
			default:
				t, ok := primitive(c)
				if !ok {
					return "", nil, Type{}, fmt.Errorf("unexpected %q at offset %d", c, i)
				}
				if t == Void && (state == stateParams || depth > 0) {
					return "", nil, Type{}, fmt.Errorf("void is only valid as a plain return type, offset %d", i)
				}
				emit(t)
			}
		case stateParamsLong, stateReturnLong:
			if c != ';' {
				continue
			}
			path, err := DecodeReference(tok[start : i+1])
			if err != nil {
				return "", nil, Type{}, err
			}
			emit(Reference(path))
		case stateDone:
			return "", nil, Type{}, fmt.Errorf("trailing characters %q after return type", tok[i:])
		}
	}

	switch {
	case state == stateName:
		return "", nil, Type{}, fmt.Errorf("missing parameter list")
	case state != stateDone:
		return "", nil, Type{}, fmt.Errorf("incomplete signature %q", tok)
	case name == "":
		return "", nil, Type{}, fmt.Errorf("missing method name")
	}
	return name, params, ret, nil
}
