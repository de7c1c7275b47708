package rawengine

import (
	"github.com/weaming/rawdng-go/rawerr"
)

// State is where a Session is in the decode protocol.
type State int

const (
	StateClosed State = iota
	StateOpened
	StateProbed
	StateDecoded
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpened:
		return "opened"
	case StateProbed:
		return "probed"
	case StateDecoded:
		return "decoded"
	default:
		return "invalid"
	}
}

// Session drives one Engine through Closed → Opened → Probed or Decoded,
// with Recycle returning to Closed from any state.
//
//	s := rawengine.NewSession(engine)
//	defer s.Recycle()
type Session struct {
	engine Engine
	state  State
}

// NewSession wraps e. The engine is recycled first so a reused engine
// starts clean.
func NewSession(e Engine) *Session {
	e.Recycle()
	return &Session{engine: e}
}

// State returns the current protocol state.
func (s *Session) State() State {
	return s.state
}

// Params returns the engine parameters. They may only be changed while closed.
func (s *Session) Params() (*Params, error) {
	if err := s.expect("params", StateClosed); err != nil {
		return nil, err
	}
	return s.engine.Params(), nil
}

// Open identifies the file behind ds.
func (s *Session) Open(ds DataStream) error {
	if err := s.expect("open", StateClosed); err != nil {
		return err
	}
	if err := s.engine.Open(ds); err != nil {
		return rawerr.Wrap(rawerr.CodeDecodeError, "cannot open stream", err)
	}
	s.state = StateOpened
	return nil
}

// AdjustSizesInfoOnly computes output sizes without decoding pixels.
func (s *Session) AdjustSizesInfoOnly() error {
	if err := s.expect("adjust sizes", StateOpened); err != nil {
		return err
	}
	if err := s.engine.AdjustSizesInfoOnly(); err != nil {
		return rawerr.Wrap(rawerr.CodeDecodeError, "failed to run adjust_sizes_info_only", err)
	}
	s.state = StateProbed
	return nil
}

// Unpack decodes the sensor data.
func (s *Session) Unpack() error {
	if err := s.expect("unpack", StateOpened); err != nil {
		return err
	}
	if err := s.engine.Unpack(); err != nil {
		return rawerr.Wrap(rawerr.CodeDecodeError, "failed to run unpack", err)
	}
	s.state = StateDecoded
	return nil
}

// Sizes returns the engine geometry after a probe or an unpack.
func (s *Session) Sizes() (Sizes, error) {
	if err := s.expect("sizes", StateProbed, StateDecoded); err != nil {
		return Sizes{}, err
	}
	return s.engine.Sizes(), nil
}

// IParams returns camera identity after a probe or an unpack.
func (s *Session) IParams() (IParams, error) {
	if err := s.expect("iparams", StateProbed, StateDecoded); err != nil {
		return IParams{}, err
	}
	return s.engine.IParams(), nil
}

// ColorData returns calibration after a probe or an unpack.
func (s *Session) ColorData() (ColorData, error) {
	if err := s.expect("color data", StateProbed, StateDecoded); err != nil {
		return ColorData{}, err
	}
	return s.engine.ColorData(), nil
}

// RawData returns the unpacked sensor buffer. It stays valid until Recycle.
func (s *Session) RawData() (RawData, error) {
	if err := s.expect("raw data", StateDecoded); err != nil {
		return RawData{}, err
	}
	return s.engine.RawData(), nil
}

// Color returns the filter colour at a sensor position.
func (s *Session) Color(row, col int) (int, error) {
	if err := s.expect("color", StateProbed, StateDecoded); err != nil {
		return 0, err
	}
	return s.engine.Color(row, col), nil
}

// Recycle resets the engine and the session. It is valid in every state.
func (s *Session) Recycle() {
	s.engine.Recycle()
	s.state = StateClosed
}

func (s *Session) expect(call string, allowed ...State) error {
	for _, st := range allowed {
		if s.state == st {
			return nil
		}
	}
	return rawerr.WithMetadata(rawerr.CodeOutOfOrderCall, "out of order call: "+call, map[string]string{
		"call":  call,
		"state": s.state.String(),
	})
}
