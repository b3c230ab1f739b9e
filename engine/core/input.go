package core

// Key codes share their numeric values with glfw.
type Key int

const (
	KEY_SPACE  Key = 32
	KEY_0      Key = 48
	KEY_1      Key = 49
	KEY_2      Key = 50
	KEY_3      Key = 51
	KEY_4      Key = 52
	KEY_5      Key = 53
	KEY_6      Key = 54
	KEY_7      Key = 55
	KEY_8      Key = 56
	KEY_9      Key = 57
	KEY_A      Key = 65
	KEY_B      Key = 66
	KEY_C      Key = 67
	KEY_D      Key = 68
	KEY_E      Key = 69
	KEY_F      Key = 70
	KEY_G      Key = 71
	KEY_H      Key = 72
	KEY_I      Key = 73
	KEY_J      Key = 74
	KEY_K      Key = 75
	KEY_L      Key = 76
	KEY_M      Key = 77
	KEY_N      Key = 78
	KEY_O      Key = 79
	KEY_P      Key = 80
	KEY_Q      Key = 81
	KEY_R      Key = 82
	KEY_S      Key = 83
	KEY_T      Key = 84
	KEY_U      Key = 85
	KEY_V      Key = 86
	KEY_W      Key = 87
	KEY_X      Key = 88
	KEY_Y      Key = 89
	KEY_Z      Key = 90
	KEY_ESCAPE Key = 256
	KEY_ENTER  Key = 257
	KEY_TAB    Key = 258
	KEY_RIGHT  Key = 262
	KEY_LEFT   Key = 263
	KEY_DOWN   Key = 264
	KEY_UP     Key = 265
	KEY_F1     Key = 290
	KEY_F2     Key = 291
	KEY_F3     Key = 292
	KEY_F4     Key = 293
)

const maxKeys = 512

// Keyboard state structure
type KeyboardState struct {
	Keys [maxKeys]bool
}

// InputState holds the current and previous keyboard states.
type InputState struct {
	current  KeyboardState
	previous KeyboardState
}

func NewInputState() *InputState {
	return &InputState{}
}

// Update rolls the current state into the previous one. Call once at the end of a frame.
func (s *InputState) Update() {
	s.previous = s.current
}

// ProcessKey records a key transition. Keys outside the tracked range are ignored.
func (s *InputState) ProcessKey(key Key, pressed bool) {
	if key < 0 || int(key) >= maxKeys {
		return
	}
	s.current.Keys[key] = pressed
}

func (s *InputState) IsKeyDown(key Key) bool {
	if key < 0 || int(key) >= maxKeys {
		return false
	}
	return s.current.Keys[key]
}

func (s *InputState) IsKeyUp(key Key) bool {
	return !s.IsKeyDown(key)
}

func (s *InputState) WasKeyDown(key Key) bool {
	if key < 0 || int(key) >= maxKeys {
		return false
	}
	return s.previous.Keys[key]
}

// KeyPressed reports a key that went down during this frame.
func (s *InputState) KeyPressed(key Key) bool {
	return s.IsKeyDown(key) && !s.WasKeyDown(key)
}

// KeyReleased reports a key that went up during this frame.
func (s *InputState) KeyReleased(key Key) bool {
	return !s.IsKeyDown(key) && s.WasKeyDown(key)
}
