package vtcore

// SetUserVar stores a named user variable (iTerm2 OSC 1337 SetUserVar),
// used by shell integration scripts to attach arbitrary key/value metadata
// to the session.
func (t *Terminal) SetUserVar(name, value string) {
	dispatch2(t.middleware.SetUserVar, name, value, t.setUserVarInternal)
}

func (t *Terminal) setUserVarInternal(name, value string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.userVars == nil {
		t.userVars = make(map[string]string)
	}
	t.userVars[name] = value
}

// GetUserVar returns the value of a previously set user variable, or "" if
// it was never set.
func (t *Terminal) GetUserVar(name string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.userVars[name]
}

// GetUserVars returns a copy of all currently set user variables.
func (t *Terminal) GetUserVars() map[string]string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	vars := make(map[string]string, len(t.userVars))
	for k, v := range t.userVars {
		vars[k] = v
	}
	return vars
}

// ClearUserVars removes all stored user variables.
func (t *Terminal) ClearUserVars() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.userVars = nil
}
