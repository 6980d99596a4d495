package agent

// Host is the capability a host repository value implements so an agent can
// be installed on it and found again later. The agent does not prescribe how
// the host stores the handle.
type Host interface {
	// PutAgent installs the agent on the host repository.
	PutAgent(agent *Agent)
	// GetAgent retrieves a previously installed agent.
	GetAgent() (*Agent, bool)
}

// Attach returns the agent already installed on the host, or opens the
// repository at path in the given mode and installs a new one. An open
// failure leaves the host untouched.
func Attach(host Host, path string, mode Mode) (*Agent, error) {
	if agent, ok := host.GetAgent(); ok {
		return agent, nil
	}
	agent, err := New(path, mode)
	if err != nil {
		return nil, err
	}
	host.PutAgent(agent)
	return agent, nil
}
