package nodes

import "errors"

var (
	errNoServices     = errors.New("nodes: no services configured on this run")
	errNoEventGateway = errors.New("nodes: services does not expose an event gateway")
)
