package experiment

// Phase is one stage of a run. Phases are entered in declaration order.
type Phase int

const (
	// Prepare kills leftovers and clears logs on every host.
	Prepare Phase = iota
	// StartServers launches receivers on every destination host.
	StartServers
	// StartClients launches senders on every source host.
	StartClients
	// Wait blocks for the test duration and settle interval.
	Wait
	// Collect harvests one measurement per link.
	Collect
	// Summarize aggregates measurements into a report.
	Summarize
	// Cleanup kills measurement processes on every host. It is always entered.
	Cleanup
)

var phaseNames = map[Phase]string{
	Prepare:      "Prepare",
	StartServers: "StartServers",
	StartClients: "StartClients",
	Wait:         "Wait",
	Collect:      "Collect",
	Summarize:    "Summarize",
	Cleanup:      "Cleanup",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return "Unknown"
}
