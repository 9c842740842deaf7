package engine

import "fmt"

// stepListDevices implements the ListDevices state: enumerate devices,
// print them, and shut down. This is the -l flag's entire job.
func (e *Engine) stepListDevices(ev Event) {
	if ev.Type != EventAction {
		return
	}
	devices, err := e.platform.GetDevices()
	if err != nil {
		e.shutDown(fmt.Errorf("engine: list devices: %w", err))
		return
	}
	for _, d := range devices {
		fmt.Printf("%-20s %-10s %-20s %s\n", d.Path, d.Type, d.Name, d.Serial)
	}
	e.shutDown(nil)
}
